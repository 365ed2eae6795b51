package cli

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/biotree/internal/server"
	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/layout"
	"github.com/matzehuels/biotree/pkg/source"
)

// =============================================================================
// Config File
// =============================================================================

// Config is the contents of config.toml. Zero values mean "use the default";
// flags given on the command line override the file.
type Config struct {
	Layout   LayoutConfig   `toml:"layout"`
	Viewport ViewportConfig `toml:"viewport"`
	Load     LoadConfig     `toml:"load"`
	Cache    CacheConfig    `toml:"cache"`
	Server   ServerConfig   `toml:"server"`
}

// LayoutConfig is the [layout] section.
type LayoutConfig struct {
	NodeGap   float64 `toml:"node_gap"`
	Padding   float64 `toml:"padding"`
	Margin    float64 `toml:"margin"`
	Measure   string  `toml:"measure"` // mono, cells or font
	CharWidth float64 `toml:"char_width"`
	FontSize  float64 `toml:"font_size"`
}

// ViewportConfig is the [viewport] section.
type ViewportConfig struct {
	MinScale float64       `toml:"min_scale"`
	MaxScale float64       `toml:"max_scale"`
	Duration time.Duration `toml:"duration"`
}

// LoadConfig is the [load] section.
type LoadConfig struct {
	Source       string `toml:"source"`
	MaxDepth     *int   `toml:"max_depth"`
	InitialDepth *int   `toml:"initial_depth"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Disabled  bool          `toml:"disabled"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	Prefix    string        `toml:"prefix"`
	TTL       time.Duration `toml:"ttl"`
}

// ServerConfig is the [server] section.
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	SessionTTL  time.Duration `toml:"session_ttl"`
	AllowSource bool          `toml:"allow_source"`
}

const (
	defaultAddr     = ":8080"
	defaultFontSize = 12.0
)

// loadConfig reads path. An empty path reads the default location, where a
// missing file is not an error.
func loadConfig(path string) (Config, error) {
	var cfg Config
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// Engine merges the file over engine.DefaultConfig.
func (c Config) Engine() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	l := c.Layout
	if l.NodeGap > 0 {
		cfg.Layout.NodeGap = l.NodeGap
	}
	if l.Padding > 0 {
		cfg.Layout.Padding = l.Padding
	}
	if l.Margin > 0 {
		cfg.Layout.Margin = l.Margin
	}
	charWidth := layout.DefaultCharWidth
	if l.CharWidth > 0 {
		charWidth = l.CharWidth
	}
	fontSize := defaultFontSize
	if l.FontSize > 0 {
		fontSize = l.FontSize
	}
	m, err := layout.NewMeasurer(l.Measure, charWidth, fontSize)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout.measure")
	}
	cfg.Layout.Measurer = m

	v := c.Viewport
	if v.MinScale > 0 {
		cfg.Viewport.MinScale = v.MinScale
	}
	if v.MaxScale > 0 {
		cfg.Viewport.MaxScale = v.MaxScale
	}
	if v.Duration > 0 {
		cfg.Viewport.Duration = v.Duration
	}

	if c.Load.MaxDepth != nil {
		cfg.MaxDepth = *c.Load.MaxDepth
	}
	if c.Load.InitialDepth != nil {
		cfg.InitialDepth = *c.Load.InitialDepth
	}
	return cfg, cfg.Validate()
}

// cacheTTL returns the document cache lifetime.
func (c Config) cacheTTL() time.Duration {
	if c.Cache.TTL > 0 {
		return c.Cache.TTL
	}
	return source.DefaultTTL
}

func (c Config) serverAddr() string {
	if c.Server.Addr != "" {
		return c.Server.Addr
	}
	return defaultAddr
}

func (c Config) sessionTTL() time.Duration {
	if c.Server.SessionTTL > 0 {
		return c.Server.SessionTTL
	}
	return server.DefaultSessionTTL
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/biotree/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
