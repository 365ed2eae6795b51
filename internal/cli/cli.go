package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/biotree/pkg/buildinfo"
	"github.com/matzehuels/biotree/pkg/cache"
	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "biotree"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is read from --config (or the default location) before any
	// subcommand runs.
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Biotree explores large hierarchies as collapsible trees",
		Long: `Biotree loads a hierarchy document (nested {"id", "children"} JSON) and
lays it out as a left-to-right tree you can expand, collapse and focus.

Documents can come from a local file, an http(s) URL or a MongoDB collection.
Render static snapshots, explore interactively in the terminal, or serve
viewer sessions over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/biotree/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.findCommand())
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Loading
// =============================================================================

// loadFlags are the flags shared by every command that loads a document.
type loadFlags struct {
	maxDepth     int
	initialDepth int
	measure      string
	noCache      bool
	refresh      bool
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", -1, "prune the document below this depth (-1 keeps everything)")
	cmd.Flags().IntVar(&f.initialDepth, "initial-depth", engine.DefaultInitialDepth, "depth expanded after load (-1 expands everything)")
	cmd.Flags().StringVar(&f.measure, "measure", "", "label measurer: mono (default), cells, font")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the document cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch the document even if cached")
}

// engineConfig merges the changed flags over the config file.
func (c *CLI) engineConfig(cmd *cobra.Command, f *loadFlags) (engine.Config, error) {
	file := c.Config
	flags := cmd.Flags()
	if flags.Changed("measure") {
		file.Layout.Measure = f.measure
	}
	if flags.Changed("max-depth") {
		file.Load.MaxDepth = &f.maxDepth
	}
	if flags.Changed("initial-depth") {
		file.Load.InitialDepth = &f.initialDepth
	}
	return file.Engine()
}

// location picks the document location from args, falling back to the
// config file.
func (c *CLI) location(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.Config.Load.Source != "" {
		return c.Config.Load.Source, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "no source given and [load] source is not set")
}

// sourceOptions opens the configured cache and returns the source options
// using it. The caller closes the cache.
func (c *CLI) sourceOptions(ctx context.Context, f *loadFlags) ([]source.Option, cache.Cache, error) {
	ch, err := newCache(ctx, c.Config.Cache, f.noCache)
	if err != nil {
		return nil, nil, err
	}
	opts := []source.Option{
		source.WithCache(ch, c.Config.cacheTTL()),
		source.WithRefresh(f.refresh),
	}
	if c.Config.Cache.Prefix != "" {
		opts = append(opts, source.WithKeyer(cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)))
	}
	return opts, ch, nil
}

// load runs the full load pipeline for location and returns a ready engine.
func (c *CLI) load(cmd *cobra.Command, location string, f *loadFlags) (*engine.Engine, error) {
	ctx := cmd.Context()
	cfg, err := c.engineConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	opts, ch, err := c.sourceOptions(ctx, f)
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	src, err := source.Open(location, opts...)
	if err != nil {
		return nil, err
	}

	e := engine.New(cfg, loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Loading %s...", src))
	spinner.Start()
	if err := e.Load(ctx, src); err != nil {
		spinner.StopWithError("Load failed")
		return nil, err
	}
	spinner.Stop()
	return e, nil
}

// =============================================================================
// Cache
// =============================================================================

// newCache opens the document cache: redis when an address is configured,
// otherwise a file cache under the XDG cache directory.
func newCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		return cache.NewRedisCache(ctx, cfg.RedisAddr)
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/biotree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseList splits a comma-separated flag value, dropping empty entries. An
// empty value yields def.
func parseList(s string, def ...string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
