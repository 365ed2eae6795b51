package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissingDefault(t *testing.T) {
	isolate(t)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("missing default config: %v", err)
	}
	if cfg.serverAddr() != defaultAddr {
		t.Errorf("addr = %q, want %q", cfg.serverAddr(), defaultAddr)
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	isolate(t)
	dir, err := configDir()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.serverAddr(); got != ":9090" {
		t.Errorf("addr = %q, want :9090", got)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	isolate(t)
	tests := []struct {
		name string
		path string
	}{
		{"explicit missing file", filepath.Join(t.TempDir(), "nope.toml")},
		{"syntax error", writeConfig(t, "[layout\nnode_gap = 1\n")},
		{"unknown key", writeConfig(t, "[layout]\nnode_spacing = 4\n")},
		{"wrong type", writeConfig(t, "[layout]\nnode_gap = \"wide\"\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(tt.path); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestConfigEngine(t *testing.T) {
	path := writeConfig(t, `
[layout]
node_gap = 24
measure = "cells"
char_width = 8

[viewport]
max_scale = 2.5
duration = "500ms"

[load]
max_depth = 0
initial_depth = 3

[cache]
ttl = "1h"

[server]
session_ttl = "10m"
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	ec, err := cfg.Engine()
	if err != nil {
		t.Fatal(err)
	}

	def := engine.DefaultConfig()
	if ec.Layout.NodeGap != 24 {
		t.Errorf("node gap = %g, want 24", ec.Layout.NodeGap)
	}
	if ec.Layout.Padding != def.Layout.Padding {
		t.Errorf("padding = %g, want default %g", ec.Layout.Padding, def.Layout.Padding)
	}
	if m, ok := ec.Layout.Measurer.(layout.Cells); !ok || m.CellWidth != 8 {
		t.Errorf("measurer = %#v, want Cells{8}", ec.Layout.Measurer)
	}
	if ec.Viewport.MaxScale != 2.5 || ec.Viewport.MinScale != def.Viewport.MinScale {
		t.Errorf("zoom range = [%g, %g]", ec.Viewport.MinScale, ec.Viewport.MaxScale)
	}
	if ec.Viewport.Duration != 500*time.Millisecond {
		t.Errorf("duration = %v, want 500ms", ec.Viewport.Duration)
	}
	// An explicit zero is kept, not treated as unset.
	if ec.MaxDepth != 0 || ec.InitialDepth != 3 {
		t.Errorf("depths = %d/%d, want 0/3", ec.MaxDepth, ec.InitialDepth)
	}
	if cfg.cacheTTL() != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.cacheTTL())
	}
	if cfg.sessionTTL() != 10*time.Minute {
		t.Errorf("session ttl = %v, want 10m", cfg.sessionTTL())
	}
}

func TestConfigEngineDefaults(t *testing.T) {
	ec, err := Config{}.Engine()
	if err != nil {
		t.Fatal(err)
	}
	def := engine.DefaultConfig()
	if ec.MaxDepth != def.MaxDepth || ec.InitialDepth != def.InitialDepth {
		t.Errorf("depths = %d/%d, want %d/%d", ec.MaxDepth, ec.InitialDepth, def.MaxDepth, def.InitialDepth)
	}
	if _, ok := ec.Layout.Measurer.(layout.Monospace); !ok {
		t.Errorf("measurer = %T, want layout.Monospace", ec.Layout.Measurer)
	}
}

func TestConfigEngineInvalid(t *testing.T) {
	neg := -5
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"unknown measurer", Config{Layout: LayoutConfig{Measure: "ruler"}}, errors.ErrCodeInvalidConfig},
		{"inverted zoom", Config{Viewport: ViewportConfig{MinScale: 3, MaxScale: 2}}, errors.ErrCodeInvalidConfig},
		{"bad depth", Config{Load: LoadConfig{MaxDepth: &neg}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.Engine(); !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}
