package engine

import (
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/layout"
	"github.com/matzehuels/biotree/pkg/viewport"
)

const (
	// DefaultInitialDepth shows the root and its direct children.
	DefaultInitialDepth = 1

	// DefaultHitRadius is the pick radius around a node marker, in world units.
	DefaultHitRadius = 10.0
)

// DefaultCanvas is the canvas size used until the first resize.
var DefaultCanvas = viewport.Size{W: 960, H: 600}

// Config controls an [Engine].
type Config struct {
	Layout   layout.Config
	Viewport viewport.Config
	Canvas   viewport.Size

	// MaxDepth prunes the document below this depth on load. -1 keeps
	// everything.
	MaxDepth int

	// InitialDepth is the depth the tree is expanded to after load. -1 leaves
	// it fully expanded.
	InitialDepth int

	HitRadius float64
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Layout:       layout.DefaultConfig(),
		Viewport:     viewport.DefaultConfig(),
		Canvas:       DefaultCanvas,
		MaxDepth:     -1,
		InitialDepth: DefaultInitialDepth,
		HitRadius:    DefaultHitRadius,
	}
}

// Validate checks the depth limits and the canvas.
func (c Config) Validate() error {
	if err := errors.ValidateDepth("max depth", c.MaxDepth); err != nil {
		return err
	}
	if err := errors.ValidateDepth("initial depth", c.InitialDepth); err != nil {
		return err
	}
	if !c.Canvas.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas must have a positive size, got %gx%g", c.Canvas.W, c.Canvas.H)
	}
	if c.Viewport.MinScale <= 0 || c.Viewport.MinScale > c.Viewport.MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid zoom range [%g, %g]", c.Viewport.MinScale, c.Viewport.MaxScale)
	}
	return nil
}
