package viewport

import (
	"math"
	"time"
)

// Config holds the framing parameters.
type Config struct {
	ExtraSpace  float64       // box growth factor, split evenly between both sides
	ChildMargin float64       // extra room on the depth axis toward the children
	Margin      float64       // extra room on the other three sides
	MinSize     float64       // lower bound for the padded box width and height
	Fill        float64       // share of the canvas the box may occupy
	MinScale    float64       // smallest zoom factor
	MaxScale    float64       // largest zoom factor
	Duration    time.Duration // length of the framing animation
}

// DefaultConfig returns the reference framing parameters.
func DefaultConfig() Config {
	return Config{
		ExtraSpace:  1.2,
		ChildMargin: 60,
		Margin:      40,
		MinSize:     200,
		Fill:        0.9,
		MinScale:    0.1,
		MaxScale:    4,
		Duration:    750 * time.Millisecond,
	}
}

// ClampScale limits k to the configured zoom range.
func (c Config) ClampScale(k float64) float64 {
	return math.Max(c.MinScale, math.Min(c.MaxScale, k))
}

// Bounds returns the padded box that framing fits to the canvas: the extent
// of focus and its direct children, grown by ExtraSpace and the margins and
// clamped to MinSize.
func Bounds(focus Point, children []Point, cfg Config) Box {
	b := Box{MinX: focus.X, MinY: focus.Y, MaxX: focus.X, MaxY: focus.Y}
	for _, c := range children {
		b.MinX = math.Min(b.MinX, c.X)
		b.MinY = math.Min(b.MinY, c.Y)
		b.MaxX = math.Max(b.MaxX, c.X)
		b.MaxY = math.Max(b.MaxY, c.Y)
	}

	padX := (cfg.ExtraSpace - 1) / 2 * b.W()
	padY := (cfg.ExtraSpace - 1) / 2 * b.H()
	b.MinX -= padX + cfg.Margin
	b.MaxX += padX + cfg.ChildMargin
	b.MinY -= padY + cfg.Margin
	b.MaxY += padY + cfg.Margin

	if w := b.W(); w < cfg.MinSize {
		grow := (cfg.MinSize - w) / 2
		b.MinX -= grow
		b.MaxX += grow
	}
	if h := b.H(); h < cfg.MinSize {
		grow := (cfg.MinSize - h) / 2
		b.MinY -= grow
		b.MaxY += grow
	}
	return b
}

// Frame returns the transform that centers the focus node and its direct
// children on the canvas, scaled so the padded box fills at most cfg.Fill of
// either canvas dimension. The scale is clamped to [cfg.MinScale,
// cfg.MaxScale]; when the lower bound applies the box may overflow.
//
// A canvas without area yields [Identity].
func Frame(focus Point, children []Point, canvas Size, cfg Config) Transform {
	if !canvas.Valid() {
		return Identity
	}
	b := Bounds(focus, children, cfg)
	k := cfg.ClampScale(cfg.Fill / math.Max(b.W()/canvas.W, b.H()/canvas.H))

	c := b.Center()
	return Transform{
		X: canvas.W/2 - c.X*k,
		Y: canvas.H/2 - c.Y*k,
		K: k,
	}
}
