package layout

import (
	"math"

	"github.com/matzehuels/biotree/pkg/hierarchy"
)

// Default layout values.
const (
	DefaultNodeGap   = 28.0
	DefaultPadding   = 40.0
	DefaultMargin    = 20.0
	DefaultCharWidth = 7.0
)

// Config controls node spacing.
type Config struct {
	NodeGap  float64  // minimum secondary-axis distance between nodes at one depth
	Padding  float64  // gap between a column's widest label and the next column
	Margin   float64  // space around the drawing on every side
	Measurer Measurer // label width estimate; Monospace{DefaultCharWidth} if nil
}

// DefaultConfig returns the reference spacing with a monospace measurer.
func DefaultConfig() Config {
	return Config{
		NodeGap:  DefaultNodeGap,
		Padding:  DefaultPadding,
		Margin:   DefaultMargin,
		Measurer: Monospace{CharWidth: DefaultCharWidth},
	}
}

// Result describes a layout pass.
//
// Offsets[d] is the depth-axis position of column d and MaxWidths[d] the
// widest label in it. Width and Height are the drawing extents with the
// depth axis horizontal: Width spans the columns, Height the secondary axis.
type Result struct {
	Offsets   []float64
	MaxWidths []float64
	Width     float64
	Height    float64
	Visible   int
}

// Compute lays out the visible nodes of t, writing Node.X and Node.Y.
// Hidden nodes keep their previous coordinates.
func Compute(t *hierarchy.Tree, cfg Config) Result {
	if cfg.Measurer == nil {
		cfg.Measurer = Monospace{CharWidth: DefaultCharWidth}
	}
	visible := t.Visible()

	l := &tidy{tree: t, gap: cfg.NodeGap, rel: make(map[hierarchy.NodeID]float64, len(visible))}
	l.place(t.Root())

	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, id := range visible {
		n := t.Node(id)
		if n.Parent == hierarchy.None {
			n.X = 0
		} else {
			n.X = t.Node(n.Parent).X + l.rel[id]
		}
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X)
	}
	for _, id := range visible {
		t.Node(id).X -= minX
	}

	offsets, widths := columns(t, visible, cfg)
	for _, id := range visible {
		n := t.Node(id)
		n.Y = offsets[n.Depth]
	}

	last := len(offsets) - 1
	return Result{
		Offsets:   offsets,
		MaxWidths: widths,
		Width:     offsets[last] + widths[last] + 2*cfg.Margin,
		Height:    (maxX - minX) + 2*cfg.Margin,
		Visible:   len(visible),
	}
}

// columns sizes each visible depth by its widest label.
func columns(t *hierarchy.Tree, visible []hierarchy.NodeID, cfg Config) (offsets, widths []float64) {
	for _, id := range visible {
		n := t.Node(id)
		for len(widths) <= n.Depth {
			widths = append(widths, 0)
		}
		widths[n.Depth] = math.Max(widths[n.Depth], cfg.Measurer.Width(n.Label))
	}

	offsets = make([]float64, len(widths))
	for d := 1; d < len(widths); d++ {
		offsets[d] = offsets[d-1] + widths[d-1] + cfg.Padding
	}
	return offsets, widths
}

// =============================================================================
// Tidy tree
// =============================================================================

// contour holds the secondary-axis extent of a subtree per relative depth,
// measured from the subtree root.
type contour struct {
	lo, hi []float64
}

type tidy struct {
	tree *hierarchy.Tree
	gap  float64
	rel  map[hierarchy.NodeID]float64 // offset from the parent
}

// place lays out the subtree at id and returns its contour.
func (l *tidy) place(id hierarchy.NodeID) contour {
	kids := l.tree.Node(id).Pres.Children()
	if len(kids) == 0 {
		return contour{lo: []float64{0}, hi: []float64{0}}
	}

	pos := make([]float64, len(kids))
	var acc contour
	for i, k := range kids {
		c := l.place(k)
		if i == 0 {
			acc = c
			continue
		}

		shift := math.Inf(-1)
		for d := 0; d < min(len(acc.hi), len(c.lo)); d++ {
			shift = math.Max(shift, acc.hi[d]-c.lo[d]+l.gap)
		}
		pos[i] = shift
		acc = merge(acc, c, shift)
	}

	mid := (pos[0] + pos[len(pos)-1]) / 2
	for i, k := range kids {
		l.rel[k] = pos[i] - mid
	}

	out := contour{
		lo: make([]float64, 0, len(acc.lo)+1),
		hi: make([]float64, 0, len(acc.hi)+1),
	}
	out.lo = append(out.lo, 0)
	out.hi = append(out.hi, 0)
	for d := range acc.lo {
		out.lo = append(out.lo, acc.lo[d]-mid)
		out.hi = append(out.hi, acc.hi[d]-mid)
	}
	return out
}

// merge folds c, shifted by shift, into acc.
func merge(acc, c contour, shift float64) contour {
	for d := range c.lo {
		lo, hi := c.lo[d]+shift, c.hi[d]+shift
		if d < len(acc.lo) {
			acc.lo[d] = math.Min(acc.lo[d], lo)
			acc.hi[d] = math.Max(acc.hi[d], hi)
			continue
		}
		acc.lo = append(acc.lo, lo)
		acc.hi = append(acc.hi, hi)
	}
	return acc
}
