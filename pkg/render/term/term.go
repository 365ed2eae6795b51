// Package term draws scenes on a grid of terminal cells.
//
// A [Canvas] maps screen pixels to cells of a fixed pixel size (8x16 by
// default, roughly the aspect of a terminal glyph). Links become box-drawing
// strokes, markers become single glyphs and labels are written cell by cell,
// honoring double-width runes.
package term

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/biotree/pkg/render"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// Default cell size in pixels.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Glyphs used for markers.
const (
	GlyphExpanded  = '○'
	GlyphCollapsed = '●'
)

// minOpacity is the opacity below which elements are not drawn.
const minOpacity = 0.25

type cell struct {
	r     rune
	fg    color.RGBA
	bold  bool
	faint bool
	cont  bool // right half of a double-width rune
}

// Option configures a [Canvas].
type Option func(*Canvas)

// WithCellSize sets the pixel size of one cell.
func WithCellSize(w, h float64) Option {
	return func(c *Canvas) { c.cellW, c.cellH = w, h }
}

// WithPlain disables colors in [Canvas.String].
func WithPlain() Option { return func(c *Canvas) { c.plain = true } }

// Canvas is a [render.Surface] backed by a cell grid.
type Canvas struct {
	cellW, cellH float64
	cols, rows   int
	cells        []cell
	plain        bool
}

// New returns an empty canvas.
func New(opts ...Option) *Canvas {
	c := &Canvas{cellW: CellWidth, cellH: CellHeight}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PixelSize returns the canvas size in pixels for a grid of cols x rows.
func (c *Canvas) PixelSize(cols, rows int) viewport.Size {
	return viewport.Size{W: float64(cols) * c.cellW, H: float64(rows) * c.cellH}
}

// CellAt returns the screen pixel at the center of a cell.
func (c *Canvas) CellAt(col, row int) viewport.Point {
	return viewport.Point{X: (float64(col) + 0.5) * c.cellW, Y: (float64(row) + 0.5) * c.cellH}
}

func (c *Canvas) Begin(size viewport.Size) error {
	c.cols = max(0, int(size.W/c.cellW))
	c.rows = max(0, int(size.H/c.cellH))
	c.cells = make([]cell, c.cols*c.rows)
	return nil
}

func (c *Canvas) Curve(p0, p1, p2, p3 viewport.Point, st render.Style) {
	if st.Opacity < minOpacity {
		return
	}
	col0, row0 := c.cell(p0)
	col3, row3 := c.cell(p3)
	steps := 2 * (abs(col3-col0) + abs(row3-row0) + 1)

	prevCol, prevRow := col0, row0
	for i := 1; i <= steps; i++ {
		u := float64(i) / float64(steps)
		col, row := c.cell(bezier(p0, p1, p2, p3, u))
		if col == prevCol && row == prevRow {
			continue
		}
		c.set(prevCol, prevRow, stroke(col-prevCol, row-prevRow), st, false)
		prevCol, prevRow = col, row
	}
}

func (c *Canvas) Circle(p viewport.Point, _ float64, st render.Style) {
	if st.Opacity < minOpacity {
		return
	}
	col, row := c.cell(p)
	g := GlyphExpanded
	if luma(st.Fill) < 200 {
		g = GlyphCollapsed
	}
	fg := st.Fill
	if g == GlyphExpanded {
		fg = st.Stroke
	}
	c.set(col, row, g, render.Style{Fill: fg, Opacity: st.Opacity, Bold: st.Bold}, false)
}

func (c *Canvas) Text(at viewport.Point, s string, st render.Style) {
	if st.Opacity < minOpacity {
		return
	}
	col, row := c.cell(viewport.Point{X: at.X, Y: at.Y - st.FontSize/3})
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		c.set(col, row, r, st, false)
		if w == 2 {
			c.set(col+1, row, 0, st, true)
		}
		col += w
	}
}

func (c *Canvas) End() error { return nil }

// Size returns the grid size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// Rune returns the rune at a cell, or a space for empty or out-of-range
// cells.
func (c *Canvas) Rune(col, row int) rune {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return ' '
	}
	r := c.cells[row*c.cols+col].r
	if r == 0 {
		return ' '
	}
	return r
}

// Lines returns the grid as plain text, one string per row, with trailing
// spaces trimmed.
func (c *Canvas) Lines() []string {
	out := make([]string, c.rows)
	var b strings.Builder
	for row := range c.rows {
		b.Reset()
		for col := range c.cols {
			cl := c.cells[row*c.cols+col]
			if cl.cont {
				continue
			}
			b.WriteRune(c.Rune(col, row))
		}
		out[row] = strings.TrimRight(b.String(), " ")
	}
	return out
}

// String renders the grid with lipgloss colors, or as plain text when the
// canvas was created WithPlain.
func (c *Canvas) String() string {
	if c.plain {
		return strings.Join(c.Lines(), "\n")
	}

	var b strings.Builder
	for row := range c.rows {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; {
			start := c.cells[row*c.cols+col]
			var run strings.Builder
			for col < c.cols {
				cl := c.cells[row*c.cols+col]
				if cl.fg != start.fg || cl.bold != start.bold || cl.faint != start.faint {
					break
				}
				if !cl.cont {
					run.WriteRune(c.Rune(col, row))
				}
				col++
			}
			if start.r == 0 && start.fg == (color.RGBA{}) {
				b.WriteString(run.String())
				continue
			}
			b.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return b.String()
}

func styleFor(cl cell) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex(cl.fg))).
		Bold(cl.bold).
		Faint(cl.faint)
}

func (c *Canvas) cell(p viewport.Point) (col, row int) {
	return int(math.Floor(p.X / c.cellW)), int(math.Floor(p.Y / c.cellH))
}

func (c *Canvas) set(col, row int, r rune, st render.Style, cont bool) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	fg := st.Fill
	if fg.A == 0 {
		fg = st.Stroke
	}
	c.cells[row*c.cols+col] = cell{
		r:     r,
		fg:    fg,
		bold:  st.Bold,
		faint: st.Opacity < 1,
		cont:  cont,
	}
}

func bezier(p0, p1, p2, p3 viewport.Point, u float64) viewport.Point {
	v := 1 - u
	a, b, c, d := v*v*v, 3*v*v*u, 3*v*u*u, u*u*u
	return viewport.Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

// stroke picks a box-drawing rune for a step between neighbouring cells.
func stroke(dc, dr int) rune {
	switch {
	case dr == 0:
		return '─'
	case dc == 0:
		return '│'
	case (dc > 0) == (dr > 0):
		return '╲'
	default:
		return '╱'
	}
}

func luma(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

func hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	return string([]byte{'#',
		digits[c.R>>4], digits[c.R&0xf],
		digits[c.G>>4], digits[c.G&0xf],
		digits[c.B>>4], digits[c.B&0xf],
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
