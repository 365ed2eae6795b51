package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/biotree/pkg/render"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// SVGOption configures an [SVG] surface.
type SVGOption func(*SVG)

// WithSVGTitle sets the document title.
func WithSVGTitle(title string) SVGOption { return func(s *SVG) { s.title = title } }

// WithSVGBackground fills the canvas before drawing.
func WithSVGBackground(c color.RGBA) SVGOption {
	return func(s *SVG) { s.background = c }
}

// SVG is a surface that writes an SVG document.
type SVG struct {
	canvas     *svg.SVG
	title      string
	background color.RGBA
}

// NewSVG returns a surface writing to w.
func NewSVG(w io.Writer, opts ...SVGOption) *SVG {
	s := &SVG{canvas: svg.New(w)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SVG) Begin(size viewport.Size) error {
	if !size.Valid() {
		return fmt.Errorf("invalid canvas %vx%v", size.W, size.H)
	}
	w, h := int(math.Ceil(size.W)), int(math.Ceil(size.H))
	s.canvas.Start(w, h)
	if s.title != "" {
		s.canvas.Title(s.title)
	}
	if s.background.A > 0 {
		s.canvas.Rect(0, 0, w, h, "fill:"+css(s.background))
	}
	return nil
}

func (s *SVG) Curve(p0, p1, p2, p3 viewport.Point, st render.Style) {
	d := fmt.Sprintf("M%.2f,%.2f C%.2f,%.2f %.2f,%.2f %.2f,%.2f",
		p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
	s.canvas.Path(d, svgStyle(st, false))
}

func (s *SVG) Circle(c viewport.Point, r float64, st render.Style) {
	s.canvas.Circle(round(c.X), round(c.Y), max(1, round(r)), svgStyle(st, true))
}

func (s *SVG) Text(at viewport.Point, label string, st render.Style) {
	s.canvas.Text(round(at.X), round(at.Y), label, svgStyle(st, true)+
		fmt.Sprintf(";font-size:%.1fpx;font-family:sans-serif", st.FontSize)+
		boldCSS(st.Bold))
}

func (s *SVG) End() error {
	s.canvas.End()
	return nil
}

// RenderSVG paints sc into an SVG document.
func RenderSVG(sc render.Scene, th render.Theme, opts ...SVGOption) ([]byte, error) {
	var buf bytes.Buffer
	opts = append([]SVGOption{WithSVGBackground(th.Background)}, opts...)
	if err := render.Paint(NewSVG(&buf, opts...), sc, th); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func svgStyle(st render.Style, filled bool) string {
	parts := make([]string, 0, 4)
	if filled && st.Fill.A > 0 {
		parts = append(parts, "fill:"+css(st.Fill))
	} else {
		parts = append(parts, "fill:none")
	}
	if st.Stroke.A > 0 && st.StrokeWidth > 0 {
		parts = append(parts, "stroke:"+css(st.Stroke), fmt.Sprintf("stroke-width:%.2f", st.StrokeWidth))
	}
	if st.Opacity < 1 {
		parts = append(parts, fmt.Sprintf("opacity:%.2f", max(0, st.Opacity)))
	}
	return strings.Join(parts, ";")
}

func boldCSS(bold bool) string {
	if bold {
		return ";font-weight:bold"
	}
	return ""
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func round(v float64) int { return int(math.Round(v)) }
