package sink

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/biotree/pkg/render"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// minFontSize is the smallest label size the PNG surface draws.
const minFontSize = 1.0

// PNGOption configures a [PNG] surface.
type PNGOption func(*PNG)

// WithPNGBackground fills the canvas before drawing.
func WithPNGBackground(c color.RGBA) PNGOption {
	return func(p *PNG) { p.background = c }
}

// PNG is a surface that rasterizes with gg and encodes a PNG image on End.
// Labels use Go Regular; faces are cached per size.
type PNG struct {
	w          io.Writer
	dc         *gg.Context
	font       *opentype.Font
	faces      map[float64]font.Face
	background color.RGBA
}

// NewPNG returns a surface writing to w.
func NewPNG(w io.Writer, opts ...PNGOption) (*PNG, error) {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	p := &PNG{w: w, font: fnt, faces: make(map[float64]font.Face)}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *PNG) Begin(size viewport.Size) error {
	if !size.Valid() {
		return fmt.Errorf("invalid canvas %vx%v", size.W, size.H)
	}
	p.dc = gg.NewContext(int(math.Ceil(size.W)), int(math.Ceil(size.H)))
	if p.background.A > 0 {
		p.dc.SetColor(p.background)
		p.dc.Clear()
	}
	return nil
}

func (p *PNG) Curve(p0, p1, p2, p3 viewport.Point, st render.Style) {
	if st.Stroke.A == 0 || st.StrokeWidth <= 0 {
		return
	}
	p.dc.NewSubPath()
	p.dc.MoveTo(p0.X, p0.Y)
	p.dc.CubicTo(p1.X, p1.Y, p2.X, p2.Y, p3.X, p3.Y)
	p.dc.SetColor(render.WithOpacity(st.Stroke, st.Opacity))
	p.dc.SetLineWidth(st.StrokeWidth)
	p.dc.Stroke()
}

func (p *PNG) Circle(c viewport.Point, r float64, st render.Style) {
	p.dc.DrawCircle(c.X, c.Y, r)
	if st.Fill.A > 0 {
		p.dc.SetColor(render.WithOpacity(st.Fill, st.Opacity))
		p.dc.FillPreserve()
	}
	if st.Stroke.A > 0 && st.StrokeWidth > 0 {
		p.dc.SetColor(render.WithOpacity(st.Stroke, st.Opacity))
		p.dc.SetLineWidth(st.StrokeWidth)
		p.dc.StrokePreserve()
	}
	p.dc.ClearPath()
}

func (p *PNG) Text(at viewport.Point, label string, st render.Style) {
	face, ok := p.face(st.FontSize)
	if !ok {
		return
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(render.WithOpacity(st.Fill, st.Opacity))
	p.dc.DrawString(label, at.X, at.Y)
}

func (p *PNG) End() error {
	if p.dc == nil {
		return fmt.Errorf("png: End without Begin")
	}
	return png.Encode(p.w, p.dc.Image())
}

// face returns a face for size rounded to half points.
func (p *PNG) face(size float64) (font.Face, bool) {
	size = math.Round(size*2) / 2
	if size < minFontSize {
		return nil, false
	}
	if f, ok := p.faces[size]; ok {
		return f, true
	}
	f, err := opentype.NewFace(p.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, false
	}
	p.faces[size] = f
	return f, true
}

// RenderPNG paints sc into a PNG image.
func RenderPNG(sc render.Scene, th render.Theme, opts ...PNGOption) ([]byte, error) {
	var buf bytes.Buffer
	opts = append([]PNGOption{WithPNGBackground(th.Background)}, opts...)
	p, err := NewPNG(&buf, opts...)
	if err != nil {
		return nil, err
	}
	if err := render.Paint(p, sc, th); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
