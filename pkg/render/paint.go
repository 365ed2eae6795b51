package render

import (
	"image/color"

	"github.com/matzehuels/biotree/pkg/viewport"
)

// Paint draws sc on s with theme th.
func Paint(s Surface, sc Scene, th Theme) error {
	if err := s.Begin(sc.Canvas); err != nil {
		return err
	}
	tr := sc.Transform
	k := tr.K

	for _, l := range sc.Links {
		p0, p3 := tr.Apply(l.Src), tr.Apply(l.Dst)
		mx := (p0.X + p3.X) / 2
		s.Curve(p0, viewport.Point{X: mx, Y: p0.Y}, viewport.Point{X: mx, Y: p3.Y}, p3, Style{
			Stroke:      th.Link,
			StrokeWidth: th.LinkWidth * k,
			Opacity:     l.Opacity,
		})
	}

	for _, n := range sc.Nodes {
		st := Style{
			Fill:        th.NodeFill,
			Stroke:      th.NodeStroke,
			StrokeWidth: th.StrokeWidth * k,
			Opacity:     n.Opacity,
		}
		if n.Collapsed {
			st.Fill = th.CollapsedFill
		}
		if n.Focus {
			st.Stroke = th.FocusStroke
			st.StrokeWidth *= 2
			st.Bold = true
		}
		s.Circle(tr.Apply(n.Pos), th.NodeRadius*k, st)
	}

	for _, n := range sc.Nodes {
		if n.Label == "" {
			continue
		}
		p := tr.Apply(n.Pos)
		at := viewport.Point{
			X: p.X + (th.NodeRadius+th.LabelGap)*k,
			Y: p.Y + th.FontSize*k/3,
		}
		s.Text(at, n.Label, Style{
			Fill:     th.Text,
			Opacity:  n.Opacity,
			FontSize: th.FontSize * k,
			Bold:     n.Focus,
		})
	}
	return s.End()
}

// WithOpacity returns c with its alpha scaled by o, clamped to [0, 1].
// The result is non-premultiplied.
func WithOpacity(c color.RGBA, o float64) color.NRGBA {
	o = max(0, min(1, o))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A)*o + 0.5)}
}
