package render

import (
	"image/color"

	"github.com/matzehuels/biotree/pkg/viewport"
)

// Surface is a drawing backend. Coordinates are screen pixels.
type Surface interface {
	// Begin starts a frame of the given size.
	Begin(canvas viewport.Size) error
	// Curve draws a cubic bezier from p0 to p3 with control points p1, p2.
	Curve(p0, p1, p2, p3 viewport.Point, st Style)
	// Circle draws a node marker.
	Circle(c viewport.Point, r float64, st Style)
	// Text draws a label whose baseline starts at at.
	Text(at viewport.Point, s string, st Style)
	// End finishes the frame and flushes any output.
	End() error
}

// Style is the paint for one drawing call. A zero Fill or Stroke alpha
// disables that part.
type Style struct {
	Fill        color.RGBA
	Stroke      color.RGBA
	StrokeWidth float64
	Opacity     float64
	FontSize    float64
	Bold        bool
}

// Theme holds the colors and sizes used by [Paint]. Sizes are in world
// units and scale with the zoom factor.
type Theme struct {
	Background    color.RGBA
	NodeFill      color.RGBA // leaf and expanded nodes
	CollapsedFill color.RGBA // nodes with hidden children
	NodeStroke    color.RGBA
	FocusStroke   color.RGBA
	Link          color.RGBA
	Text          color.RGBA

	NodeRadius  float64
	StrokeWidth float64
	LinkWidth   float64
	FontSize    float64
	LabelGap    float64 // distance between a marker's edge and its label
}

// DefaultTheme returns the standard light theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    color.RGBA{0xff, 0xff, 0xff, 0xff},
		NodeFill:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		CollapsedFill: color.RGBA{0x6a, 0xa9, 0xd8, 0xff},
		NodeStroke:    color.RGBA{0x46, 0x82, 0xb4, 0xff},
		FocusStroke:   color.RGBA{0xe4, 0x57, 0x2e, 0xff},
		Link:          color.RGBA{0xcc, 0xcc, 0xcc, 0xff},
		Text:          color.RGBA{0x22, 0x22, 0x22, 0xff},

		NodeRadius:  4.5,
		StrokeWidth: 1.5,
		LinkWidth:   1.5,
		FontSize:    11,
		LabelGap:    6,
	}
}
