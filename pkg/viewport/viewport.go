// Package viewport computes the pan/zoom transform that frames a node and
// its children on a canvas.
//
// Points are in world space: X runs along the depth axis (left to right) and
// Y along the secondary axis. A [Transform] maps world to screen as
// screen = world·K + (X, Y).
package viewport

import (
	"math"
	"time"
)

// Point is a position in world or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a canvas size in screen pixels.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Box is an axis-aligned rectangle.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

func (b Box) W() float64 { return b.MaxX - b.MinX }
func (b Box) H() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Box) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Transform is a uniform scale K followed by a translation (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves points unchanged.
var Identity = Transform{K: 1}

// Apply maps a world point to the screen.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to world space.
func (t Transform) Invert(p Point) Point {
	return Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Pan shifts the transform by a screen-space delta.
func (t Transform) Pan(dx, dy float64) Transform {
	return Transform{X: t.X + dx, Y: t.Y + dy, K: t.K}
}

// Zoom scales by factor around the screen point about, clamping the result
// to [minK, maxK].
func (t Transform) Zoom(factor float64, about Point, minK, maxK float64) Transform {
	k := math.Max(minK, math.Min(maxK, t.K*factor))
	w := t.Invert(about)
	return Transform{X: about.X - w.X*k, Y: about.Y - w.Y*k, K: k}
}

// Lerp interpolates between two transforms; u=0 yields a and u=1 yields b.
func Lerp(a, b Transform, u float64) Transform {
	return Transform{
		X: a.X + (b.X-a.X)*u,
		Y: a.Y + (b.Y-a.Y)*u,
		K: a.K + (b.K-a.K)*u,
	}
}

// EaseCubicInOut is the easing curve of all animated transitions.
func EaseCubicInOut(u float64) float64 {
	switch {
	case u <= 0:
		return 0
	case u >= 1:
		return 1
	case u < 0.5:
		return 4 * u * u * u
	default:
		v := -2*u + 2
		return 1 - v*v*v/2
	}
}

// Transition animates the transform from one value to another.
type Transition struct {
	From, To Transform
	Start    time.Time
	Duration time.Duration
}

// At returns the eased transform at now.
func (tr Transition) At(now time.Time) Transform {
	if tr.Duration <= 0 {
		return tr.To
	}
	u := float64(now.Sub(tr.Start)) / float64(tr.Duration)
	return Lerp(tr.From, tr.To, EaseCubicInOut(u))
}

// Done reports whether the transition has reached its target at now.
func (tr Transition) Done(now time.Time) bool {
	return tr.Duration <= 0 || !now.Before(tr.Start.Add(tr.Duration))
}
