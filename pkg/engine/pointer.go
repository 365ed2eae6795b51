package engine

import (
	"math"

	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// minHitPixels keeps nodes clickable when zoomed far out.
const minHitPixels = 4.0

// HitTest returns the node under the screen point (sx, sy). Exiting nodes and
// the node being dragged are skipped. When several markers overlap, the
// closest one wins.
func (e *Engine) HitTest(sx, sy float64) (hierarchy.NodeID, bool) {
	if e.ready() != nil {
		return hierarchy.None, false
	}
	now := e.now()
	t := e.view.At(now)
	frame := e.anim.Tick(now)
	radius := math.Max(e.cfg.HitRadius*t.K, minHitPixels)

	best, bestDist := hierarchy.None, math.Inf(1)
	at := viewport.Point{X: sx, Y: sy}
	for _, n := range frame.Nodes {
		if n.Exiting || (e.dragOn && n.Key == e.dragging) {
			continue
		}
		d := dist(t.Apply(n.Pos), at)
		if d <= radius && d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != hierarchy.None
}

func dist(p, q viewport.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Click hit-tests (sx, sy), toggles the node found there and focuses it.
// A click on empty canvas reports false and changes nothing.
func (e *Engine) Click(sx, sy float64) (hierarchy.NodeID, bool, error) {
	if err := e.ready(); err != nil {
		return hierarchy.None, false, err
	}
	id, ok := e.HitTest(sx, sy)
	if !ok {
		return hierarchy.None, false, nil
	}
	if _, err := e.Toggle(id); err != nil {
		return id, true, err
	}
	return id, true, e.Focus(id)
}

// BeginDrag starts a drag on the node with the given stable id, suspending
// its pointer routing until [Engine.EndDrag]. Key 0 drags the background.
func (e *Engine) BeginDrag(key hierarchy.StableID) error {
	if err := e.ready(); err != nil {
		return err
	}
	if key != 0 && !e.rctx.Has(key) {
		return errors.New(errors.ErrCodeNodeNotFound, "no visible node with key %d", key)
	}
	e.dragging, e.dragOn = key, true
	return nil
}

// DragBy pans the view by a screen-space delta. Any running framing
// transition is cut short at its current value.
func (e *Engine) DragBy(dx, dy float64) error {
	if err := e.ready(); err != nil {
		return err
	}
	e.jump(e.view.At(e.now()).Pan(dx, dy))
	return nil
}

// EndDrag ends the current drag and restores pointer routing. It is safe to
// call at any time, including without a drag in progress.
func (e *Engine) EndDrag() {
	e.dragging, e.dragOn = 0, false
}

// Dragging returns the key of the dragged node and whether a drag is active.
func (e *Engine) Dragging() (hierarchy.StableID, bool) {
	return e.dragging, e.dragOn
}

// Zoom scales the view by factor around the screen point (sx, sy), within
// the configured zoom range.
func (e *Engine) Zoom(factor, sx, sy float64) error {
	if err := e.ready(); err != nil {
		return err
	}
	if factor <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "zoom factor must be positive, got %g", factor)
	}
	vc := e.cfg.Viewport
	e.jump(e.view.At(e.now()).Zoom(factor, viewport.Point{X: sx, Y: sy}, vc.MinScale, vc.MaxScale))
	return nil
}

// Transform returns the current, possibly mid-transition, view transform.
func (e *Engine) Transform() viewport.Transform {
	return e.view.At(e.now())
}

func (e *Engine) jump(t viewport.Transform) {
	e.view = viewport.Transition{From: t, To: t, Start: e.now()}
}
