package engine

import (
	"time"

	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/reconcile"
	"github.com/matzehuels/biotree/pkg/render"
)

// Tick advances all transitions to now and returns the frame to draw.
// Before a successful load the scene is empty.
func (e *Engine) Tick(now time.Time) render.Scene {
	if e.ready() != nil {
		return render.Scene{Canvas: e.canvas, Transform: e.view.At(now)}
	}
	sc := e.scene(e.anim.Tick(now))
	sc.Transform = e.view.At(now)
	sc.Active = sc.Active || !e.view.Done(now)
	return sc
}

// Scene is Tick at the engine clock's current time.
func (e *Engine) Scene() render.Scene {
	return e.Tick(e.now())
}

// Settle finishes every transition and returns the final frame.
func (e *Engine) Settle() render.Scene {
	if e.ready() != nil {
		return render.Scene{Canvas: e.canvas, Transform: e.view.To}
	}
	e.jump(e.view.To)
	sc := e.scene(e.anim.Settle())
	sc.Transform = e.view.To
	return sc
}

func (e *Engine) scene(f reconcile.Frame) render.Scene {
	sc := render.Scene{
		Canvas: e.canvas,
		Nodes:  make([]render.Node, 0, len(f.Nodes)),
		Links:  make([]render.Link, 0, len(f.Links)),
		Active: f.Active,
	}
	if e.dragOn {
		sc.Dragging = e.dragging
	}
	if id := e.tree.Focused(); id != hierarchy.None {
		sc.Focus = e.tree.Node(id).StableID
	}

	for _, ns := range f.Nodes {
		n := e.tree.Node(ns.ID)
		kind := n.Pres.Kind()
		sc.Nodes = append(sc.Nodes, render.Node{
			Key:       ns.Key,
			ID:        ns.ID,
			Label:     n.Label,
			Depth:     n.Depth,
			Pos:       ns.Pos,
			Opacity:   ns.Opacity,
			Collapsed: kind == hierarchy.KindCollapsed,
			Leaf:      kind == hierarchy.KindLeaf,
			Focus:     n.Focus && !ns.Exiting,
			Exiting:   ns.Exiting,
		})
	}
	for _, ls := range f.Links {
		sc.Links = append(sc.Links, render.Link{
			Key:     ls.Key,
			Src:     ls.Src,
			Dst:     ls.Dst,
			Opacity: ls.Opacity,
		})
	}
	return sc
}
