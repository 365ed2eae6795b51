// Package engine drives an interactive hierarchy view.
//
// An [Engine] owns one tree and everything derived from it: the layout, the
// keyed element set, the running transitions and the pan/zoom transform.
// Every structural operation runs the same pass before returning:
//
//	mutate tree -> layout.Compute -> reconcile -> animator.Schedule -> frame focus
//
// # Lifecycle
//
// A new engine is idle. [Engine.Load] fetches and decodes a document, prunes
// it, applies the initial collapse policy and frames the root. A failed load
// is terminal: the engine stays in [StateFailed] and every later call returns
// the load error.
//
//	e := engine.New(engine.DefaultConfig(), logger)
//	if err := e.Load(ctx, src); err != nil {
//	    return err
//	}
//	e.Toggle(id)
//	scene := e.Scene()
//
// # Pointer routing
//
// [Engine.HitTest] maps a screen point to the node under it. While a node is
// dragged ([Engine.BeginDrag]) it is excluded from hit testing so it cannot
// capture events meant for its neighbours; [Engine.EndDrag] restores it
// whatever state the drag ended in.
//
// Engines are not safe for concurrent use.
package engine
