package engine

import (
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/hierarchy"
)

// Toggle collapses an expanded node or expands a collapsed one. It reports
// false for a leaf, which is a no-op.
func (e *Engine) Toggle(id hierarchy.NodeID) (bool, error) {
	if err := e.node(id); err != nil {
		return false, err
	}
	if e.tree.Node(id).Pres.Kind() == hierarchy.KindLeaf {
		return false, nil
	}
	e.restructure(id, func() { e.tree.Toggle(id) })
	e.logger.Debug("toggled", "node", e.tree.Node(id).Label, "now", e.tree.Node(id).Pres.Kind())
	return true, nil
}

// ExpandToDepth expands the subtree at id down to the absolute depth target
// and collapses everything below it.
func (e *Engine) ExpandToDepth(id hierarchy.NodeID, target int) error {
	if err := e.node(id); err != nil {
		return err
	}
	if target < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "depth must be non-negative, got %d", target)
	}
	e.restructure(id, func() { e.tree.ExpandToDepth(id, target) })
	return nil
}

// CollapseAll collapses the subtree at id.
func (e *Engine) CollapseAll(id hierarchy.NodeID) error {
	if err := e.node(id); err != nil {
		return err
	}
	e.restructure(id, func() { e.tree.CollapseAll(id) })
	return nil
}

// ExpandAll expands the subtree at id.
func (e *Engine) ExpandAll(id hierarchy.NodeID) error {
	if err := e.node(id); err != nil {
		return err
	}
	e.restructure(id, func() { e.tree.ExpandAll(id) })
	return nil
}

// Focus makes id the focus node and frames it with its visible children.
// Collapsed ancestors are expanded first so the node is visible.
func (e *Engine) Focus(id hierarchy.NodeID) error {
	if err := e.node(id); err != nil {
		return err
	}
	if !e.tree.IsVisible(id) {
		e.restructure(id, func() {
			for p := e.tree.Node(id).Parent; p != hierarchy.None; p = e.tree.Node(p).Parent {
				e.tree.Expand(p)
			}
		})
	}
	e.focus(id)
	e.logger.Debug("focused", "node", hierarchy.FormatPath(e.tree.PathOf(id)))
	return nil
}

// FocusPath expands the nodes along path and focuses its target. When the
// path does not resolve, the deepest matched node is returned with false and
// the focus is left unchanged; expansions made along the way are kept.
func (e *Engine) FocusPath(path []string) (hierarchy.NodeID, bool, error) {
	if err := e.ready(); err != nil {
		return hierarchy.None, false, err
	}
	if err := errors.ValidatePathSegments(path); err != nil {
		return hierarchy.None, false, err
	}

	var (
		id hierarchy.NodeID
		ok bool
	)
	// Revealed nodes enter from the deepest match's visible ancestor, which
	// is where the walk leaves the visible tree.
	e.restructure(e.deepestMatch(path), func() { id, ok = e.tree.ExpandPathToNode(path) })
	if !ok {
		e.logger.Debug("path not found", "path", hierarchy.FormatPath(path), "deepest", e.tree.Node(id).Label)
		return id, false, nil
	}
	return id, true, e.Focus(id)
}

// deepestMatch resolves the longest prefix of path without expanding
// anything. A path that does not start at the root resolves to the root.
func (e *Engine) deepestMatch(path []string) hierarchy.NodeID {
	for n := len(path); n > 0; n-- {
		if id, ok := e.tree.FindNodeByPath(path[:n]); ok {
			return id
		}
	}
	return e.tree.Root()
}

// Focused returns the focus node.
func (e *Engine) Focused() hierarchy.NodeID {
	if e.tree == nil {
		return hierarchy.None
	}
	return e.tree.Focused()
}

// Resize changes the canvas and reframes the focus node. The tree and the
// keyed element set are left untouched.
func (e *Engine) Resize(w, h float64) error {
	if w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "canvas must have a positive size, got %gx%g", w, h)
	}
	e.canvas.W, e.canvas.H = w, h
	if e.ready() != nil {
		return nil
	}
	if f := e.tree.Focused(); f != hierarchy.None {
		e.frame(f)
	}
	return nil
}
