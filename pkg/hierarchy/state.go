package hierarchy

// Toggle switches an expanded node to collapsed and back. It reports false
// for a leaf, which is left unchanged. The child order is preserved, so two
// toggles restore the original presentation.
func (t *Tree) Toggle(id NodeID) bool {
	n := &t.nodes[id]
	switch n.Pres.kind {
	case KindExpanded:
		n.Pres = n.Pres.collapsed()
	case KindCollapsed:
		n.Pres = n.Pres.expanded()
	default:
		return false
	}
	return true
}

// Expand makes the children of id visible. It is a no-op on leaves and on
// nodes that are already expanded.
func (t *Tree) Expand(id NodeID) {
	t.nodes[id].Pres = t.nodes[id].Pres.expanded()
}

// Collapse hides the children of id without touching the subtree below.
func (t *Tree) Collapse(id NodeID) {
	t.nodes[id].Pres = t.nodes[id].Pres.collapsed()
}

// ExpandToDepth expands every node of the subtree at id whose depth is below
// target and collapses the rest. Depths are absolute, so
// ExpandToDepth(root, 1) shows exactly the root's direct children.
//
// A node at or beyond target has its whole subtree collapsed. Afterwards
// exactly the non-leaf nodes with depth < target are expanded, regardless of
// the state the subtree was in before.
func (t *Tree) ExpandToDepth(id NodeID, target int) {
	n := &t.nodes[id]
	if n.Pres.kind == KindLeaf {
		return
	}
	if n.Depth >= target {
		t.CollapseAll(id)
		return
	}
	n.Pres = n.Pres.expanded()
	for _, k := range n.Pres.kids {
		t.ExpandToDepth(k, target)
	}
}

// CollapseAll collapses every node in the subtree rooted at id, deepest
// first. It is idempotent.
func (t *Tree) CollapseAll(id NodeID) {
	n := &t.nodes[id]
	for _, k := range n.Pres.kids {
		t.CollapseAll(k)
	}
	n.Pres = n.Pres.collapsed()
}

// ExpandAll expands every node in the subtree rooted at id.
func (t *Tree) ExpandAll(id NodeID) {
	n := &t.nodes[id]
	n.Pres = n.Pres.expanded()
	for _, k := range n.Pres.kids {
		t.ExpandAll(k)
	}
}

// ApplyInitialPolicy collapses the whole tree and then expands it to depth.
// With depth 1 only the root's direct children are visible.
func (t *Tree) ApplyInitialPolicy(depth int) {
	t.CollapseAll(t.Root())
	t.ExpandToDepth(t.Root(), depth)
}
