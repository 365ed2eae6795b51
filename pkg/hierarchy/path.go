package hierarchy

import "strings"

// PathSeparator separates labels in the textual form of a path.
const PathSeparator = "/"

// ParsePath splits a textual path such as "Assay/Imaging/H&E" into labels.
// Empty segments are dropped, so leading and trailing separators are
// ignored.
func ParsePath(s string) []string {
	parts := strings.Split(s, PathSeparator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatPath joins labels into the textual form accepted by [ParsePath].
func FormatPath(path []string) string {
	return strings.Join(path, PathSeparator)
}

// FindNodeByPath resolves a path of labels starting with the root label.
// Expanded and collapsed children are both searched, so the lookup succeeds
// whatever the current visibility. It never changes the tree.
func (t *Tree) FindNodeByPath(path []string) (NodeID, bool) {
	if len(path) == 0 || t.nodes[0].Label != path[0] {
		return None, false
	}
	cur := t.Root()
	for _, seg := range path[1:] {
		next, ok := t.child(cur, seg)
		if !ok {
			return None, false
		}
		cur = next
	}
	return cur, true
}

// ExpandPathToNode walks path like [Tree.FindNodeByPath], expanding each
// matched node before searching its children. When a segment has no match
// the walk stops and the deepest matched node is returned with false; a
// path whose first label is not the root's resolves to the root.
//
// The final node of a fully matched path is not expanded.
func (t *Tree) ExpandPathToNode(path []string) (NodeID, bool) {
	cur := t.Root()
	if len(path) == 0 || t.nodes[0].Label != path[0] {
		return cur, false
	}
	for _, seg := range path[1:] {
		t.Expand(cur)
		next, ok := t.child(cur, seg)
		if !ok {
			return cur, false
		}
		cur = next
	}
	return cur, true
}

// PathOf returns the labels from the root to id.
func (t *Tree) PathOf(id NodeID) []string {
	depth := t.nodes[id].Depth
	path := make([]string, depth+1)
	for cur := id; cur != None; cur = t.nodes[cur].Parent {
		path[t.nodes[cur].Depth] = t.nodes[cur].Label
	}
	return path
}

// Search returns every node whose label contains term, ignoring case, in
// pre-order. Hidden nodes are included. An empty term matches nothing.
func (t *Tree) Search(term string) []NodeID {
	if term == "" {
		return nil
	}
	term = strings.ToLower(term)
	var out []NodeID
	for i := range t.nodes {
		if strings.Contains(strings.ToLower(t.nodes[i].Label), term) {
			out = append(out, NodeID(i))
		}
	}
	return out
}

func (t *Tree) child(id NodeID, label string) (NodeID, bool) {
	for _, k := range t.nodes[id].Pres.kids {
		if t.nodes[k].Label == label {
			return k, true
		}
	}
	return None, false
}
