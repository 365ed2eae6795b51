package hierarchy

// NodeID addresses a node in a [Tree]. IDs are dense indices assigned in
// pre-order by [Build]; the root is always 0.
type NodeID int

// None is the parent of the root and the result of failed lookups.
const None NodeID = -1

// StableID is the reconciliation key of a node. Zero means the node has not
// been observed by a reconciliation pass yet.
type StableID uint64

// Kind is the tag of a [Presentation].
type Kind uint8

const (
	// KindLeaf marks a node with no children.
	KindLeaf Kind = iota
	// KindExpanded marks a node whose children are visible.
	KindExpanded
	// KindCollapsed marks a node whose children are retained but hidden.
	KindCollapsed
)

func (k Kind) String() string {
	switch k {
	case KindExpanded:
		return "expanded"
	case KindCollapsed:
		return "collapsed"
	default:
		return "leaf"
	}
}

// Presentation is the subtree state of a node: Leaf, Expanded(children) or
// Collapsed(children). The fields are unexported so a node can never hold
// visible and hidden children at the same time.
type Presentation struct {
	kind Kind
	kids []NodeID
}

// Kind returns the presentation tag.
func (p Presentation) Kind() Kind { return p.kind }

// Children returns the visible children, or nil unless expanded.
func (p Presentation) Children() []NodeID {
	if p.kind != KindExpanded {
		return nil
	}
	return p.kids
}

// CollapsedChildren returns the hidden children, or nil unless collapsed.
func (p Presentation) CollapsedChildren() []NodeID {
	if p.kind != KindCollapsed {
		return nil
	}
	return p.kids
}

// Kids returns the children regardless of visibility.
func (p Presentation) Kids() []NodeID { return p.kids }

func (p Presentation) expanded() Presentation {
	if p.kind == KindLeaf {
		return p
	}
	return Presentation{kind: KindExpanded, kids: p.kids}
}

func (p Presentation) collapsed() Presentation {
	if p.kind == KindLeaf {
		return p
	}
	return Presentation{kind: KindCollapsed, kids: p.kids}
}

// Node is one entry in the tree arena.
//
// X is the secondary-axis position and Y the depth-axis position, both
// written by the layout pass. X0 and Y0 hold the positions of the previous
// reconciliation pass and serve as the origin of enter animations.
type Node struct {
	Label  string
	Parent NodeID
	Depth  int
	Pres   Presentation

	X, Y   float64
	X0, Y0 float64

	StableID StableID
	Focus    bool
}

// Link is a visible parent-child edge.
type Link struct {
	Parent NodeID
	Child  NodeID
}

// Tree is a hierarchy stored as a flat arena of nodes.
//
// The zero value is not usable; use [Build].
type Tree struct {
	nodes []Node
	focus NodeID
}

// Build constructs a tree from a decoded document. Every node with children
// starts expanded. A nil document yields a single label-less root.
func Build(doc *Document) *Tree {
	t := &Tree{
		nodes: make([]Node, 0, doc.Count()),
		focus: None,
	}
	t.add(doc, None, 0)
	return t
}

func (t *Tree) add(d *Document, parent NodeID, depth int) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Parent: parent, Depth: depth})
	if d == nil {
		return id
	}
	t.nodes[id].Label = d.ID
	if d.Malformed || len(d.Children) == 0 {
		return id
	}

	kids := make([]NodeID, 0, len(d.Children))
	for _, c := range d.Children {
		kids = append(kids, t.add(c, id, depth+1))
	}
	t.nodes[id].Pres = Presentation{kind: KindExpanded, kids: kids}
	return id
}

// Root returns the root node ID.
func (t *Tree) Root() NodeID { return 0 }

// Len returns the number of nodes, visible or not.
func (t *Tree) Len() int { return len(t.nodes) }

// Valid reports whether id addresses a node of t.
func (t *Tree) Valid(id NodeID) bool { return id >= 0 && int(id) < len(t.nodes) }

// Node returns the node for id. The pointer stays valid for the lifetime of
// the tree; nodes are never added or removed after [Build].
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// MaxDepth returns the depth of the deepest node.
func (t *Tree) MaxDepth() int {
	d := 0
	for i := range t.nodes {
		d = max(d, t.nodes[i].Depth)
	}
	return d
}

// IsVisible reports whether every ancestor of id is expanded.
func (t *Tree) IsVisible(id NodeID) bool {
	for p := t.nodes[id].Parent; p != None; p = t.nodes[p].Parent {
		if t.nodes[p].Pres.kind != KindExpanded {
			return false
		}
	}
	return true
}

// Visible returns the visible nodes in pre-order, starting at the root.
func (t *Tree) Visible() []NodeID {
	out := make([]NodeID, 0, len(t.nodes))
	stack := []NodeID{t.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, id)

		kids := t.nodes[id].Pres.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return out
}

// Links returns the visible parent-child edges in pre-order of the child.
func (t *Tree) Links() []Link {
	var out []Link
	for _, id := range t.Visible() {
		if p := t.nodes[id].Parent; p != None {
			out = append(out, Link{Parent: p, Child: id})
		}
	}
	return out
}

// Focused returns the focus node, or [None] if nothing is focused.
func (t *Tree) Focused() NodeID { return t.focus }

// SetFocus moves the focus flag to id, clearing it on the previous focus node.
// Passing [None] clears the focus.
func (t *Tree) SetFocus(id NodeID) {
	if t.focus != None {
		t.nodes[t.focus].Focus = false
	}
	t.focus = id
	if id != None {
		t.nodes[id].Focus = true
	}
}
