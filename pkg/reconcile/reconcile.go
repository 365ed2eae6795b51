package reconcile

import (
	"slices"

	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// Key identifies a node or link across passes. A link is keyed by its child.
type Key = hierarchy.StableID

// Op classifies an element in a [Patch].
type Op uint8

const (
	OpEnter Op = iota
	OpUpdate
	OpExit
)

func (o Op) String() string {
	switch o {
	case OpEnter:
		return "enter"
	case OpUpdate:
		return "update"
	default:
		return "exit"
	}
}

// NodeChange moves one node from From to To.
type NodeChange struct {
	Key      Key
	ID       hierarchy.NodeID
	Op       Op
	From, To viewport.Point
}

// LinkChange moves one link. Src is the parent end and Dst the child end.
type LinkChange struct {
	Key              Key
	Parent, Child    hierarchy.NodeID
	Op               Op
	FromSrc, FromDst viewport.Point
	ToSrc, ToDst     viewport.Point
}

// Patch is the result of one reconciliation pass. Entering and updating
// elements come first in visible pre-order, followed by exits in key order.
type Patch struct {
	Origin hierarchy.NodeID
	Nodes  []NodeChange
	Links  []LinkChange
}

// Count returns the number of node changes with the given op.
func (p Patch) Count(op Op) int {
	n := 0
	for _, c := range p.Nodes {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Position returns the world position of a laid-out node: the depth axis
// maps to X and the secondary axis to Y.
func Position(n *hierarchy.Node) viewport.Point {
	return viewport.Point{X: n.Y, Y: n.X}
}

// PriorPosition returns the world position of a node in the previous pass.
func PriorPosition(n *hierarchy.Node) viewport.Point {
	return viewport.Point{X: n.Y0, Y: n.X0}
}

type element struct {
	id, parent hierarchy.NodeID
	pos        viewport.Point
	src        viewport.Point // links only
}

// Context tracks the keyed element set between passes. Contexts are
// independent of each other, so each starts numbering keys at 1.
type Context struct {
	next  Key
	nodes map[Key]element
	links map[Key]element
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{
		nodes: make(map[Key]element),
		links: make(map[Key]element),
	}
}

// Assign returns the stable id of a node, allocating one on first use.
func (c *Context) Assign(t *hierarchy.Tree, id hierarchy.NodeID) Key {
	n := t.Node(id)
	if n.StableID == 0 {
		c.next++
		n.StableID = c.next
	}
	return n.StableID
}

// Len returns the number of nodes in the keyed set.
func (c *Context) Len() int { return len(c.nodes) }

// Has reports whether key was visible in the last pass.
func (c *Context) Has(key Key) bool {
	_, ok := c.nodes[key]
	return ok
}

// Reconcile diffs the visible nodes and links of t against the last pass.
// origin is the node whose change triggered the pass.
func (c *Context) Reconcile(t *hierarchy.Tree, origin hierarchy.NodeID) Patch {
	o := t.Node(origin)
	from, to := PriorPosition(o), Position(o)

	visible := t.Visible()
	p := Patch{
		Origin: origin,
		Nodes:  make([]NodeChange, 0, len(visible)),
	}
	nodes := make(map[Key]element, len(visible))
	links := make(map[Key]element, len(visible))

	for _, id := range visible {
		key := c.Assign(t, id)
		n := t.Node(id)
		pos := Position(n)

		ch := NodeChange{Key: key, ID: id, Op: OpEnter, From: from, To: pos}
		if prev, ok := c.nodes[key]; ok {
			ch.Op, ch.From = OpUpdate, prev.pos
		}
		p.Nodes = append(p.Nodes, ch)
		nodes[key] = element{id: id, parent: n.Parent, pos: pos}

		if n.Parent == hierarchy.None {
			continue
		}
		src := Position(t.Node(n.Parent))
		lc := LinkChange{
			Key: key, Parent: n.Parent, Child: id, Op: OpEnter,
			FromSrc: from, FromDst: from, ToSrc: src, ToDst: pos,
		}
		if prev, ok := c.links[key]; ok {
			lc.Op, lc.FromSrc, lc.FromDst = OpUpdate, prev.src, prev.pos
		}
		p.Links = append(p.Links, lc)
		links[key] = element{id: id, parent: n.Parent, pos: pos, src: src}
	}

	for _, key := range exited(c.nodes, nodes) {
		prev := c.nodes[key]
		p.Nodes = append(p.Nodes, NodeChange{Key: key, ID: prev.id, Op: OpExit, From: prev.pos, To: to})
	}
	for _, key := range exited(c.links, links) {
		prev := c.links[key]
		p.Links = append(p.Links, LinkChange{
			Key: key, Parent: prev.parent, Child: prev.id, Op: OpExit,
			FromSrc: prev.src, FromDst: prev.pos, ToSrc: to, ToDst: to,
		})
	}

	c.nodes, c.links = nodes, links
	for _, id := range visible {
		n := t.Node(id)
		n.X0, n.Y0 = n.X, n.Y
	}
	return p
}

// exited returns the keys of prev missing from next, sorted.
func exited(prev, next map[Key]element) []Key {
	var out []Key
	for k := range prev {
		if _, ok := next[k]; !ok {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
