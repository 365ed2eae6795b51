package reconcile

import (
	"slices"
	"time"

	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// NodeState is a node as drawn at one instant.
type NodeState struct {
	Key     Key
	ID      hierarchy.NodeID
	Pos     viewport.Point
	Opacity float64
	Exiting bool
}

// LinkState is a link as drawn at one instant.
type LinkState struct {
	Key           Key
	Parent, Child hierarchy.NodeID
	Src, Dst      viewport.Point
	Opacity       float64
	Exiting       bool
}

// Frame is the drawable state returned by [Animator.Tick].
type Frame struct {
	Nodes  []NodeState
	Links  []LinkState
	Active bool // some transition has not finished yet
}

// track is one keyed transition. Nodes use the a endpoints only.
type track struct {
	fromA, fromB viewport.Point
	toA, toB     viewport.Point
	fromO, toO   float64
	start        time.Time
	exit         bool
	settled      bool

	id, parent hierarchy.NodeID
}

func (tr *track) progress(now time.Time, d time.Duration) float64 {
	if d <= 0 || tr.settled {
		return 1
	}
	return float64(now.Sub(tr.start)) / float64(d)
}

func (tr *track) at(u float64) (a, b viewport.Point, o float64) {
	e := viewport.EaseCubicInOut(u)
	return lerp(tr.fromA, tr.toA, e), lerp(tr.fromB, tr.toB, e), tr.fromO + (tr.toO-tr.fromO)*e
}

func lerp(p, q viewport.Point, u float64) viewport.Point {
	return viewport.Point{X: p.X + (q.X-p.X)*u, Y: p.Y + (q.Y-p.Y)*u}
}

// Animator plays patches as time-based transitions keyed by stable id.
// It is not safe for concurrent use.
type Animator struct {
	duration  time.Duration
	nodes     map[Key]*track
	links     map[Key]*track
	nodeOrder []Key
	linkOrder []Key
}

// NewAnimator returns an animator whose transitions last d. A zero duration
// applies every patch immediately.
func NewAnimator(d time.Duration) *Animator {
	return &Animator{
		duration: d,
		nodes:    make(map[Key]*track),
		links:    make(map[Key]*track),
	}
}

// Len returns the number of nodes currently drawn, exiting ones included.
func (a *Animator) Len() int { return len(a.nodes) }

// Schedule starts the transitions of p at now. An element that is still
// moving starts its new transition from its current interpolated state,
// superseding the old one.
func (a *Animator) Schedule(p Patch, now time.Time) {
	order := make([]Key, 0, len(p.Nodes))
	for _, c := range p.Nodes {
		tr := &track{
			fromA: c.From, toA: c.To,
			fromO: 0, toO: 1,
			start: now, exit: c.Op == OpExit, id: c.ID,
		}
		if c.Op == OpExit {
			tr.fromO, tr.toO = 1, 0
		} else if c.Op == OpUpdate {
			tr.fromO = 1
		}
		if old, ok := a.nodes[c.Key]; ok {
			tr.fromA, _, tr.fromO = old.at(old.progress(now, a.duration))
		}
		a.nodes[c.Key] = tr
		order = append(order, c.Key)
	}
	a.nodeOrder = a.carry(order, a.nodeOrder, a.nodes)

	order = make([]Key, 0, len(p.Links))
	for _, c := range p.Links {
		tr := &track{
			fromA: c.FromSrc, fromB: c.FromDst,
			toA: c.ToSrc, toB: c.ToDst,
			fromO: 0, toO: 1,
			start: now, exit: c.Op == OpExit, id: c.Child, parent: c.Parent,
		}
		if c.Op == OpExit {
			tr.fromO, tr.toO = 1, 0
		} else if c.Op == OpUpdate {
			tr.fromO = 1
		}
		if old, ok := a.links[c.Key]; ok {
			tr.fromA, tr.fromB, tr.fromO = old.at(old.progress(now, a.duration))
		}
		a.links[c.Key] = tr
		order = append(order, c.Key)
	}
	a.linkOrder = a.carry(order, a.linkOrder, a.links)
}

// carry appends keys from the previous order that the new patch did not
// mention but that are still fading out.
func (a *Animator) carry(order, prev []Key, tracks map[Key]*track) []Key {
	seen := make(map[Key]struct{}, len(order))
	for _, k := range order {
		seen[k] = struct{}{}
	}
	for _, k := range prev {
		if _, ok := seen[k]; !ok {
			if _, live := tracks[k]; live {
				order = append(order, k)
			}
		}
	}
	return order
}

// Tick returns the state at now and drops exited elements whose fade has
// completed.
func (a *Animator) Tick(now time.Time) Frame {
	return a.frame(func(tr *track) float64 { return tr.progress(now, a.duration) })
}

// Settle jumps every transition to its end state. Later ticks keep
// returning the end state until the next [Animator.Schedule].
func (a *Animator) Settle() Frame {
	for _, tr := range a.nodes {
		tr.settled = true
	}
	for _, tr := range a.links {
		tr.settled = true
	}
	return a.frame(func(*track) float64 { return 1 })
}

func (a *Animator) frame(progress func(*track) float64) Frame {
	f := Frame{
		Nodes: make([]NodeState, 0, len(a.nodeOrder)),
		Links: make([]LinkState, 0, len(a.linkOrder)),
	}

	a.nodeOrder = slices.DeleteFunc(a.nodeOrder, func(k Key) bool {
		tr := a.nodes[k]
		u := min(progress(tr), 1)
		if u < 1 {
			f.Active = true
		} else if tr.exit {
			delete(a.nodes, k)
			return true
		}
		pos, _, o := tr.at(u)
		f.Nodes = append(f.Nodes, NodeState{Key: k, ID: tr.id, Pos: pos, Opacity: o, Exiting: tr.exit})
		return false
	})

	a.linkOrder = slices.DeleteFunc(a.linkOrder, func(k Key) bool {
		tr := a.links[k]
		u := min(progress(tr), 1)
		if u < 1 {
			f.Active = true
		} else if tr.exit {
			delete(a.links, k)
			return true
		}
		src, dst, o := tr.at(u)
		f.Links = append(f.Links, LinkState{
			Key: k, Parent: tr.parent, Child: tr.id,
			Src: src, Dst: dst, Opacity: o, Exiting: tr.exit,
		})
		return false
	})
	return f
}
