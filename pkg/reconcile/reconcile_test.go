package reconcile

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/layout"
)

const threeLevels = `{"id":"root","children":[
	{"id":"a","children":[{"id":"a1"},{"id":"a2"}]},
	{"id":"b","children":[{"id":"b1"}]}
]}`

func setup(t testing.TB, depth int) (*hierarchy.Tree, *Context) {
	t.Helper()
	doc, err := hierarchy.Decode([]byte(threeLevels))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	tree := hierarchy.Build(doc)
	tree.ApplyInitialPolicy(depth)
	layout.Compute(tree, layout.DefaultConfig())
	root := tree.Node(tree.Root())
	root.X0, root.Y0 = root.X, root.Y

	ctx := NewContext()
	ctx.Reconcile(tree, tree.Root())
	return tree, ctx
}

func find(t testing.TB, tree *hierarchy.Tree, path string) hierarchy.NodeID {
	t.Helper()
	id, ok := tree.FindNodeByPath(hierarchy.ParsePath(path))
	if !ok {
		t.Fatalf("path %q not found", path)
	}
	return id
}

func TestReconcileInitialPassEntersAll(t *testing.T) {
	doc, _ := hierarchy.Decode([]byte(threeLevels))
	tree := hierarchy.Build(doc)
	tree.ApplyInitialPolicy(1)
	layout.Compute(tree, layout.DefaultConfig())
	root := tree.Node(tree.Root())
	root.X0, root.Y0 = root.X, root.Y

	p := NewContext().Reconcile(tree, tree.Root())

	if got := p.Count(OpEnter); got != 3 {
		t.Errorf("enter = %d, want 3", got)
	}
	for _, c := range p.Nodes {
		if c.From != PriorPosition(root) {
			t.Errorf("%d enters from %+v, want root prior position %+v", c.Key, c.From, PriorPosition(root))
		}
	}
	if len(p.Links) != 2 {
		t.Errorf("len(Links) = %d, want 2", len(p.Links))
	}
}

func TestReconcileDeterministicKeys(t *testing.T) {
	t1, _ := setup(t, 1)
	t2, _ := setup(t, 1)
	for _, path := range []string{"root", "root/a", "root/b"} {
		k1 := t1.Node(find(t, t1, path)).StableID
		k2 := t2.Node(find(t, t2, path)).StableID
		if k1 == 0 || k1 != k2 {
			t.Errorf("%s: keys %d and %d, want equal and non-zero", path, k1, k2)
		}
	}
	if k := t1.Node(find(t, t1, "root/a/a1")).StableID; k != 0 {
		t.Errorf("hidden node has key %d before being observed", k)
	}
}

func TestReconcileExpandEntersFromOrigin(t *testing.T) {
	tree, ctx := setup(t, 1)
	a := find(t, tree, "root/a")
	prior := Position(tree.Node(a))

	tree.Toggle(a)
	layout.Compute(tree, layout.DefaultConfig())
	p := ctx.Reconcile(tree, a)

	if got := p.Count(OpEnter); got != 2 {
		t.Fatalf("enter = %d, want 2", got)
	}
	if got := p.Count(OpUpdate); got != 3 {
		t.Errorf("update = %d, want 3", got)
	}
	for _, c := range p.Nodes {
		if c.Op == OpEnter && c.From != prior {
			t.Errorf("entering %d from %+v, want %+v", c.Key, c.From, prior)
		}
	}
	for _, id := range tree.Visible() {
		n := tree.Node(id)
		if n.X0 != n.X || n.Y0 != n.Y {
			t.Errorf("%s snapshot (%v,%v) != position (%v,%v)", n.Label, n.X0, n.Y0, n.X, n.Y)
		}
	}
}

func TestReconcileCollapseExitsToOrigin(t *testing.T) {
	tree, ctx := setup(t, 2)
	a := find(t, tree, "root/a")

	tree.Toggle(a)
	layout.Compute(tree, layout.DefaultConfig())
	p := ctx.Reconcile(tree, a)

	if got := p.Count(OpExit); got != 2 {
		t.Fatalf("exit = %d, want 2", got)
	}
	target := Position(tree.Node(a))
	for _, c := range p.Nodes {
		if c.Op == OpExit && c.To != target {
			t.Errorf("exiting %d toward %+v, want %+v", c.Key, c.To, target)
		}
	}
	if ctx.Len() != 4 {
		t.Errorf("keyed set = %d, want 4", ctx.Len())
	}
}

func TestStableIDSurvivesToggle(t *testing.T) {
	tree, ctx := setup(t, 2)
	a := find(t, tree, "root/a")
	a1 := find(t, tree, "root/a/a1")
	key := tree.Node(a1).StableID

	for range 3 {
		tree.Toggle(a)
		layout.Compute(tree, layout.DefaultConfig())
		ctx.Reconcile(tree, a)
	}
	if got := tree.Node(a1).StableID; got != key {
		t.Errorf("key changed from %d to %d", key, got)
	}
}

func TestReconcileNoDuplicateKeys(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tree, ctx := setup(t, rapid.IntRange(0, 3).Draw(rt, "depth"))
		steps := rapid.IntRange(1, 10).Draw(rt, "steps")
		for range steps {
			id := hierarchy.NodeID(rapid.IntRange(0, tree.Len()-1).Draw(rt, "node"))
			tree.Toggle(id)
			layout.Compute(tree, layout.DefaultConfig())
			p := ctx.Reconcile(tree, id)

			seen := map[Key]bool{}
			live := 0
			for _, c := range p.Nodes {
				if seen[c.Key] {
					rt.Fatalf("key %d appears twice", c.Key)
				}
				seen[c.Key] = true
				if c.Op != OpExit {
					live++
				}
			}
			if live != len(tree.Visible()) {
				rt.Fatalf("live = %d, visible = %d", live, len(tree.Visible()))
			}
		}
	})
}
