package hierarchy

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

// assayJSON is the three-level document used across the tests.
const assayJSON = `{"id":"Assay","children":[{"id":"Imaging","children":[{"id":"H&E"}]}]}`

// deepJSON has three levels below the root and several siblings per level.
const deepJSON = `{
  "id": "root",
  "children": [
    {"id": "a", "children": [
      {"id": "a1", "children": [{"id": "a1x"}, {"id": "a1y"}]},
      {"id": "a2"}
    ]},
    {"id": "b", "children": [{"id": "b1"}]},
    {"id": "c"}
  ]
}`

func mustDecode(t testing.TB, s string) *Document {
	t.Helper()
	doc, err := Decode([]byte(s))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	return doc
}

func mustBuild(t testing.TB, s string) *Tree {
	t.Helper()
	return Build(mustDecode(t, s))
}

func mustFind(t testing.TB, tree *Tree, path ...string) NodeID {
	t.Helper()
	id, ok := tree.FindNodeByPath(path)
	if !ok {
		t.Fatalf("FindNodeByPath(%v) not found", path)
	}
	return id
}

// genDocument draws a random document up to maxDepth levels deep. Labels are
// unique among siblings.
func genDocument(maxDepth int) *rapid.Generator[*Document] {
	return rapid.Custom(func(t *rapid.T) *Document {
		return drawDocument(t, "n", 0, maxDepth)
	})
}

func drawDocument(t *rapid.T, label string, depth, maxDepth int) *Document {
	d := &Document{ID: label}
	if depth >= maxDepth {
		return d
	}
	n := rapid.IntRange(0, 3).Draw(t, "children")
	for i := range n {
		d.Children = append(d.Children, drawDocument(t, fmt.Sprintf("%s.%d", label, i), depth+1, maxDepth))
	}
	return d
}

func cloneDocument(d *Document) *Document {
	if d == nil {
		return nil
	}
	c := &Document{ID: d.ID, Malformed: d.Malformed}
	for _, k := range d.Children {
		c.Children = append(c.Children, cloneDocument(k))
	}
	return c
}

func labels(tree *Tree, ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = tree.Node(id).Label
	}
	return out
}
