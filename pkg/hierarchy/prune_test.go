package hierarchy

import (
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func TestPrune(t *testing.T) {
	tests := []struct {
		name      string
		maxDepth  int
		wantCount int
	}{
		{"Unlimited", -1, 3},
		{"DeeperThanTree", 5, 3},
		{"KeepsLeaves", 2, 3},
		{"CutsImaging", 1, 2},
		{"RootOnly", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustDecode(t, assayJSON)
			Prune(doc, tt.maxDepth)
			if got := doc.Count(); got != tt.wantCount {
				t.Errorf("Count() = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestPruneImagingBecomesLeaf(t *testing.T) {
	doc := mustDecode(t, assayJSON)
	Prune(doc, 1)

	tree := Build(doc)
	imaging := mustFind(t, tree, "Assay", "Imaging")
	if k := tree.Node(imaging).Pres.Kind(); k != KindLeaf {
		t.Errorf("Imaging kind = %v, want leaf", k)
	}
}

func TestPruneNil(t *testing.T) {
	Prune(nil, 1)
}

func TestPruneIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		doc := genDocument(5).Draw(t, "doc")
		k := rapid.IntRange(0, 6).Draw(t, "k")

		once := cloneDocument(doc)
		Prune(once, k)
		twice := cloneDocument(once)
		Prune(twice, k)

		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("prune(prune(T, %d)) != prune(T, %d)", k, k)
		}
	})
}
