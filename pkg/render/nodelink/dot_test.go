package nodelink

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/biotree/pkg/hierarchy"
)

func testTree(t *testing.T) *hierarchy.Tree {
	t.Helper()
	doc, err := hierarchy.Decode([]byte(`{"id":"Assay","children":[
		{"id":"Imaging","children":[{"id":"H&E"}]},
		{"id":"Sequencing","children":[{"id":"RNA"},{"id":"DNA"}]},
		{"children":[]}
	]}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	tree := hierarchy.Build(doc)
	tree.ApplyInitialPolicy(1)
	tree.SetFocus(tree.Root())
	return tree
}

func TestToDOT(t *testing.T) {
	tree := testTree(t)

	tests := []struct {
		name      string
		opts      Options
		wantNodes int
		wantEdges int
		contains  []string
	}{
		{
			name:      "Visible",
			wantNodes: 4,
			wantEdges: 3,
			contains:  []string{"rankdir=LR", `label="Imaging"`, `fillcolor="#6aa9d8"`, "penwidth=2", "shape=point"},
		},
		{
			name:      "All",
			opts:      Options{All: true},
			wantNodes: 7,
			wantEdges: 6,
			contains:  []string{`label="RNA"`},
		},
		{
			name:      "Detailed",
			opts:      Options{Detailed: true},
			wantNodes: 4,
			wantEdges: 3,
			contains:  []string{`depth: 1\ncollapsed`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(tree, tt.opts)
			if got := strings.Count(dot, " [label="); got != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", got, tt.wantNodes)
			}
			if got := strings.Count(dot, " -> "); got != tt.wantEdges {
				t.Errorf("edges = %d, want %d", got, tt.wantEdges)
			}
			for _, s := range tt.contains {
				if !strings.Contains(dot, s) {
					t.Errorf("DOT missing %q:\n%s", s, dot)
				}
			}
		})
	}
}

func TestToDOTEdgesFollowLinks(t *testing.T) {
	tree := testTree(t)
	dot := ToDOT(tree, Options{})
	for _, l := range tree.Links() {
		edge := fmt.Sprintf("n%d -> n%d;", l.Parent, l.Child)
		if !strings.Contains(dot, edge) {
			t.Errorf("DOT missing visible link %s", edge)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Imaging", `"Imaging"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\data`, `"C:\\data"`},
		{`left\l`, `"left\\l"`},
		{"tab\there", "\"tab\there\""},
		{"two\nlines", `"two\nlines"`},
		{"crlf\r\n", `"crlf\n"`},
		{"Färbung", `"Färbung"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	tree := testTree(t)
	tree.Node(tree.Root()).Label = "a\tb"
	if dot := ToDOT(tree, Options{}); !strings.Contains(dot, "label=\"a\tb\"") {
		t.Errorf("tab escaped in label:\n%s", dot)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testTree(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	s := string(svg)
	if !strings.Contains(s, `viewBox="0 0 `) {
		t.Error("missing normalized viewBox")
	}
	if !strings.Contains(s, "Imaging") {
		t.Error("missing node label")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() error = nil, want parse error")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="10" height="20"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox: got %s", got)
	}
}
