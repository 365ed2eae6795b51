package sink

import (
	"github.com/goccy/go-json"

	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/render"
	"github.com/matzehuels/biotree/pkg/viewport"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	tree   *hierarchy.Tree
	indent bool
}

// WithJSONTree adds each node's path, taken from t, to the output.
func WithJSONTree(t *hierarchy.Tree) JSONOption { return func(r *jsonRenderer) { r.tree = t } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

type jsonOutput struct {
	Canvas    viewport.Size      `json:"canvas"`
	Transform viewport.Transform `json:"transform"`
	Focus     hierarchy.StableID `json:"focus,omitempty"`
	Dragging  hierarchy.StableID `json:"dragging,omitempty"`
	Active    bool               `json:"active"`
	Nodes     []jsonNode         `json:"nodes"`
	Links     []render.Link      `json:"links"`
}

type jsonNode struct {
	render.Node
	Path   string         `json:"path,omitempty"`
	Screen viewport.Point `json:"screen"`
}

// RenderJSON serializes a scene. Node positions are given in world space and,
// under "screen", after the transform.
func RenderJSON(sc render.Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Canvas:    sc.Canvas,
		Transform: sc.Transform,
		Focus:     sc.Focus,
		Dragging:  sc.Dragging,
		Active:    sc.Active,
		Nodes:     make([]jsonNode, len(sc.Nodes)),
		Links:     sc.Links,
	}
	if out.Links == nil {
		out.Links = []render.Link{}
	}
	for i, n := range sc.Nodes {
		out.Nodes[i] = jsonNode{Node: n, Screen: sc.Transform.Apply(n.Pos)}
		if r.tree != nil && r.tree.Valid(n.ID) {
			out.Nodes[i].Path = hierarchy.FormatPath(r.tree.PathOf(n.ID))
		}
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
