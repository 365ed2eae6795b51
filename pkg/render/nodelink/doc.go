// Package nodelink exports a hierarchy as a Graphviz node-link diagram.
//
// # Usage
//
// Convert the tree to DOT, then render it with the embedded Graphviz:
//
//	dot := nodelink.ToDOT(tree, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// By default only the visible nodes are exported, matching what the viewer
// shows. Set [Options.All] to include collapsed subtrees.
//
// # Styling
//
// The graph is laid out left to right. Collapsed nodes are filled, the focus
// node is outlined in the focus color, and label-less nodes are drawn as
// small dashed points.
package nodelink
