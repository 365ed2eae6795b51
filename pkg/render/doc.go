// Package render draws biotree scenes.
//
// # Overview
//
// A [Scene] is the drawable state of a viewer at one instant: the nodes and
// links produced by the animator, the pan/zoom transform and the canvas
// size. [Paint] walks a scene and issues drawing calls on a [Surface], which
// is the only contract a drawing backend has to meet:
//
//	Begin(canvas)          start a frame
//	Curve(p0, p1, p2, p3)  cubic bezier link
//	Circle(center, r)      node marker
//	Text(at, label)        node label
//	End()                  finish the frame
//
// All coordinates passed to a surface are screen pixels; Paint applies the
// transform. Links are drawn as horizontal S-curves from parent to child,
// then node markers, then labels to the right of each marker.
//
// # Backends
//
// The subpackages provide surfaces and exports:
//
//   - [sink]: SVG (ajstarks/svgo), PNG (gg) and JSON scene output
//   - [term]: a cell canvas for terminal user interfaces
//   - [nodelink]: Graphviz DOT export of the visible tree
package render
