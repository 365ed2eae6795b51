// Package sink provides output surfaces for biotree scenes.
//
// [SVG] and [PNG] implement [render.Surface]; pass them to [render.Paint]
// or use the [RenderSVG] and [RenderPNG] helpers, which paint a scene into
// a byte slice. [RenderJSON] serializes the scene itself, with each node's
// path, for clients that draw on their own.
package sink
