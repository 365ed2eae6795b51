// Package layout assigns positions to the visible nodes of a hierarchy.
//
// [Compute] places nodes on two axes:
//
//   - The secondary axis (Node.X) comes from a tidy-tree pass. Sibling
//     subtrees are packed left to right so that no two nodes at the same
//     depth are closer than [Config.NodeGap], and every parent is centered
//     over its first and last visible child.
//   - The depth axis (Node.Y) comes from per-depth column offsets. Each
//     column is as wide as its widest label plus [Config.Padding], so labels
//     never run into the next column.
//
// Label width is measured by a [Measurer]. [Monospace] multiplies the rune
// count by a fixed character width, [Cells] counts terminal cells with
// go-runewidth, and [Font] measures real glyph advances with a TrueType
// face. Column offsets are derived from the same measurer that sized the
// labels, so the column guarantee holds for each of them.
//
// Layout is not incremental: every structural change recomputes the whole
// visible set. Depth is read, never written.
package layout
