// Package hierarchy provides the labeled tree that biotree lays out and
// navigates.
//
// # Overview
//
// A hierarchy document is a rooted tree of named nodes in the wire format
//
//	{ "id": "Assay", "children": [ { "id": "Imaging" }, ... ] }
//
// [Decode] parses such a document into a [Document], [Prune] trims it to a
// maximum depth, and [Build] turns it into a [Tree]: a flat arena of [Node]
// values addressed by [NodeID]. Parents are plain indices, so the tree has no
// reference cycles and ownership of children is explicit.
//
// # Presentation
//
// Each node carries a [Presentation], a tagged value that is exactly one of
// [KindLeaf], [KindExpanded] or [KindCollapsed]. Expanded and collapsed nodes
// hold the same ordered child list; toggling only switches the tag, so
// collapsing never discards subtree data and [Tree.Toggle] is its own
// inverse.
//
// The bulk operations [Tree.ExpandToDepth], [Tree.CollapseAll] and
// [Tree.ExpandAll] rewrite whole subtrees. [Tree.ApplyInitialPolicy] applies
// the load-time policy: collapse everything, then expand to a depth.
//
// # Paths
//
// A path is the ordered list of labels from the root to a node. Lookups with
// [Tree.FindNodeByPath] search expanded and collapsed children alike and
// never change state; [Tree.ExpandPathToNode] expands along the way and
// returns the deepest node it could reach.
//
// # Degraded Input
//
// A node without a string identifier is not an error. It decodes as a
// label-less leaf (its children are dropped) and is counted by
// [Document.Degraded].
//
// # Concurrency
//
// A Tree is not safe for concurrent use. Callers serialise access, which the
// engine does by running every structural change inside one event handler.
package hierarchy
