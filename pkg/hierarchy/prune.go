package hierarchy

// Prune removes every subtree below maxDepth. The root is at depth 0, so a
// maxDepth of 1 keeps the root and its direct children.
//
// A negative maxDepth means no limit and leaves the document unchanged.
// Pruning is deterministic and idempotent.
func Prune(doc *Document, maxDepth int) {
	if doc == nil || maxDepth < 0 {
		return
	}
	prune(doc, 0, maxDepth)
}

func prune(d *Document, depth, maxDepth int) {
	if depth >= maxDepth {
		d.Children = nil
		return
	}
	for _, c := range d.Children {
		if c != nil {
			prune(c, depth+1, maxDepth)
		}
	}
}
