// Package reconcile matches successive layouts of a hierarchy and turns the
// difference into animated transitions.
//
// A [Context] owns the key counter. The first time a pass observes a node it
// stores a fresh [hierarchy.StableID] on it; that key never changes, even if
// the node is hidden and shown again. [Context.Reconcile] compares the
// visible nodes and links against the previous pass and classifies each as
// entering, updating or exiting:
//
//   - Entering elements start at the prior position of the node that caused
//     the change, so expanding a node grows its children out of it.
//   - Updating elements move from their previous position to the new one.
//   - Exiting elements move into the causing node's new position and fade.
//
// After the pass every visible node's X0/Y0 snapshot holds its current
// position.
//
// An [Animator] plays a [Patch] over time. Transitions are keyed by stable
// id: scheduling a new patch while an old one is still running retargets
// each element from wherever it currently is, so the element set never
// holds a key twice and always converges on the latest layout.
//
// Positions are in world space, with the depth axis horizontal. See
// [Position].
package reconcile
