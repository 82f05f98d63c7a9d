// Package tree defines the work-node data model shared by the reconciler
// and the commit phase.
//
// A work node represents one position in the output tree during a pending
// update. The forward structure (Child, Sibling) owns the tree; Parent and
// Alternate are non-owning back-references. An Alternate links a work node
// to its previous-commit counterpart: non-nil means the node reuses prior
// committed state, nil means the node is fresh and must be fully inserted.
//
// Side effects discovered during diffing are recorded two ways:
//   - a Flags bitset on the node itself (Placement, Deletion, ...)
//   - membership in the parent's effect list, a singly linked list threaded
//     through NextEffect, so the commit phase visits only nodes that need
//     mutation instead of walking the whole tree.
//
// INVARIANT: within one parent's effect list, deletions identified during
// the in-order scan precede placements recorded later in the same pass.
// The commit phase relies on this to remove old nodes before inserting new
// ones into overlapping positions.
package tree
