// Package reconcile implements the incremental child-diff engine.
//
// Given a parent work node, the head of the previously committed sibling
// list and a new children description, the engine produces a new sibling
// list of work nodes, reusing committed nodes where identity (key, or
// position when keyless) and concrete type are preserved, and tagging the
// minimal set of placement/deletion side effects for the commit phase.
//
// Two variants share one matching algorithm:
//   - Reconcile: tracking mode, for updates against a committed tree;
//     records deletions and placements on the parent's effect list
//   - Mount: non-tracking mode, for first construction of a subtree;
//     produces the same structure with no effects recorded
//
// The array diff runs up to four passes:
//  1. lock-step forward scan while positions and keys line up (the common
//     "same order, same identities" re-render is a single cheap pass)
//  2. new list exhausted: delete every remaining old sibling
//  3. old list exhausted: create every remaining new slot fresh
//  4. leftovers on both sides: build a key -> old-node map, reuse hits,
//     create misses, delete whatever was never consumed
//
// Movement detection is a running-max heuristic over old indices, not a
// minimal edit script: a reused node whose old index is below the highest
// already-placed old index is tagged as moved. Certain permutations get
// more placements than strictly necessary; that tradeoff is deliberate
// (O(n) single pass) and its exact output is pinned by golden tests, so
// do not "improve" it.
//
// A diff call always runs to completion; suspension happens between
// scheduler tasks, never mid-diff. The engine mutates only the tree
// reachable from its parent argument, so diffs of unrelated subtrees can
// interleave across tasks safely.
package reconcile
