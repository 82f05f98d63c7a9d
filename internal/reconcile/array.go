package reconcile

import (
	"github.com/loomkit/loom/internal/tree"
)

// reconcileSlice diffs the old sibling linked list against an indexed
// sequence of new children. See the package comment for the pass
// structure.
func (r *childReconciler) reconcileSlice(parent *tree.Node, currentFirst *tree.Node, newChildren []any) (*tree.Node, error) {
	r.warnOnDuplicateKeys(parent, newChildren)

	var resultingFirst *tree.Node
	var previousNew *tree.Node

	oldChild := currentFirst
	lastPlacedIndex := 0
	newIdx := 0
	var nextOld *tree.Node

	appendNew := func(n *tree.Node) {
		if previousNew == nil {
			resultingFirst = n
		} else {
			previousNew.Sibling = n
		}
		previousNew = n
	}

	// Pass 1: lock-step forward scan. Stops at the first slot where keys
	// fail to match; the common re-render (same order, same identities)
	// never leaves this loop.
	for ; oldChild != nil && newIdx < len(newChildren); newIdx++ {
		if oldChild.Index > newIdx {
			// The old list has a gap here; match against nothing.
			nextOld = oldChild
			oldChild = nil
		} else {
			nextOld = oldChild.Sibling
		}

		newNode, err := r.updateSlot(parent, oldChild, newChildren[newIdx])
		if err != nil {
			return nil, err
		}
		if newNode == nil {
			if oldChild == nil {
				oldChild = nextOld
			}
			break
		}

		if oldChild != nil && newNode.Alternate == nil {
			// Key matched but the type changed; the old node goes.
			// Recorded before the replacement's placement below.
			r.deleteChild(parent, oldChild)
		}
		lastPlacedIndex = r.placeChild(parent, newNode, lastPlacedIndex, newIdx)
		appendNew(newNode)
		oldChild = nextOld
	}

	// Pass 2a: the new list is exhausted; everything left is a trailing
	// removal.
	if newIdx == len(newChildren) {
		r.deleteRemainingChildren(parent, oldChild)
		return resultingFirst, nil
	}

	// Pass 2b: the old list is exhausted; remaining slots are trailing
	// insertions, no lookup map needed.
	if oldChild == nil {
		for ; newIdx < len(newChildren); newIdx++ {
			newNode, err := r.createChild(parent, newChildren[newIdx])
			if err != nil {
				return nil, err
			}
			if newNode == nil {
				continue
			}
			lastPlacedIndex = r.placeChild(parent, newNode, lastPlacedIndex, newIdx)
			appendNew(newNode)
		}
		return resultingFirst, nil
	}

	// Pass 3: leftovers on both sides. Index the remaining old siblings
	// by identity key for O(1) lookups while resolving moves.
	existing := mapRemainingChildren(oldChild)

	for ; newIdx < len(newChildren); newIdx++ {
		newNode, err := r.updateFromMap(existing, parent, newIdx, newChildren[newIdx])
		if err != nil {
			return nil, err
		}
		if newNode == nil {
			continue
		}
		if newNode.Alternate != nil {
			// Consumed: it must not also be counted as a deletion.
			delete(existing, mapKeyFor(newNode.Key, newIdx))
		}
		lastPlacedIndex = r.placeChild(parent, newNode, lastPlacedIndex, newIdx)
		appendNew(newNode)
	}

	// Anything still in the map was never reused. Walk the old list (not
	// the map) so deletion order stays deterministic.
	if r.trackEffects {
		for old := oldChild; old != nil; old = old.Sibling {
			if _, ok := existing[mapKeyFor(old.Key, old.Index)]; ok {
				r.deleteChild(parent, old)
			}
		}
	}

	return resultingFirst, nil
}

// mapKeyFor returns the identity used in the existing-children map: the
// explicit key, or the positional index when keyless.
func mapKeyFor(key string, index int) any {
	if key != "" {
		return key
	}
	return index
}

// mapRemainingChildren indexes an old sibling run by identity key.
func mapRemainingChildren(first *tree.Node) map[any]*tree.Node {
	existing := make(map[any]*tree.Node)
	for child := first; child != nil; child = child.Sibling {
		existing[mapKeyFor(child.Key, child.Index)] = child
	}
	return existing
}

// placeChild assigns the node's position and runs movement detection.
//
// lastPlacedIndex is the highest old index seen among already-placed
// reused nodes. A reused node whose old index is below it must move
// (Placement) and leaves lastPlacedIndex unchanged; otherwise the node
// stays and raises lastPlacedIndex to its old index. Fresh nodes are
// always placements. Any node that picked up flags lands on the parent's
// effect list here.
func (r *childReconciler) placeChild(parent *tree.Node, n *tree.Node, lastPlacedIndex, newIndex int) int {
	n.Index = newIndex
	if !r.trackEffects {
		return lastPlacedIndex
	}

	result := lastPlacedIndex
	if alt := n.Alternate; alt != nil {
		if alt.Index < lastPlacedIndex {
			n.Flags.Set(tree.FlagPlacement) // moved
		} else {
			result = alt.Index // stays in place
		}
	} else {
		n.Flags.Set(tree.FlagPlacement) // fresh insertion
	}

	if n.Flags != tree.FlagNone {
		parent.AppendEffect(n)
	}
	return result
}

// updateSlot matches one aligned (old, new) pair during the forward scan.
// Returns nil when the identity keys disagree, which ends the scan.
func (r *childReconciler) updateSlot(parent *tree.Node, old *tree.Node, newChild any) (*tree.Node, error) {
	oldKey := ""
	if old != nil {
		oldKey = old.Key
	}

	if lazy, ok := newChild.(tree.Lazy); ok {
		return r.updateSlot(parent, old, lazy.Resolve())
	}

	if content, ok := textContent(newChild); ok {
		// Text never carries a key; an old node with an explicit key
		// cannot match it.
		if oldKey != "" {
			return nil, nil
		}
		return r.updateText(parent, old, content), nil
	}

	switch c := newChild.(type) {
	case nil, bool:
		return nil, nil
	case tree.UndefinedType:
		return nil, newUndefinedRenderError(parent)
	case tree.Element, tree.Fragment, tree.Portal:
		desc := c.(tree.Description)
		if desc.DescKey() != oldKey {
			return nil, nil
		}
		if old != nil {
			if reused := r.reuseIfSameType(parent, old, desc); reused != nil {
				return reused, nil
			}
		}
		return createFromDescription(parent, desc), nil
	case []any:
		// A nested sequence is an implicit keyless fragment.
		if oldKey != "" {
			return nil, nil
		}
		return r.updateImplicitFragment(parent, old, c), nil
	case []tree.Description:
		if oldKey != "" {
			return nil, nil
		}
		return r.updateImplicitFragment(parent, old, descsToAny(c)), nil
	default:
		return nil, newInvalidChildError(parent, newChild)
	}
}

// updateFromMap resolves one remaining new slot against the index map
// built in pass 3.
func (r *childReconciler) updateFromMap(existing map[any]*tree.Node, parent *tree.Node, newIdx int, newChild any) (*tree.Node, error) {
	if lazy, ok := newChild.(tree.Lazy); ok {
		return r.updateFromMap(existing, parent, newIdx, lazy.Resolve())
	}

	if content, ok := textContent(newChild); ok {
		return r.updateText(parent, existing[newIdx], content), nil
	}

	switch c := newChild.(type) {
	case nil, bool:
		return nil, nil
	case tree.UndefinedType:
		return nil, newUndefinedRenderError(parent)
	case tree.Element, tree.Fragment, tree.Portal:
		desc := c.(tree.Description)
		old := existing[mapKeyFor(desc.DescKey(), newIdx)]
		if old != nil {
			if reused := r.reuseIfSameType(parent, old, desc); reused != nil {
				return reused, nil
			}
		}
		return createFromDescription(parent, desc), nil
	case []any:
		return r.updateImplicitFragment(parent, existing[newIdx], c), nil
	case []tree.Description:
		return r.updateImplicitFragment(parent, existing[newIdx], descsToAny(c)), nil
	default:
		return nil, newInvalidChildError(parent, newChild)
	}
}

// createChild fabricates a node for a slot with no old counterpart.
// nil/bool slots produce nothing.
func (r *childReconciler) createChild(parent *tree.Node, newChild any) (*tree.Node, error) {
	if lazy, ok := newChild.(tree.Lazy); ok {
		return r.createChild(parent, lazy.Resolve())
	}

	if content, ok := textContent(newChild); ok {
		return &tree.Node{Tag: tree.TagText, Text: content, Parent: parent}, nil
	}

	switch c := newChild.(type) {
	case nil, bool:
		return nil, nil
	case tree.UndefinedType:
		return nil, newUndefinedRenderError(parent)
	case tree.Element, tree.Fragment, tree.Portal:
		return createFromDescription(parent, c.(tree.Description)), nil
	case []any:
		n := &tree.Node{Tag: tree.TagFragment, Children: c, Parent: parent}
		return n, nil
	case []tree.Description:
		n := &tree.Node{Tag: tree.TagFragment, Children: descsToAny(c), Parent: parent}
		return n, nil
	default:
		return nil, newInvalidChildError(parent, newChild)
	}
}

// updateText reuses an old text node for new content or creates fresh.
func (r *childReconciler) updateText(parent *tree.Node, old *tree.Node, content string) *tree.Node {
	if old == nil || old.Tag != tree.TagText {
		return &tree.Node{Tag: tree.TagText, Text: content, Parent: parent}
	}
	existing := old.Clone(nil, nil)
	existing.Parent = parent
	if r.trackEffects && old.Text != content {
		existing.Flags.Set(tree.FlagUpdate | tree.FlagContentReset)
	}
	existing.Text = content
	return existing
}

// updateImplicitFragment reuses an old keyless fragment for a nested
// sequence or creates one fresh.
func (r *childReconciler) updateImplicitFragment(parent *tree.Node, old *tree.Node, children []any) *tree.Node {
	if old == nil || old.Tag != tree.TagFragment || old.Key != "" {
		n := &tree.Node{Tag: tree.TagFragment, Children: children, Parent: parent}
		return n
	}
	existing := old.Clone(nil, children)
	existing.Parent = parent
	return existing
}

func descsToAny(ds []tree.Description) []any {
	out := make([]any, len(ds))
	for i, d := range ds {
		out[i] = d
	}
	return out
}

// warnOnDuplicateKeys emits a warning-only diagnostic when two slots in
// one sequence carry the same explicit key. The diff still proceeds; the
// second occurrence falls back to positional matching, which usually
// produces surprising reuse.
func (r *childReconciler) warnOnDuplicateKeys(parent *tree.Node, newChildren []any) {
	var seen map[string]bool
	for _, child := range newChildren {
		desc, ok := child.(tree.Description)
		if !ok {
			continue
		}
		key := desc.DescKey()
		if key == "" {
			continue
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		if seen[key] {
			r.ctx.logger().Warn("duplicate key in child sequence; keys must be unique among siblings",
				"key", key,
				"parent_tag", parent.Tag.String(),
				"parent_type", parent.Type)
			continue
		}
		seen[key] = true
	}
}
