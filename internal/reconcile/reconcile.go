package reconcile

import (
	"iter"

	"github.com/loomkit/loom/internal/tree"
)

// Reconcile diffs the committed sibling list headed by currentFirst
// against newChild and returns the head of the new sibling list. Tracking
// variant: deletions and placements are recorded on parent's effect list.
//
// Every produced node has its Parent pointer set, its Index assigned by
// position and its flags set appropriately. currentFirst may be nil.
func Reconcile(parent *tree.Node, currentFirst *tree.Node, newChild any, ctx *Context) (*tree.Node, error) {
	r := &childReconciler{trackEffects: true, ctx: ctx}
	return r.reconcile(parent, currentFirst, newChild)
}

// Mount constructs the sibling list for a subtree's first render. Same
// matching logic as Reconcile but records no side effects: in a brand-new
// subtree everything is inserted at once, so per-node placement flags
// would be noise.
func Mount(parent *tree.Node, currentFirst *tree.Node, newChild any, ctx *Context) (*tree.Node, error) {
	r := &childReconciler{trackEffects: false, ctx: ctx}
	return r.reconcile(parent, currentFirst, newChild)
}

// childReconciler parameterizes the shared matching logic over whether
// side effects are tracked.
type childReconciler struct {
	trackEffects bool
	ctx          *Context
}

// reconcile dispatches on the shape of newChild.
func (r *childReconciler) reconcile(parent *tree.Node, currentFirst *tree.Node, newChild any) (*tree.Node, error) {
	// A keyless fragment at the top level is transparent: reconcile its
	// children as if they were given directly.
	if frag, ok := newChild.(tree.Fragment); ok && frag.Key == "" {
		newChild = frag.Children
	}

	if content, ok := textContent(newChild); ok {
		n, err := r.reconcileSingleText(parent, currentFirst, content)
		if err != nil {
			return nil, err
		}
		return r.placeSingleChild(parent, n), nil
	}

	switch c := newChild.(type) {
	case nil:
		// Explicit empty render: delete the entire existing run.
		r.deleteRemainingChildren(parent, currentFirst)
		return nil, nil
	case bool:
		// Booleans render nothing, same as nil.
		r.deleteRemainingChildren(parent, currentFirst)
		return nil, nil
	case tree.UndefinedType:
		return nil, newUndefinedRenderError(parent)
	case tree.Lazy:
		// Resolve once per visit, then re-dispatch on the payload (which
		// may itself be a slice, text or another wrapper).
		return r.reconcile(parent, currentFirst, c.Resolve())
	case tree.Element, tree.Fragment, tree.Portal:
		n, err := r.reconcileSingle(parent, currentFirst, c.(tree.Description))
		if err != nil {
			return nil, err
		}
		return r.placeSingleChild(parent, n), nil
	case []any:
		return r.reconcileSlice(parent, currentFirst, c)
	case []tree.Description:
		generic := make([]any, len(c))
		for i, d := range c {
			generic[i] = d
		}
		return r.reconcileSlice(parent, currentFirst, generic)
	case iter.Seq[any]:
		var collected []any
		for v := range c {
			collected = append(collected, v)
		}
		return r.reconcileSlice(parent, currentFirst, collected)
	default:
		return nil, newInvalidChildError(parent, newChild)
	}
}

// reconcileSingle matches one description against the old sibling run,
// scanning in order by key. The first key match wins: type also matching
// means reuse (and the rest of the run is deleted); a type mismatch means
// the matched node and everything after it is deleted and a fresh node is
// created. Non-matching keys before the match are deleted as passed.
func (r *childReconciler) reconcileSingle(parent *tree.Node, currentFirst *tree.Node, desc tree.Description) (*tree.Node, error) {
	key := desc.DescKey()

	for child := currentFirst; child != nil; child = child.Sibling {
		if child.Key != key {
			r.deleteChild(parent, child)
			continue
		}
		if reused := r.reuseIfSameType(parent, child, desc); reused != nil {
			r.deleteRemainingChildren(parent, child.Sibling)
			return reused, nil
		}
		// Key matched but the concrete type changed: nothing below this
		// point can be reused.
		r.deleteRemainingChildren(parent, child)
		break
	}

	return createFromDescription(parent, desc), nil
}

// reuseIfSameType clones old for desc when their concrete types agree,
// returning nil otherwise. Update detection for reused nodes lives here.
func (r *childReconciler) reuseIfSameType(parent *tree.Node, old *tree.Node, desc tree.Description) *tree.Node {
	switch d := desc.(type) {
	case tree.Element:
		if old.Tag != tree.TagElement || old.Type != d.Type {
			return nil
		}
		existing := old.Clone(d.Props, d.Children)
		existing.Parent = parent
		if r.trackEffects && !shallowEqualProps(old.Props, d.Props) {
			existing.Flags.Set(tree.FlagUpdate)
		}
		return existing
	case tree.Fragment:
		if old.Tag != tree.TagFragment {
			return nil
		}
		existing := old.Clone(nil, d.Children)
		existing.Parent = parent
		return existing
	case tree.Portal:
		// A portal only reuses when it targets the same container.
		if old.Tag != tree.TagPortal || old.ContainerID != d.ContainerID {
			return nil
		}
		existing := old.Clone(nil, d.Children)
		existing.Parent = parent
		return existing
	default:
		return nil
	}
}

// reconcileSingleText reuses the old head only when it is already a text
// node; any other old run is discarded wholesale.
func (r *childReconciler) reconcileSingleText(parent *tree.Node, currentFirst *tree.Node, content string) (*tree.Node, error) {
	if currentFirst != nil && currentFirst.Tag == tree.TagText {
		r.deleteRemainingChildren(parent, currentFirst.Sibling)
		existing := currentFirst.Clone(nil, nil)
		existing.Parent = parent
		if r.trackEffects && currentFirst.Text != content {
			existing.Flags.Set(tree.FlagUpdate | tree.FlagContentReset)
		}
		existing.Text = content
		return existing, nil
	}
	r.deleteRemainingChildren(parent, currentFirst)
	n := &tree.Node{Tag: tree.TagText, Text: content, Parent: parent}
	return n, nil
}

// placeSingleChild flags a fresh single child for insertion and records
// the node on the effect list when it carries any effect.
func (r *childReconciler) placeSingleChild(parent *tree.Node, n *tree.Node) *tree.Node {
	if !r.trackEffects {
		return n
	}
	if n.Alternate == nil {
		n.Flags.Set(tree.FlagPlacement)
	}
	if n.Flags != tree.FlagNone {
		parent.AppendEffect(n)
	}
	return n
}

// deleteChild flags one old node for deletion and appends it to the
// parent's effect list immediately, so deletions precede the placements
// recorded later in the same pass. Non-tracking mode drops the node
// silently.
func (r *childReconciler) deleteChild(parent *tree.Node, child *tree.Node) {
	if !r.trackEffects {
		return
	}
	child.Flags.Set(tree.FlagDeletion)
	parent.AppendEffect(child)
}

// deleteRemainingChildren flags an entire old sibling run for deletion.
func (r *childReconciler) deleteRemainingChildren(parent *tree.Node, first *tree.Node) {
	if !r.trackEffects {
		return
	}
	for child := first; child != nil; child = child.Sibling {
		r.deleteChild(parent, child)
	}
}
