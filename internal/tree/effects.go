package tree

// AppendEffect adds child to n's side-effect list in O(1).
//
// Insertion order is significant: the commit phase executes effects in
// list order, and the diff engine appends deletions as soon as they are
// identified so they precede placements recorded later in the same pass.
func (n *Node) AppendEffect(child *Node) {
	child.NextEffect = nil
	if n.FirstEffect == nil {
		n.FirstEffect = child
	} else {
		n.LastEffect.NextEffect = child
	}
	n.LastEffect = child
}

// EffectList returns the effect list in order. Intended for the commit
// phase, tracing and tests; the list itself stays linked.
func (n *Node) EffectList() []*Node {
	var out []*Node
	for e := n.FirstEffect; e != nil; e = e.NextEffect {
		out = append(out, e)
	}
	return out
}
