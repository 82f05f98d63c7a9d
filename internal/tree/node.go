package tree

// Tag discriminates work-node variants. Every diff decision point switches
// exhaustively over Tag; a missed variant is a silent behavioral bug, so
// new tags must be added to every switch.
type Tag uint8

const (
	// TagElement is a host element of some Type.
	TagElement Tag = iota + 1
	// TagText is a text node.
	TagText
	// TagFragment is a keyed grouping with no persisted representation.
	TagFragment
	// TagPortal renders into a foreign container.
	TagPortal
)

// String returns the tag name used in traces and golden files.
func (t Tag) String() string {
	switch t {
	case TagElement:
		return "element"
	case TagText:
		return "text"
	case TagFragment:
		return "fragment"
	case TagPortal:
		return "portal"
	default:
		return "unknown"
	}
}

// Node is one position in the output tree during a pending update.
//
// Ownership: Child and Sibling own the forward tree. Parent and Alternate
// are non-owning back-references and must be nulled by Detach when the
// node leaves the tree, since nothing reclaims cycles automatically.
type Node struct {
	Tag  Tag
	Type string // host element type, TagElement only
	Key  string // explicit identity key, "" when keyless

	// Index is the node's position among its siblings in the new list.
	Index int

	Props       map[string]any
	Text        string // TagText only
	ContainerID string // TagPortal only

	// Children carries the raw children description for the next level's
	// reconciliation pass. The diff engine itself never descends into it.
	Children any

	Parent    *Node // return pointer, non-owning
	Child     *Node
	Sibling   *Node
	Alternate *Node // previous-commit counterpart, non-owning; nil = fresh

	Flags Flags

	// Effect list links. FirstEffect/LastEffect live on the parent whose
	// children produced the effects; NextEffect threads the list.
	FirstEffect *Node
	LastEffect  *Node
	NextEffect  *Node
}

// Clone produces a work-in-progress copy of n that reuses its committed
// state. The clone keeps identity (Tag, Type, Key) and the committed child
// pointer, takes the new props and children description, and links back to
// n through Alternate. Index, Sibling and flags start clean; the caller
// places the clone.
func (n *Node) Clone(props map[string]any, children any) *Node {
	return &Node{
		Tag:         n.Tag,
		Type:        n.Type,
		Key:         n.Key,
		Props:       props,
		Text:        n.Text,
		ContainerID: n.ContainerID,
		Children:    children,
		Child:       n.Child,
		Alternate:   n,
	}
}

// Detach nulls every link so the node and the previous tree's portion it
// references can be reclaimed after commit.
func (n *Node) Detach() {
	n.Parent = nil
	n.Child = nil
	n.Sibling = nil
	n.Alternate = nil
	n.FirstEffect = nil
	n.LastEffect = nil
	n.NextEffect = nil
}
