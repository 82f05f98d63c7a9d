package tree

// DescKind discriminates description variants.
type DescKind uint8

const (
	// KindText is plain text content.
	KindText DescKind = iota + 1
	// KindElement is an element of some host type.
	KindElement
	// KindFragment is a keyed grouping with no persisted node of its own.
	KindFragment
	// KindPortal renders its children into a different container.
	KindPortal
	// KindLazy defers to a payload resolved on first use.
	KindLazy
)

// Description is the closed set of child descriptions the reconciler
// understands. Implementations: Text, Element, Fragment, Portal, Lazy.
//
// The reconciler additionally accepts raw strings and numbers (coerced to
// Text), nil and booleans (render nothing), slices, and iter.Seq values.
// Anything else is a contract violation.
type Description interface {
	Kind() DescKind
	// DescKey returns the explicit identity key, or "" when keyless.
	DescKey() string
}

// Text describes a text node.
type Text string

// Kind implements Description.
func (Text) Kind() DescKind { return KindText }

// DescKey implements Description. Text is always keyless.
func (Text) DescKey() string { return "" }

// Element describes an element of host type Type.
type Element struct {
	Type     string
	Key      string
	Props    map[string]any
	Children any
}

// Kind implements Description.
func (Element) Kind() DescKind { return KindElement }

// DescKey implements Description.
func (e Element) DescKey() string { return e.Key }

// Fragment groups children without producing a persisted node.
type Fragment struct {
	Key      string
	Children any
}

// Kind implements Description.
func (Fragment) Kind() DescKind { return KindFragment }

// DescKey implements Description.
func (f Fragment) DescKey() string { return f.Key }

// Portal renders children into the container named by ContainerID instead
// of the position it occupies in the logical tree.
type Portal struct {
	Key         string
	ContainerID string
	Children    any
}

// Kind implements Description.
func (Portal) Kind() DescKind { return KindPortal }

// DescKey implements Description.
func (p Portal) DescKey() string { return p.Key }

// Lazy defers its payload until the reconciler first needs it.
// Resolve is called at most once per diff in which the node is visited.
type Lazy struct {
	Key     string
	Resolve func() any
}

// Kind implements Description.
func (Lazy) Kind() DescKind { return KindLazy }

// DescKey implements Description.
func (l Lazy) DescKey() string { return l.Key }

// UndefinedType is the type of the Undefined sentinel.
type UndefinedType struct{}

// Undefined marks the "forgot to return" case: a component-defining
// position that yielded no result at all, as opposed to an explicit empty
// render (nil). Reconciling Undefined is a fatal contract violation.
var Undefined UndefinedType
