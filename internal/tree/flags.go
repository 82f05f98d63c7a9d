package tree

import "strings"

// Flags is a bitset of side effects pending on a work node.
type Flags uint16

const (
	// FlagNone marks a node with no pending effects.
	FlagNone Flags = 0

	// FlagPlacement means the node's persisted representation must be
	// inserted, or moved if it already exists.
	FlagPlacement Flags = 1 << 0

	// FlagUpdate means the node is reused but its data changed in place.
	FlagUpdate Flags = 1 << 1

	// FlagDeletion means the node's persisted representation must be
	// removed and its subtree torn down.
	FlagDeletion Flags = 1 << 2

	// FlagContentReset means a reused text node's content changed.
	FlagContentReset Flags = 1 << 3
)

// Has reports whether any of the given bits are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// Set turns the given bits on.
func (f *Flags) Set(flag Flags) {
	*f |= flag
}

// Clear turns the given bits off.
func (f *Flags) Clear(flag Flags) {
	*f &^= flag
}

// String renders the set bits as a stable "|"-separated list.
// Used by trace output and golden files; keep the order fixed.
func (f Flags) String() string {
	if f == FlagNone {
		return "none"
	}
	var parts []string
	if f.Has(FlagDeletion) {
		parts = append(parts, "deletion")
	}
	if f.Has(FlagPlacement) {
		parts = append(parts, "placement")
	}
	if f.Has(FlagUpdate) {
		parts = append(parts, "update")
	}
	if f.Has(FlagContentReset) {
		parts = append(parts, "content-reset")
	}
	return strings.Join(parts, "|")
}
