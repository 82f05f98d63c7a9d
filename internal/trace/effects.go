package trace

import (
	"time"

	"github.com/loomkit/loom/internal/tree"
)

// Pass is one recorded reconcile pass: the scenario that produced it and
// the token that identifies it.
type Pass struct {
	// Token uniquely identifies the pass. Produced by a TokenGenerator;
	// UUIDv7 in production, fixed in tests.
	Token string `json:"token"`

	// Root names the root element type the pass was run against.
	Root string `json:"root"`

	// Scenario is the raw scenario document (YAML) the pass executed.
	// Stored verbatim so replay can re-run it byte for byte.
	Scenario []byte `json:"-"`

	// CreatedAt is the wall-clock record time. Informational only; pass
	// ordering and replay never depend on it.
	CreatedAt time.Time `json:"created_at"`
}

// Effect is one entry of a pass's ordered mutation sequence.
type Effect struct {
	// Seq is the position within the pass, starting at 0.
	Seq int64 `json:"seq"`

	// Op names the flags the node carried, e.g. "placement" or
	// "update|content-reset".
	Op string `json:"op"`

	// Tag is the node kind ("element", "text", "fragment", "portal").
	Tag string `json:"tag"`

	// Key is the node's explicit identity key, empty when keyless.
	Key string `json:"key"`

	// NodeType is the element type name; empty for non-elements.
	NodeType string `json:"node_type"`

	// NodeIndex is the node's slot position under its parent.
	NodeIndex int64 `json:"node_index"`

	// Content is the text payload for text nodes.
	Content string `json:"content"`
}

// EffectsOf flattens a parent's effect list into records, preserving
// list order.
func EffectsOf(parent *tree.Node) []Effect {
	list := parent.EffectList()
	effects := make([]Effect, 0, len(list))
	for i, n := range list {
		effects = append(effects, Effect{
			Seq:       int64(i),
			Op:        n.Flags.String(),
			Tag:       n.Tag.String(),
			Key:       n.Key,
			NodeType:  n.Type,
			NodeIndex: int64(n.Index),
			Content:   n.Text,
		})
	}
	return effects
}
