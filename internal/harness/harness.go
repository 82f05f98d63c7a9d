package harness

import (
	"fmt"
	"log/slog"

	"github.com/loomkit/loom/internal/reconcile"
	"github.com/loomkit/loom/internal/trace"
	"github.com/loomkit/loom/internal/tree"
)

// Harness runs scenarios against the diff engine.
//
// Thread-safety: a Harness is immutable after construction and safe for
// concurrent Run calls; each run builds its own trees.
type Harness struct {
	logger *slog.Logger
	tokens TokenGenerator
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger routes reconciler diagnostics (duplicate keys) to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithTokenGenerator replaces the pass token source. Tests use
// FixedGenerator for deterministic traces.
func WithTokenGenerator(gen TokenGenerator) Option {
	return func(h *Harness) { h.tokens = gen }
}

// New creates a Harness. Defaults: discard logger, UUIDv7 tokens.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.DiscardHandler),
		tokens: UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Result is the outcome of one scenario run.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Token identifies this pass.
	Token string `json:"token"`

	// Root is the root element type the pass ran against.
	Root string `json:"root"`

	// Effects is the full mutation trace in traversal order: each
	// parent's effect list, parents visited root-first.
	Effects []trace.Effect `json:"effects"`
}

// Run executes a scenario: mount Before, diff After against it, collect
// the mutation trace.
func (h *Harness) Run(s *Scenario) (*Result, error) {
	rootType := s.Root
	if rootType == "" {
		rootType = "root"
	}

	root := &tree.Node{Tag: tree.TagElement, Type: rootType}
	rctx := &reconcile.Context{Logger: h.logger}

	if err := h.mountTree(root, buildChildren(s.Before), rctx); err != nil {
		return nil, fmt.Errorf("scenario %s: mount before-tree: %w", s.Name, err)
	}

	var effects []trace.Effect
	if err := h.updateTree(root, buildChildren(s.After), rctx, &effects); err != nil {
		return nil, fmt.Errorf("scenario %s: update pass: %w", s.Name, err)
	}

	// Each parent's effect list numbers from zero; the flat trace is
	// renumbered so seq is unique across the whole pass.
	for i := range effects {
		effects[i].Seq = int64(i)
	}

	token := s.PassToken
	if token == "" {
		token = h.tokens.Generate()
	}

	return &Result{
		Scenario: s.Name,
		Token:    token,
		Root:     rootType,
		Effects:  effects,
	}, nil
}

// Runner adapts the harness for trace.Store.ReplayAll: parse the stored
// scenario blob, run it, hand back the fresh effect sequence.
func (h *Harness) Runner() trace.Runner {
	return func(data []byte) ([]trace.Effect, error) {
		s, err := ParseScenario(data)
		if err != nil {
			return nil, err
		}
		r, err := h.Run(s)
		if err != nil {
			return nil, err
		}
		return r.Effects, nil
	}
}

// mountTree builds parent's subtree level by level without effect
// tracking: a brand-new subtree is inserted wholesale by its parent's
// placement, so per-node flags would be noise.
func (h *Harness) mountTree(parent *tree.Node, children any, rctx *reconcile.Context) error {
	first, err := reconcile.Mount(parent, nil, children, rctx)
	if err != nil {
		return err
	}
	parent.Child = first

	for c := first; c != nil; c = c.Sibling {
		if c.Tag == tree.TagText || c.Children == nil {
			continue
		}
		if err := h.mountTree(c, c.Children, rctx); err != nil {
			return err
		}
	}
	return nil
}

// updateTree applies one update level and descends. Reused children
// carry their committed Child pointer, so each level diffs the new
// children description against the previously committed list. Fresh
// children mount their subtrees without tracking; their insertion is
// already covered by their own placement.
//
// Effects collect in traversal order, parent before children, which
// makes the flat trace deterministic for a given scenario.
func (h *Harness) updateTree(parent *tree.Node, children any, rctx *reconcile.Context, out *[]trace.Effect) error {
	first, err := reconcile.Reconcile(parent, parent.Child, children, rctx)
	if err != nil {
		return err
	}
	parent.Child = first
	*out = append(*out, trace.EffectsOf(parent)...)

	for c := first; c != nil; c = c.Sibling {
		if c.Tag == tree.TagText {
			continue
		}
		if c.Alternate == nil {
			if c.Children != nil {
				if err := h.mountTree(c, c.Children, rctx); err != nil {
					return err
				}
			}
			continue
		}
		if c.Children != nil || c.Child != nil {
			if err := h.updateTree(c, c.Children, rctx, out); err != nil {
				return err
			}
		}
	}
	return nil
}
