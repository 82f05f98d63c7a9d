package trace

import (
	"context"
	"fmt"
)

// Runner re-executes a recorded scenario document and returns the effect
// sequence it produces now. The harness supplies the production
// implementation; tests may substitute anything.
type Runner func(scenario []byte) ([]Effect, error)

// Divergence reports the first point where a replayed pass disagreed
// with its recording.
type Divergence struct {
	// Token identifies the diverging pass.
	Token string

	// Seq is the first disagreeing position, or the length of the
	// shorter sequence when one side ran out.
	Seq int64

	// Stored and Fresh are the disagreeing entries. Either may be nil
	// when the sequences have different lengths.
	Stored *Effect
	Fresh  *Effect

	// Reason is a human-readable summary.
	Reason string
}

func (d Divergence) String() string {
	return fmt.Sprintf("pass %s diverged at seq %d: %s", d.Token, d.Seq, d.Reason)
}

// ReplayAll re-runs every recorded pass through run and compares the
// fresh effect sequence against the stored one. Returns one Divergence
// per diverging pass (first disagreement only); an empty slice means
// every pass reproduced exactly.
//
// A scenario that fails to run at all is an error, not a divergence.
func (s *Store) ReplayAll(ctx context.Context, run Runner) ([]Divergence, error) {
	passes, err := s.ListPasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	divergences := []Divergence{}
	for _, pass := range passes {
		stored, err := s.readEffects(ctx, pass.Token)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", pass.Token, err)
		}

		fresh, err := run(pass.Scenario)
		if err != nil {
			return nil, fmt.Errorf("replay %s: run scenario: %w", pass.Token, err)
		}

		if d, ok := diffEffects(pass.Token, stored, fresh); ok {
			divergences = append(divergences, d)
		}
	}

	return divergences, nil
}

// diffEffects finds the first disagreement between two effect sequences.
func diffEffects(token string, stored, fresh []Effect) (Divergence, bool) {
	n := len(stored)
	if len(fresh) < n {
		n = len(fresh)
	}

	for i := 0; i < n; i++ {
		if !effectsEqual(stored[i], fresh[i]) {
			s, f := stored[i], fresh[i]
			return Divergence{
				Token:  token,
				Seq:    int64(i),
				Stored: &s,
				Fresh:  &f,
				Reason: fmt.Sprintf("stored %s %s key=%q, fresh %s %s key=%q",
					s.Op, s.Tag, s.Key, f.Op, f.Tag, f.Key),
			}, true
		}
	}

	if len(stored) != len(fresh) {
		d := Divergence{
			Token:  token,
			Seq:    int64(n),
			Reason: fmt.Sprintf("stored %d effects, fresh run produced %d", len(stored), len(fresh)),
		}
		if n < len(stored) {
			s := stored[n]
			d.Stored = &s
		} else {
			f := fresh[n]
			d.Fresh = &f
		}
		return d, true
	}

	return Divergence{}, false
}

// effectsEqual ignores Seq: position is compared by slice index, and
// fresh runs have no persisted seq of their own.
func effectsEqual(a, b Effect) bool {
	return a.Op == b.Op &&
		a.Tag == b.Tag &&
		a.Key == b.Key &&
		a.NodeType == b.NodeType &&
		a.NodeIndex == b.NodeIndex &&
		a.Content == b.Content
}
