package harness

import (
	"fmt"

	"github.com/loomkit/loom/internal/trace"
)

// CheckExpectations compares a result's mutation trace against the
// scenario's Expect list. The comparison is exact and ordered: every
// expected op must appear at its position and no extra effects may
// remain. Returns one message per discrepancy; empty means the trace
// matched.
//
// Scenarios without an Expect list always pass; they rely on golden
// comparison instead.
func CheckExpectations(s *Scenario, r *Result) []string {
	if len(s.Expect) == 0 {
		return nil
	}

	var errs []string
	for i, want := range s.Expect {
		if i >= len(r.Effects) {
			errs = append(errs, fmt.Sprintf(
				"expect[%d]: wanted %s, but trace ended after %d effects",
				i, describeExpected(want), len(r.Effects)))
			continue
		}
		got := r.Effects[i]
		if !expectedMatches(want, got) {
			errs = append(errs, fmt.Sprintf(
				"expect[%d]: wanted %s, got %s",
				i, describeExpected(want), describeEffect(got)))
		}
	}

	for i := len(s.Expect); i < len(r.Effects); i++ {
		errs = append(errs, fmt.Sprintf(
			"unexpected trailing effect at %d: %s", i, describeEffect(r.Effects[i])))
	}

	return errs
}

func expectedMatches(want ExpectedOp, got trace.Effect) bool {
	if want.Op != got.Op {
		return false
	}
	if want.Key != "" && want.Key != got.Key {
		return false
	}
	if want.Content != "" && want.Content != got.Content {
		return false
	}
	return true
}

func describeExpected(op ExpectedOp) string {
	if op.Content != "" {
		return fmt.Sprintf("%s %q", op.Op, op.Content)
	}
	return fmt.Sprintf("%s key=%q", op.Op, op.Key)
}

func describeEffect(e trace.Effect) string {
	if e.Tag == "text" {
		return fmt.Sprintf("%s %q", e.Op, e.Content)
	}
	return fmt.Sprintf("%s key=%q", e.Op, e.Key)
}
