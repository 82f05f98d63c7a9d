package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// snapshotMap flattens a result for canonical JSON serialization.
// Everything a golden file captures lives here; adding a field changes
// every golden, so extend deliberately.
func snapshotMap(r *Result) map[string]any {
	effectList := make([]any, len(r.Effects))
	for i, e := range r.Effects {
		effectMap := map[string]any{
			"seq":        e.Seq,
			"op":         e.Op,
			"tag":        e.Tag,
			"node_index": e.NodeIndex,
		}
		if e.Key != "" {
			effectMap["key"] = e.Key
		}
		if e.NodeType != "" {
			effectMap["node_type"] = e.NodeType
		}
		if e.Content != "" {
			effectMap["content"] = e.Content
		}
		effectList[i] = effectMap
	}

	snapshot := map[string]any{
		"scenario": r.Scenario,
		"root":     r.Root,
		"effects":  effectList,
	}
	if r.Token != "" {
		snapshot["token"] = r.Token
	}
	return snapshot
}

// RunWithGolden executes a scenario and compares the mutation trace
// against a golden file at testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Scenarios used with golden comparison should pin pass_token; a random
// token would make the golden unstable.
//
// Returns error if scenario execution fails. Trace mismatch fails the
// test through goldie.
func (h *Harness) RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := h.Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result against the golden
// file named name.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	traceJSON, err := MarshalCanonical(snapshotMap(result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, traceJSON)

	return nil
}
