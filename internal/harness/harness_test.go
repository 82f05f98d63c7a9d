package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomkit/loom/internal/trace"
)

func TestHarness_Run_MountOnly(t *testing.T) {
	h := New(WithTokenGenerator(NewFixedGenerator("tok-1")))

	result, err := h.Run(&Scenario{
		Name:        "mount-only",
		Description: "empty before, update inserts everything",
		After: []ChildSpec{
			{Key: "a", Type: "item"},
			{Key: "b", Type: "item"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "tok-1", result.Token)
	assert.Equal(t, "root", result.Root)

	require.Len(t, result.Effects, 2)
	for i, e := range result.Effects {
		assert.Equal(t, int64(i), e.Seq)
		assert.Equal(t, "placement", e.Op)
	}
	assert.Equal(t, "a", result.Effects[0].Key)
	assert.Equal(t, "b", result.Effects[1].Key)
}

func TestHarness_Run_PinnedTokenWins(t *testing.T) {
	h := New(WithTokenGenerator(NewFixedGenerator("unused")))

	result, err := h.Run(&Scenario{
		Name:        "pinned",
		Description: "scenario token takes precedence",
		PassToken:   "pass-fixed",
		After:       []ChildSpec{{Key: "a", Type: "item"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pass-fixed", result.Token)
}

func TestHarness_Run_NestedEffectsFollowParents(t *testing.T) {
	h := New()

	old := "old"
	updated := "new"
	result, err := h.Run(&Scenario{
		Name:        "nested",
		Description: "parent effects precede child effects",
		Before: []ChildSpec{
			{Key: "p", Type: "panel", Children: []ChildSpec{{Text: &old}}},
			{Key: "q", Type: "panel"},
		},
		After: []ChildSpec{
			{Key: "p", Type: "panel", Children: []ChildSpec{{Text: &updated}}},
		},
	})
	require.NoError(t, err)

	// Root level: q deleted. One level down: text updated.
	require.Len(t, result.Effects, 2)
	assert.Equal(t, "deletion", result.Effects[0].Op)
	assert.Equal(t, "q", result.Effects[0].Key)
	assert.Equal(t, "update|content-reset", result.Effects[1].Op)
	assert.Equal(t, "new", result.Effects[1].Content)
	assert.Equal(t, int64(1), result.Effects[1].Seq, "flat trace renumbers across parents")
}

func TestHarness_Run_FreshSubtreeMountsSilently(t *testing.T) {
	h := New()

	label := "hi"
	result, err := h.Run(&Scenario{
		Name:        "fresh-subtree",
		Description: "a new subtree contributes only its own placement",
		Before:      []ChildSpec{{Key: "a", Type: "item"}},
		After: []ChildSpec{
			{Key: "a", Type: "item"},
			{Key: "p", Type: "panel", Children: []ChildSpec{{Text: &label}}},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Effects, 1, "the nested text mounts without its own effect")
	assert.Equal(t, "placement", result.Effects[0].Op)
	assert.Equal(t, "p", result.Effects[0].Key)
}

func TestHarness_Run_DuplicateKeysDoNotFail(t *testing.T) {
	h := New()

	_, err := h.Run(&Scenario{
		Name:        "dup-keys",
		Description: "duplicate keys warn but do not fail",
		After: []ChildSpec{
			{Key: "a", Type: "item"},
			{Key: "a", Type: "item"},
		},
	})
	require.NoError(t, err)
}

func TestHarness_RunnerRoundTripThroughStore(t *testing.T) {
	h := New()

	raw, err := os.ReadFile(filepath.Join("testdata", "scenarios", "reorder-running-max.yaml"))
	require.NoError(t, err)

	s, err := ParseScenario(raw)
	require.NoError(t, err)

	result, err := h.Run(s)
	require.NoError(t, err)

	store, err := trace.Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	inserted, err := store.RecordPass(ctx, trace.Pass{
		Token:    result.Token,
		Root:     result.Root,
		Scenario: raw,
	}, result.Effects)
	require.NoError(t, err)
	require.True(t, inserted)

	divergences, err := store.ReplayAll(ctx, h.Runner())
	require.NoError(t, err)
	assert.Empty(t, divergences, "a re-run of the same scenario reproduces the trace")
}
