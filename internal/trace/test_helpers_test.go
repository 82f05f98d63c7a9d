package trace

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPass creates a pass with minimal required fields.
func createTestPass(token, root string) Pass {
	return Pass{
		Token:    token,
		Root:     root,
		Scenario: []byte("name: " + root + "\n"),
	}
}

// createTestEffects builds a short placement-only sequence over keys.
func createTestEffects(keys ...string) []Effect {
	effects := make([]Effect, len(keys))
	for i, key := range keys {
		effects[i] = Effect{
			Seq:       int64(i),
			Op:        "placement",
			Tag:       "element",
			Key:       key,
			NodeType:  "item",
			NodeIndex: int64(i),
		}
	}
	return effects
}
