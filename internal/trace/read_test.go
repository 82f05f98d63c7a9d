package trace

import (
	"context"
	"database/sql"
	"testing"
	"time"
)

func TestGetPass_UnknownToken(t *testing.T) {
	s := createTestStore(t)

	_, _, err := s.GetPass(context.Background(), "no-such-token")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestListPasses_EmptyStore(t *testing.T) {
	s := createTestStore(t)

	passes, err := s.ListPasses(context.Background())
	if err != nil {
		t.Fatalf("ListPasses() failed: %v", err)
	}
	if passes == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(passes) != 0 {
		t.Errorf("got %d passes, expected 0", len(passes))
	}
}

func TestListPasses_OrderedByCreationThenToken(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	later := createTestPass("tok-a", "list")
	later.CreatedAt = base.Add(time.Minute)
	if _, err := s.RecordPass(ctx, later, nil); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	// Same timestamp: token breaks the tie.
	for _, token := range []string{"tok-z", "tok-b"} {
		p := createTestPass(token, "list")
		p.CreatedAt = base
		if _, err := s.RecordPass(ctx, p, nil); err != nil {
			t.Fatalf("RecordPass(%s) failed: %v", token, err)
		}
	}

	passes, err := s.ListPasses(ctx)
	if err != nil {
		t.Fatalf("ListPasses() failed: %v", err)
	}

	var tokens []string
	for _, p := range passes {
		tokens = append(tokens, p.Token)
	}
	expected := []string{"tok-b", "tok-z", "tok-a"}
	if len(tokens) != len(expected) {
		t.Fatalf("got %d passes, expected %d", len(tokens), len(expected))
	}
	for i := range expected {
		if tokens[i] != expected[i] {
			t.Errorf("position %d: got %s, expected %s", i, tokens[i], expected[i])
		}
	}
}

func TestGetPass_CreatedAtRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	stamp := time.Date(2026, 3, 1, 12, 30, 45, 123456789, time.UTC)
	pass := createTestPass("tok-1", "list")
	pass.CreatedAt = stamp

	if _, err := s.RecordPass(ctx, pass, nil); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	got, _, err := s.GetPass(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetPass() failed: %v", err)
	}
	if !got.CreatedAt.Equal(stamp) {
		t.Errorf("CreatedAt = %v, expected %v", got.CreatedAt, stamp)
	}
}
