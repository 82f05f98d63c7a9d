package trace

import (
	"context"
	"testing"
)

func TestRecordPass_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	pass := createTestPass("tok-1", "list")
	effects := createTestEffects("a", "b", "c")

	inserted, err := s.RecordPass(ctx, pass, effects)
	if err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}
	if !inserted {
		t.Error("expected inserted=true for first recording")
	}

	got, gotEffects, err := s.GetPass(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetPass() failed: %v", err)
	}
	if got.Token != "tok-1" || got.Root != "list" {
		t.Errorf("pass = %q/%q, expected tok-1/list", got.Token, got.Root)
	}
	if string(got.Scenario) != string(pass.Scenario) {
		t.Errorf("scenario round-trip mismatch: %q", got.Scenario)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not stamped")
	}

	if len(gotEffects) != 3 {
		t.Fatalf("got %d effects, expected 3", len(gotEffects))
	}
	for i, e := range gotEffects {
		if e.Seq != int64(i) {
			t.Errorf("effect %d: seq = %d", i, e.Seq)
		}
		if e.Key != effects[i].Key || e.Op != effects[i].Op {
			t.Errorf("effect %d: got %s:%s, expected %s:%s", i, e.Op, e.Key, effects[i].Op, effects[i].Key)
		}
	}
}

func TestRecordPass_DuplicateTokenIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	pass := createTestPass("tok-1", "list")

	if _, err := s.RecordPass(ctx, pass, createTestEffects("a", "b")); err != nil {
		t.Fatalf("first RecordPass() failed: %v", err)
	}

	// Second recording with different effects must not replace the first.
	inserted, err := s.RecordPass(ctx, pass, createTestEffects("x"))
	if err != nil {
		t.Fatalf("second RecordPass() failed: %v", err)
	}
	if inserted {
		t.Error("expected inserted=false for duplicate token")
	}

	_, effects, err := s.GetPass(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetPass() failed: %v", err)
	}
	if len(effects) != 2 || effects[0].Key != "a" {
		t.Errorf("original recording was disturbed: %+v", effects)
	}
}

func TestRecordPass_EmptyEffectSequence(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.RecordPass(ctx, createTestPass("tok-empty", "noop"), nil); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	_, effects, err := s.GetPass(ctx, "tok-empty")
	if err != nil {
		t.Fatalf("GetPass() failed: %v", err)
	}
	if len(effects) != 0 {
		t.Errorf("got %d effects, expected 0", len(effects))
	}
}

func TestRecordPass_SeqReassignedFromPosition(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// Caller-provided Seq values are ignored in favor of slice order.
	effects := createTestEffects("a", "b")
	effects[0].Seq = 99
	effects[1].Seq = 42

	if _, err := s.RecordPass(ctx, createTestPass("tok-1", "list"), effects); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	_, got, err := s.GetPass(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetPass() failed: %v", err)
	}
	if got[0].Seq != 0 || got[1].Seq != 1 {
		t.Errorf("seq = [%d, %d], expected [0, 1]", got[0].Seq, got[1].Seq)
	}
	if got[0].Key != "a" || got[1].Key != "b" {
		t.Errorf("order disturbed: [%s, %s]", got[0].Key, got[1].Key)
	}
}
