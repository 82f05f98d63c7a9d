package trace

import (
	"context"
	"errors"
	"testing"
)

// echoRunner replays by returning a canned sequence per scenario body.
func echoRunner(results map[string][]Effect) Runner {
	return func(scenario []byte) ([]Effect, error) {
		return results[string(scenario)], nil
	}
}

func TestReplayAll_AllPassesReproduce(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	pass := createTestPass("tok-1", "list")
	effects := createTestEffects("a", "b")
	if _, err := s.RecordPass(ctx, pass, effects); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	divergences, err := s.ReplayAll(ctx, echoRunner(map[string][]Effect{
		string(pass.Scenario): effects,
	}))
	if err != nil {
		t.Fatalf("ReplayAll() failed: %v", err)
	}
	if len(divergences) != 0 {
		t.Errorf("expected no divergences, got %v", divergences)
	}
}

func TestReplayAll_ReportsFirstDisagreement(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	pass := createTestPass("tok-1", "list")
	if _, err := s.RecordPass(ctx, pass, createTestEffects("a", "b", "c")); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	fresh := createTestEffects("a", "x", "c")
	divergences, err := s.ReplayAll(ctx, echoRunner(map[string][]Effect{
		string(pass.Scenario): fresh,
	}))
	if err != nil {
		t.Fatalf("ReplayAll() failed: %v", err)
	}

	if len(divergences) != 1 {
		t.Fatalf("got %d divergences, expected 1", len(divergences))
	}
	d := divergences[0]
	if d.Token != "tok-1" || d.Seq != 1 {
		t.Errorf("divergence at %s seq %d, expected tok-1 seq 1", d.Token, d.Seq)
	}
	if d.Stored == nil || d.Stored.Key != "b" {
		t.Errorf("stored side = %+v, expected key b", d.Stored)
	}
	if d.Fresh == nil || d.Fresh.Key != "x" {
		t.Errorf("fresh side = %+v, expected key x", d.Fresh)
	}
}

func TestReplayAll_LengthMismatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	pass := createTestPass("tok-1", "list")
	if _, err := s.RecordPass(ctx, pass, createTestEffects("a", "b")); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	divergences, err := s.ReplayAll(ctx, echoRunner(map[string][]Effect{
		string(pass.Scenario): createTestEffects("a"),
	}))
	if err != nil {
		t.Fatalf("ReplayAll() failed: %v", err)
	}

	if len(divergences) != 1 {
		t.Fatalf("got %d divergences, expected 1", len(divergences))
	}
	d := divergences[0]
	if d.Seq != 1 {
		t.Errorf("divergence seq = %d, expected 1", d.Seq)
	}
	if d.Stored == nil || d.Fresh != nil {
		t.Errorf("expected stored-only divergence, got stored=%v fresh=%v", d.Stored, d.Fresh)
	}
}

func TestReplayAll_SeqValuesDoNotMatter(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	pass := createTestPass("tok-1", "list")
	if _, err := s.RecordPass(ctx, pass, createTestEffects("a", "b")); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	// A fresh run carries no persisted seq; comparison is positional.
	fresh := createTestEffects("a", "b")
	fresh[0].Seq = 77
	fresh[1].Seq = 78

	divergences, err := s.ReplayAll(ctx, echoRunner(map[string][]Effect{
		string(pass.Scenario): fresh,
	}))
	if err != nil {
		t.Fatalf("ReplayAll() failed: %v", err)
	}
	if len(divergences) != 0 {
		t.Errorf("expected no divergences, got %v", divergences)
	}
}

func TestReplayAll_RunnerErrorAborts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.RecordPass(ctx, createTestPass("tok-1", "list"), nil); err != nil {
		t.Fatalf("RecordPass() failed: %v", err)
	}

	wantErr := errors.New("scenario rejected")
	_, err := s.ReplayAll(ctx, func([]byte) ([]Effect, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected runner error to propagate, got %v", err)
	}
}
