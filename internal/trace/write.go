package trace

import (
	"context"
	"fmt"
	"time"
)

// RecordPass inserts a pass and its effect sequence in a single
// transaction. Uses ON CONFLICT(token) DO NOTHING for idempotency:
// recording the same token twice leaves the first recording in place and
// returns inserted=false without touching the effects table.
//
// Effects are stored with seq re-assigned from slice position, so the
// caller's ordering is the ordering that persists.
func (s *Store) RecordPass(ctx context.Context, pass Pass, effects []Effect) (inserted bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("record pass: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	createdAt := pass.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO passes (token, root, scenario, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		pass.Token,
		pass.Root,
		pass.Scenario,
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("record pass: insert pass: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record pass: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Token already recorded; keep the original pass intact.
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("record pass: commit (existing): %w", err)
		}
		return false, nil
	}

	for i, e := range effects {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO effects
			(pass_token, seq, op, tag, node_key, node_type, node_index, content)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			pass.Token,
			int64(i),
			e.Op,
			e.Tag,
			e.Key,
			e.NodeType,
			e.NodeIndex,
			e.Content,
		)
		if err != nil {
			return false, fmt.Errorf("record pass: insert effect %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("record pass: commit: %w", err)
	}

	return true, nil
}
