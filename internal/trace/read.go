package trace

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ListPasses returns every recorded pass, oldest first. Ties on
// created_at break on token so the ordering is deterministic.
//
// Returns an empty slice (not nil) when no passes are recorded.
func (s *Store) ListPasses(ctx context.Context) ([]Pass, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, root, scenario, created_at
		FROM passes
		ORDER BY created_at ASC, token COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	passes := []Pass{}
	for rows.Next() {
		pass, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate passes: %w", err)
	}

	return passes, nil
}

// GetPass retrieves one pass and its effect sequence by token.
// Returns sql.ErrNoRows when the token is unknown.
func (s *Store) GetPass(ctx context.Context, token string) (Pass, []Effect, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT token, root, scenario, created_at
		FROM passes
		WHERE token = ?
	`, token)

	pass, err := scanPass(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Pass{}, nil, err
		}
		return Pass{}, nil, fmt.Errorf("get pass %s: %w", token, err)
	}

	effects, err := s.readEffects(ctx, token)
	if err != nil {
		return Pass{}, nil, err
	}

	return pass, effects, nil
}

// readEffects returns a pass's effect sequence in recorded order.
func (s *Store) readEffects(ctx context.Context, token string) ([]Effect, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, op, tag, node_key, node_type, node_index, content
		FROM effects
		WHERE pass_token = ?
		ORDER BY seq ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("query effects: %w", err)
	}
	defer rows.Close()

	effects := []Effect{}
	for rows.Next() {
		var e Effect
		if err := rows.Scan(&e.Seq, &e.Op, &e.Tag, &e.Key, &e.NodeType, &e.NodeIndex, &e.Content); err != nil {
			return nil, fmt.Errorf("scan effect: %w", err)
		}
		effects = append(effects, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate effects: %w", err)
	}

	return effects, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

func scanPass(sc scanner) (Pass, error) {
	var pass Pass
	var createdAt string
	if err := sc.Scan(&pass.Token, &pass.Root, &pass.Scenario, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return Pass{}, err
		}
		return Pass{}, fmt.Errorf("scan pass: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Pass{}, fmt.Errorf("scan pass: parse created_at %q: %w", createdAt, err)
	}
	pass.CreatedAt = ts

	return pass, nil
}
