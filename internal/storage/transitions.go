package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/transitions"
)

// TransitionOverrides returns catalogue-supplied transition narratives, which
// take precedence over the built-in library.
func (db *DB) TransitionOverrides(ctx context.Context) ([]transitions.Narrative, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT from_position, to_position, narrative FROM transition_narratives`)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	var out []transitions.Narrative
	for rows.Next() {
		var from, to, text string
		if err := rows.Scan(&from, &to, &text); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		out = append(out, transitions.Narrative{
			From: domain.Position(from),
			To:   domain.Position(to),
			Text: text,
		})
	}
	return out, rows.Err()
}

// UpsertTransition stores a transition narrative override.
func (db *DB) UpsertTransition(ctx context.Context, n transitions.Narrative) error {
	if !n.From.Valid() || !n.To.Valid() || n.Text == "" {
		return fmt.Errorf("invalid transition %s -> %s", n.From, n.To)
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO transition_narratives (from_position, to_position, narrative)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (from_position, to_position) DO UPDATE SET narrative = EXCLUDED.narrative`,
		string(n.From), string(n.To), n.Text)
	if err != nil {
		return fmt.Errorf("upserting transition %s -> %s: %w", n.From, n.To, err)
	}
	return nil
}
