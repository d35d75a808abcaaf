package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/matseq/internal/domain"
)

// MovementsByTier returns the catalogue at or below the given difficulty in
// catalogue order. This is the engine's bulk read; the sequencer never touches
// the database again during construction.
func (db *DB) MovementsByTier(ctx context.Context, maxTier domain.Difficulty) ([]domain.Movement, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, difficulty, position, family, muscle_groups, duration_sec
		 FROM movements
		 WHERE difficulty <= $1
		 ORDER BY sort_order, id`,
		int(maxTier))
	if err != nil {
		return nil, fmt.Errorf("querying movements: %w", err)
	}
	defer rows.Close()

	var out []domain.Movement
	for rows.Next() {
		var (
			m          domain.Movement
			difficulty int
			position   string
			groups     []string
		)
		if err := rows.Scan(&m.ID, &m.Name, &difficulty, &position, &m.Family, &groups, &m.DurationSec); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		m.Difficulty = domain.Difficulty(difficulty)
		m.Position = domain.Position(position)
		m.MuscleGroups = domain.NewMuscleSet(groups...)
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpsertMovement inserts or updates a catalogue movement. Returns true when a
// new row was created.
func (db *DB) UpsertMovement(ctx context.Context, m domain.Movement, sortOrder int) (bool, error) {
	if err := m.Validate(); err != nil {
		return false, err
	}
	var inserted bool
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO movements (id, name, difficulty, position, family, muscle_groups, duration_sec, sort_order)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			difficulty = EXCLUDED.difficulty,
			position = EXCLUDED.position,
			family = EXCLUDED.family,
			muscle_groups = EXCLUDED.muscle_groups,
			duration_sec = EXCLUDED.duration_sec,
			sort_order = EXCLUDED.sort_order,
			updated_at = NOW()
		 RETURNING (xmax = 0)`,
		m.ID, m.Name, int(m.Difficulty), string(m.Position), m.Family,
		m.MuscleGroups.Slice(), m.DurationSec, sortOrder).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("upserting movement %s: %w", m.ID, err)
	}
	return inserted, nil
}
