package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/matseq/internal/domain"
)

// SequenceLogEntry is an audit record of one generated sequence. The core
// itself is stateless; this log belongs to the API layer.
type SequenceLogEntry struct {
	ID                uuid.UUID             `json:"id"`
	UserID            int                   `json:"user_id"`
	Difficulty        domain.Difficulty     `json:"difficulty"`
	TargetDurationSec int                   `json:"target_duration_sec"`
	UnderDuration     bool                  `json:"under_duration"`
	Score             int                   `json:"score"`
	Items             []domain.SequenceItem `json:"items"`
	CreatedAt         time.Time             `json:"created_at"`
}

// InsertSequenceLog stores an audit record for a generated sequence.
func (db *DB) InsertSequenceLog(ctx context.Context, req domain.GenerateRequest, res *domain.GenerateResult) error {
	items, err := json.Marshal(res.Sequence)
	if err != nil {
		return fmt.Errorf("marshaling sequence items: %w", err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO sequence_log (id, user_id, difficulty, target_duration_sec, under_duration, score, items, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT DO NOTHING`,
		res.ID, req.UserID, int(req.Difficulty), req.TargetDurationSeconds,
		res.UnderDuration, res.QualityReport.Score, items, res.GeneratedAt)
	if err != nil {
		return fmt.Errorf("inserting sequence log: %w", err)
	}
	return nil
}

// GetSequenceLog retrieves one audit record by id. Returns nil when absent.
func (db *DB) GetSequenceLog(ctx context.Context, id uuid.UUID) (*SequenceLogEntry, error) {
	var (
		e          SequenceLogEntry
		difficulty int
		items      []byte
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, difficulty, target_duration_sec, under_duration, score, items, created_at
		 FROM sequence_log WHERE id = $1`, id).
		Scan(&e.ID, &e.UserID, &difficulty, &e.TargetDurationSec, &e.UnderDuration, &e.Score, &items, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying sequence log: %w", err)
	}
	e.Difficulty = domain.Difficulty(difficulty)
	if err := json.Unmarshal(items, &e.Items); err != nil {
		return nil, fmt.Errorf("unmarshaling sequence items: %w", err)
	}
	return &e, nil
}
