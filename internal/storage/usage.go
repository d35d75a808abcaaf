package storage

import (
	"context"
	"fmt"
	"time"
)

// LastUsed fetches last-used timestamps for a user across the given movement
// id set in one batched query. Movements with no record are simply absent from
// the returned map.
func (db *DB) LastUsed(ctx context.Context, userID int, movementIDs []string) (map[string]time.Time, error) {
	if len(movementIDs) == 0 {
		return map[string]time.Time{}, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT movement_id, last_used FROM movement_usage
		 WHERE user_id = $1 AND movement_id = ANY($2)`,
		userID, movementIDs)
	if err != nil {
		return nil, fmt.Errorf("querying usage: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var t time.Time
		if err := rows.Scan(&id, &t); err != nil {
			return nil, fmt.Errorf("scanning usage row: %w", err)
		}
		out[id] = t
	}
	return out, rows.Err()
}

// RecordUsage marks the given movements as used now for the user. Called after
// the caller commits a generated sequence; the generation path itself never
// writes usage.
func (db *DB) RecordUsage(ctx context.Context, userID int, movementIDs []string, usedAt time.Time) (int64, error) {
	var updated int64
	for _, id := range movementIDs {
		tag, err := db.Pool.Exec(ctx,
			`INSERT INTO movement_usage (user_id, movement_id, last_used)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id, movement_id) DO UPDATE SET last_used = EXCLUDED.last_used`,
			userID, id, usedAt)
		if err != nil {
			return updated, fmt.Errorf("recording usage for %s: %w", id, err)
		}
		updated += tag.RowsAffected()
	}
	return updated, nil
}
