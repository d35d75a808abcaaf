package storage

import (
	"context"
	"fmt"

	"github.com/meltforce/matseq/internal/domain"
)

// SequenceRules returns the numbered rule reference data seeded by migration.
// The engine enforces rules 1-3; further rows are carried for display only.
func (db *DB) SequenceRules(ctx context.Context) ([]domain.SequenceRule, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT rule_number, name, description, severity, threshold_pct
		 FROM sequence_rules ORDER BY rule_number`)
	if err != nil {
		return nil, fmt.Errorf("querying sequence rules: %w", err)
	}
	defer rows.Close()

	var out []domain.SequenceRule
	for rows.Next() {
		var r domain.SequenceRule
		if err := rows.Scan(&r.Number, &r.Name, &r.Description, &r.Severity, &r.ThresholdPct); err != nil {
			return nil, fmt.Errorf("scanning sequence rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
