package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerateRequest carries every parameter of one generation call. It is built
// once at the API boundary and passed through unchanged; no component mutates
// it.
type GenerateRequest struct {
	UserID                int        `json:"user_id"`
	TargetDurationSeconds int        `json:"target_duration_seconds"`
	Difficulty            Difficulty `json:"difficulty"`
	FocusGroups           []string   `json:"focus_groups,omitempty"`
	ExcludedMovementIDs   []string   `json:"excluded_movement_ids,omitempty"`
	StrictTier            bool       `json:"strict_tier,omitempty"`
}

// SequenceItem is one movement placed at a specific position in the output.
// TransitionNarrative is empty for the first item.
type SequenceItem struct {
	MovementID          string `json:"movement_id"`
	Name                string `json:"name"`
	PositionIndex       int    `json:"position_index"`
	ElapsedSeconds      int    `json:"elapsed_seconds"`
	TransitionNarrative string `json:"transition_narrative,omitempty"`
}

// OverlapPair records an adjacent pair whose muscle overlap breached Rule 1.
type OverlapPair struct {
	FromID     string  `json:"from_id"`
	ToID       string  `json:"to_id"`
	OverlapPct float64 `json:"overlap_pct"`
}

// FamilyShare records a family's share of the sequence.
type FamilyShare struct {
	Family   string  `json:"family"`
	SharePct float64 `json:"share_pct"`
}

// Rule1Verdict reports muscle-repetition compliance (adjacent overlap < threshold).
type Rule1Verdict struct {
	Pass          bool          `json:"pass"`
	MaxOverlapPct float64       `json:"max_overlap_pct"`
	FailedPairs   []OverlapPair `json:"failed_pairs,omitempty"`
}

// Rule2Verdict reports family-balance compliance (max family share < threshold).
type Rule2Verdict struct {
	Pass            bool          `json:"pass"`
	MaxFamilyPct    float64       `json:"max_family_pct"`
	Overrepresented []FamilyShare `json:"overrepresented,omitempty"`
}

/// Rule3Verdict reports repertoire coverage: unique movements placed versus the
// difficulty/duration policy, and staleness of the least-recently-used
// eligible movement.
type Rule3Verdict struct {
	Pass          bool `json:"pass"`
	UniqueCount   int  `json:"unique_count"`
	RequiredCount int  `json:"required_count"`
	StalestDays   int  `json:"stalest_days"`
}

// QualityReport is the validator's independent audit of a completed sequence.
// Rule failures are data here, never errors.
type QualityReport struct {
	Rule1       Rule1Verdict `json:"rule1"`
	Rule2       Rule2Verdict `json:"rule2"`
	Rule3       Rule3Verdict `json:"rule3"`
	OverallPass bool         `json:"overall_pass"`
	Score       int          `json:"score"`
}

// GenerateResult is the final ordered artifact returned to the caller. The
// core holds no state once it is returned.
type GenerateResult struct {
	ID            uuid.UUID      `json:"id"`
	Sequence      []SequenceItem `json:"sequence"`
	QualityReport QualityReport  `json:"quality_report"`
	UnderDuration bool           `json:"under_duration"`
	Warnings      []string       `json:"warnings,omitempty"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

// SequenceRule is a named, numbered constraint carried as reference data from
// the catalogue collaborator. The engine enforces rules 1-3; additional rows
// are informational.
type SequenceRule struct {
	Number       int     `json:"rule_number"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Severity     string  `json:"severity"`
	ThresholdPct float64 `json:"threshold_pct"`
}

// Rule severities.
const (
	SeverityHard = "hard"
	SeveritySoft = "soft"
)
