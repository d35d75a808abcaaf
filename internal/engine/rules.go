package engine

import (
	"math"

	"github.com/meltforce/matseq/internal/domain"
)

// Params holds the rule thresholds and policy knobs for one generation call.
// All percentages are fractions in [0, 1]. Mutable copies (the relaxed family
// threshold) stay local to a single call.
type Params struct {
	// OverlapThreshold is Rule 1: adjacent muscle overlap must stay strictly
	// below this. Never relaxed.
	OverlapThreshold float64
	// FamilyThreshold is Rule 2: any family's share of the sequence must stay
	// strictly below this.
	FamilyThreshold float64
	// FamilyStep and FamilyCeiling bound Rule 2 relaxation when no candidate
	// is admissible at the base threshold.
	FamilyStep    float64
	FamilyCeiling float64
	// DurationTolerance is the accepted band around the target duration.
	DurationTolerance float64
	// StalenessWindowDays is Rule 3's rolling window: the stalest eligible
	// movement must have been used within it.
	StalenessWindowDays int
	// MovementsPerHour drives Rule 3's required unique count per difficulty.
	MovementsPerHour map[domain.Difficulty]int
}

// DefaultParams returns the classical rule policy: 50% overlap cap, 40%
// family cap relaxable in 5-point steps to 60%, ±10% duration band, 30-day
// staleness window.
func DefaultParams() Params {
	return Params{
		OverlapThreshold:    0.50,
		FamilyThreshold:     0.40,
		FamilyStep:          0.05,
		FamilyCeiling:       0.60,
		DurationTolerance:   0.10,
		StalenessWindowDays: 30,
		MovementsPerHour: map[domain.Difficulty]int{
			domain.DifficultyBeginner:     16,
			domain.DifficultyIntermediate: 20,
			domain.DifficultyAdvanced:     24,
		},
	}
}

// RequiredUnique returns Rule 3's minimum unique movement count for a class of
// the given difficulty and duration, scaling the per-hour policy to the target
// length. Never below 4.
func (p Params) RequiredUnique(difficulty domain.Difficulty, durationSec int) int {
	perHour := p.MovementsPerHour[difficulty]
	if perHour == 0 {
		perHour = 16
	}
	n := int(math.Ceil(float64(perHour) * float64(durationSec) / 3600))
	if n < 4 {
		return 4
	}
	return n
}

// DurationWindow returns the accepted [low, high] band around the target.
func (p Params) DurationWindow(targetSec int) (int, int) {
	low := int(math.Ceil(float64(targetSec) * (1 - p.DurationTolerance)))
	high := int(math.Floor(float64(targetSec) * (1 + p.DurationTolerance)))
	return low, high
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// pct converts a fraction to a percentage rounded to one decimal place, the
// precision reported in quality verdicts.
func pct(frac float64) float64 {
	return math.Round(frac*1000) / 10
}
