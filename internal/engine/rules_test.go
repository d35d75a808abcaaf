package engine

import (
	"testing"

	"github.com/meltforce/matseq/internal/config"
	"github.com/meltforce/matseq/internal/domain"
)

// TestRequiredUnique verifies the per-hour policy scales with duration and
// never drops below the floor of four.
func TestRequiredUnique(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		difficulty  domain.Difficulty
		durationSec int
		want        int
	}{
		{domain.DifficultyBeginner, 1800, 8},
		{domain.DifficultyBeginner, 3600, 16},
		{domain.DifficultyIntermediate, 1800, 10},
		{domain.DifficultyAdvanced, 3600, 24},
		{domain.DifficultyAdvanced, 5400, 36},
		{domain.DifficultyBeginner, 300, 4},  // floor
		{domain.DifficultyBeginner, 1900, 9}, // ceil, not round
	}
	for _, c := range cases {
		if got := p.RequiredUnique(c.difficulty, c.durationSec); got != c.want {
			t.Errorf("RequiredUnique(%v, %d) = %d, want %d", c.difficulty, c.durationSec, got, c.want)
		}
	}
}

// TestDurationWindow verifies the tolerance band rounds inward so the window
// never exceeds ±10%.
func TestDurationWindow(t *testing.T) {
	p := DefaultParams()

	low, high := p.DurationWindow(1800)
	if low != 1620 || high != 1980 {
		t.Errorf("DurationWindow(1800) = [%d, %d], want [1620, 1980]", low, high)
	}

	low, high = p.DurationWindow(905)
	if low != 815 || high != 995 {
		t.Errorf("DurationWindow(905) = [%d, %d], want [815, 995]", low, high)
	}
}

// TestParamsFromConfig verifies non-zero overrides replace defaults and zero
// values leave them untouched.
func TestParamsFromConfig(t *testing.T) {
	p := ParamsFromConfig(config.GeneratorConfig{
		FamilyThresholdPct:  45,
		StalenessWindowDays: 14,
	})

	if p.FamilyThreshold != 0.45 {
		t.Errorf("FamilyThreshold = %v, want 0.45", p.FamilyThreshold)
	}
	if p.StalenessWindowDays != 14 {
		t.Errorf("StalenessWindowDays = %d, want 14", p.StalenessWindowDays)
	}
	// untouched defaults
	if p.OverlapThreshold != 0.50 {
		t.Errorf("OverlapThreshold = %v, want default 0.50", p.OverlapThreshold)
	}
	if p.FamilyCeiling != 0.60 {
		t.Errorf("FamilyCeiling = %v, want default 0.60", p.FamilyCeiling)
	}
}

// TestPct verifies verdict percentages are reported to one decimal place.
func TestPct(t *testing.T) {
	if got := pct(1.0 / 3.0); got != 33.3 {
		t.Errorf("pct(1/3) = %v, want 33.3", got)
	}
	if got := pct(0.45); got != 45.0 {
		t.Errorf("pct(0.45) = %v, want 45.0", got)
	}
}
