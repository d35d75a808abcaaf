package engine

import (
	"errors"
	"testing"

	"github.com/meltforce/matseq/internal/domain"
)

// TestFilterTierCeiling verifies lower tiers stay eligible for a higher-tier
// request.
func TestFilterTierCeiling(t *testing.T) {
	idx := mustIndex(t, classicalCatalogue())
	req := domain.GenerateRequest{
		Difficulty:            domain.DifficultyIntermediate,
		TargetDurationSeconds: 1800,
	}

	pool, warnings, err := filterPool(idx, req, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	for _, m := range pool {
		if m.Difficulty > domain.DifficultyIntermediate {
			t.Errorf("movement %s (%v) above requested tier", m.ID, m.Difficulty)
		}
	}
	// both tiers present
	var hasBeginner, hasIntermediate bool
	for _, m := range pool {
		switch m.Difficulty {
		case domain.DifficultyBeginner:
			hasBeginner = true
		case domain.DifficultyIntermediate:
			hasIntermediate = true
		}
	}
	if !hasBeginner || !hasIntermediate {
		t.Error("tier ceiling should include both beginner and intermediate movements")
	}
}

// TestFilterStrictTier verifies the strict flag restricts to exact matches.
func TestFilterStrictTier(t *testing.T) {
	idx := mustIndex(t, classicalCatalogue())
	req := domain.GenerateRequest{
		Difficulty:            domain.DifficultyIntermediate,
		TargetDurationSeconds: 900,
		StrictTier:            true,
	}

	pool, _, err := filterPool(idx, req, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range pool {
		if m.Difficulty != domain.DifficultyIntermediate {
			t.Errorf("movement %s (%v) not intermediate in strict mode", m.ID, m.Difficulty)
		}
	}
}

// TestFilterExclusionsAreHard verifies excluded ids never appear even when the
// pool shrinks below the viable minimum.
func TestFilterExclusionsAreHard(t *testing.T) {
	idx := mustIndex(t, classicalCatalogue())
	req := domain.GenerateRequest{
		Difficulty:            domain.DifficultyBeginner,
		TargetDurationSeconds: 3600,
		ExcludedMovementIDs:   []string{"the-hundred", "roll-up", "seal"},
	}

	pool, _, err := filterPool(idx, req, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range pool {
		switch m.ID {
		case "the-hundred", "roll-up", "seal":
			t.Errorf("excluded movement %s survived the filter", m.ID)
		}
	}
}

// TestFilterFocusKeepsIntersecting verifies the focus filter keeps only
// movements touching at least one focus group when enough remain.
func TestFilterFocusKeepsIntersecting(t *testing.T) {
	idx := mustIndex(t, classicalCatalogue())
	req := domain.GenerateRequest{
		Difficulty:            domain.DifficultyAdvanced,
		TargetDurationSeconds: 1800,
		FocusGroups:           []string{"Abdominals", "obliques"},
	}

	pool, warnings, err := filterPool(idx, req, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	for _, m := range pool {
		if !m.MuscleGroups.Contains("abdominals") && !m.MuscleGroups.Contains("obliques") {
			t.Errorf("movement %s does not touch any focus group", m.ID)
		}
	}
}

// TestFilterFocusRelaxes verifies a focus filter that would starve the pool is
// dropped with a warning instead of failing the request.
func TestFilterFocusRelaxes(t *testing.T) {
	idx := mustIndex(t, classicalCatalogue())
	// Only one beginner movement touches triceps-free "quadriceps"; far fewer
	// than the 16 a full hour needs.
	req := domain.GenerateRequest{
		Difficulty:            domain.DifficultyBeginner,
		TargetDurationSeconds: 3600,
		FocusGroups:           []string{"quadriceps"},
	}

	pool, warnings, err := filterPool(idx, req, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one relaxation warning", warnings)
	}
	// the focus constraint was dropped, so the pool is the full beginner tier
	if len(pool) != len(idx.ByMaxTier(domain.DifficultyBeginner)) {
		t.Errorf("pool size %d, want full beginner tier", len(pool))
	}
}

// TestFilterEmptyPool verifies an unsatisfiable request fails with the
// catalogue sentinel.
func TestFilterEmptyPool(t *testing.T) {
	idx := mustIndex(t, classicalCatalogue())
	beginnerIDs := idx.ByMaxTier(domain.DifficultyBeginner)
	excluded := make([]string, 0, len(beginnerIDs))
	for _, m := range beginnerIDs {
		excluded = append(excluded, m.ID)
	}
	req := domain.GenerateRequest{
		Difficulty:            domain.DifficultyBeginner,
		TargetDurationSeconds: 1800,
		ExcludedMovementIDs:   excluded,
	}

	_, _, err := filterPool(idx, req, DefaultParams())
	if !errors.Is(err, domain.ErrInsufficientCatalogue) {
		t.Fatalf("err = %v, want ErrInsufficientCatalogue", err)
	}
}
