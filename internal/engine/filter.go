package engine

import (
	"fmt"
	"strings"

	"github.com/meltforce/matseq/internal/catalog"
	"github.com/meltforce/matseq/internal/domain"
)

// filterPool narrows the catalogue to movements eligible for the request,
// returning the working pool in catalogue order plus any relaxation warnings.
//
// Difficulty is a ceiling (lower tiers stay eligible) unless StrictTier.
// Excluded ids are contraindications and are never relaxed. The focus filter
// keeps movements touching at least one focus group; if that would shrink the
// pool below the unique-count minimum for the requested duration, the focus
// constraint is dropped and a warning recorded, because an under-filled class
// is worse than an unfocused one.
func filterPool(idx *catalog.Index, req domain.GenerateRequest, p Params) ([]domain.Movement, []string, error) {
	var byTier []domain.Movement
	if req.StrictTier {
		byTier = idx.ByExactTier(req.Difficulty)
	} else {
		byTier = idx.ByMaxTier(req.Difficulty)
	}

	excluded := make(map[string]struct{}, len(req.ExcludedMovementIDs))
	for _, id := range req.ExcludedMovementIDs {
		excluded[id] = struct{}{}
	}

	base := byTier[:0:0]
	for _, m := range byTier {
		if _, skip := excluded[m.ID]; skip {
			continue
		}
		base = append(base, m)
	}

	var warnings []string
	pool := base
	if len(req.FocusGroups) > 0 {
		focus := make(domain.MuscleSet, len(req.FocusGroups))
		for _, g := range req.FocusGroups {
			focus[strings.ToLower(strings.TrimSpace(g))] = struct{}{}
		}
		focused := base[:0:0]
		for _, m := range base {
			if m.MuscleGroups.Intersects(focus) {
				focused = append(focused, m)
			}
		}

		minCount := p.RequiredUnique(req.Difficulty, req.TargetDurationSeconds)
		if len(focused) >= minCount {
			pool = focused
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"focus filter relaxed: %d focused movements is below the %d needed for a %ds class",
				len(focused), minCount, req.TargetDurationSeconds))
		}
	}

	if len(pool) == 0 {
		return nil, warnings, fmt.Errorf("no eligible movements for difficulty %s: %w",
			req.Difficulty, domain.ErrInsufficientCatalogue)
	}
	return pool, warnings, nil
}
