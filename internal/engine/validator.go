package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/meltforce/matseq/internal/catalog"
	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/usage"
)

// validateSequence independently recomputes the three rules over a completed
// sequence, without trusting the sequencer's incremental bookkeeping. Rule
// failures are data in the report; only a structurally invalid sequence
// produces an error (wrapping domain.ErrMalformedSequence).
//
// eligibleIDs is the filtered pool the sequence was drawn from; Rule 3's
// staleness clause is measured over it, with movements placed in this sequence
// counting as used now.
func validateSequence(items []domain.SequenceItem, idx *catalog.Index, snap usage.Snapshot, eligibleIDs []string, p Params, req domain.GenerateRequest) (domain.QualityReport, error) {
	var report domain.QualityReport

	movements, err := resolveItems(items, idx)
	if err != nil {
		return report, err
	}

	report.Rule1 = checkMuscleRepetition(movements, p)
	report.Rule2 = checkFamilyBalance(movements, p)
	report.Rule3 = checkRepertoireCoverage(movements, snap, eligibleIDs, p, req)
	report.OverallPass = report.Rule1.Pass && report.Rule2.Pass && report.Rule3.Pass
	report.Score = aggregateScore(report, p)
	return report, nil
}

// resolveItems checks structural validity and maps items back to catalogue
// movements: every id must exist, appear once, and carry consistent position
// indices and monotonically increasing elapsed time.
func resolveItems(items []domain.SequenceItem, idx *catalog.Index) ([]domain.Movement, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("empty sequence: %w", domain.ErrMalformedSequence)
	}
	seen := make(map[string]struct{}, len(items))
	movements := make([]domain.Movement, 0, len(items))
	elapsed := 0
	for i, item := range items {
		m, ok := idx.ByID(item.MovementID)
		if !ok {
			return nil, fmt.Errorf("movement %s not in catalogue: %w", item.MovementID, domain.ErrMalformedSequence)
		}
		if _, dup := seen[item.MovementID]; dup {
			return nil, fmt.Errorf("movement %s placed twice: %w", item.MovementID, domain.ErrMalformedSequence)
		}
		seen[item.MovementID] = struct{}{}
		if item.PositionIndex != i {
			return nil, fmt.Errorf("item %d carries position index %d: %w", i, item.PositionIndex, domain.ErrMalformedSequence)
		}
		if item.ElapsedSeconds <= elapsed {
			return nil, fmt.Errorf("item %d elapsed %ds not increasing: %w", i, item.ElapsedSeconds, domain.ErrMalformedSequence)
		}
		elapsed = item.ElapsedSeconds
		movements = append(movements, m)
	}
	return movements, nil
}

// checkMuscleRepetition is Rule 1: intersection-over-union of adjacent muscle
// sets must stay below the threshold for every pair.
func checkMuscleRepetition(movements []domain.Movement, p Params) domain.Rule1Verdict {
	v := domain.Rule1Verdict{Pass: true}
	for i := 1; i < len(movements); i++ {
		overlap := movements[i-1].MuscleGroups.Overlap(movements[i].MuscleGroups)
		if pct(overlap) > v.MaxOverlapPct {
			v.MaxOverlapPct = pct(overlap)
		}
		if overlap >= p.OverlapThreshold {
			v.Pass = false
			v.FailedPairs = append(v.FailedPairs, domain.OverlapPair{
				FromID:     movements[i-1].ID,
				ToID:       movements[i].ID,
				OverlapPct: pct(overlap),
			})
		}
	}
	return v
}

// checkFamilyBalance is Rule 2: no family's share of the sequence may reach
// the threshold.
func checkFamilyBalance(movements []domain.Movement, p Params) domain.Rule2Verdict {
	v := domain.Rule2Verdict{Pass: true}
	counts := make(map[string]int)
	for _, m := range movements {
		counts[m.Family]++
	}
	total := float64(len(movements))
	for family, count := range counts {
		share := float64(count) / total
		if pct(share) > v.MaxFamilyPct {
			v.MaxFamilyPct = pct(share)
		}
		if share >= p.FamilyThreshold {
			v.Pass = false
			v.Overrepresented = append(v.Overrepresented, domain.FamilyShare{
				Family:   family,
				SharePct: pct(share),
			})
		}
	}
	sort.Slice(v.Overrepresented, func(i, j int) bool {
		return v.Overrepresented[i].Family < v.Overrepresented[j].Family
	})
	return v
}

// checkRepertoireCoverage is Rule 3: the sequence must place at least the
// policy's unique movement count, and the stalest eligible movement must have
// been used within the staleness window. Movements placed in this sequence
// count as used now; a user with no history at all passes the staleness
// clause vacuously.
func checkRepertoireCoverage(movements []domain.Movement, snap usage.Snapshot, eligibleIDs []string, p Params, req domain.GenerateRequest) domain.Rule3Verdict {
	v := domain.Rule3Verdict{
		UniqueCount:   len(movements),
		RequiredCount: p.RequiredUnique(req.Difficulty, req.TargetDurationSeconds),
	}

	placed := make(map[string]struct{}, len(movements))
	for _, m := range movements {
		placed[m.ID] = struct{}{}
	}

	if !snap.Empty() {
		stalest := 0
		for _, id := range eligibleIDs {
			if _, inSeq := placed[id]; inSeq {
				continue
			}
			if d := snap.DaysSince(id); d > stalest {
				stalest = d
			}
		}
		v.StalestDays = stalest
	}

	v.Pass = v.UniqueCount >= v.RequiredCount && v.StalestDays <= p.StalenessWindowDays
	return v
}

// aggregateScore combines the three rule metrics into a single [0, 100] score
// weighted 40/30/30, scaling each by its distance from the threshold so an
// almost-compliant sequence ranks above a badly non-compliant one.
func aggregateScore(r domain.QualityReport, p Params) int {
	r1 := clamp01((p.OverlapThreshold - r.Rule1.MaxOverlapPct/100) / p.OverlapThreshold)
	r2 := clamp01((p.FamilyThreshold - r.Rule2.MaxFamilyPct/100) / p.FamilyThreshold)

	uniqueRatio := clamp01(float64(r.Rule3.UniqueCount) / float64(r.Rule3.RequiredCount))
	stalenessRatio := 1.0
	if r.Rule3.StalestDays > p.StalenessWindowDays {
		stalenessRatio = clamp01(float64(p.StalenessWindowDays) / float64(r.Rule3.StalestDays))
	}
	r3 := 0.6*uniqueRatio + 0.4*stalenessRatio

	score := int(math.Round(100 * (0.4*r1 + 0.3*r2 + 0.3*r3)))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
