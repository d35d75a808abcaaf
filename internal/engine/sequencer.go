package engine

import (
	"fmt"

	"github.com/meltforce/matseq/internal/catalog"
	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/usage"
)

// buildResult is the sequencer's output: the placed movements in order, the
// under-duration flag, and any threshold-relaxation warnings.
type buildResult struct {
	placed        []domain.Movement
	underDuration bool
	warnings      []string
}

// buildSequence greedily constructs an ordered sequence from the pool until
// cumulative nominal duration lands inside the tolerance band around the
// target, or the pool gives out.
//
// Every ranking is a total order (staleness, then catalogue order or id), so
// identical pool and usage snapshots reproduce the identical sequence.
//
// Rule 1 (muscle overlap) is a hard per-step gate and is never relaxed: when
// no candidate passes it even at the Rule 2 ceiling, the sequence terminates
// early instead. Rule 2 (family share) relaxes in fixed increments up to its
// ceiling, resetting to the base threshold at every step.
func buildSequence(pool []domain.Movement, snap usage.Snapshot, idx *catalog.Index, p Params, req domain.GenerateRequest) buildResult {
	low, high := p.DurationWindow(req.TargetDurationSeconds)

	var res buildResult
	if len(pool) == 0 {
		res.underDuration = true
		return res
	}

	used := make(map[string]struct{}, len(pool))
	famCount := make(map[string]int)
	cum := 0

	place := func(m domain.Movement) {
		res.placed = append(res.placed, m)
		used[m.ID] = struct{}{}
		famCount[m.Family]++
		cum += m.DurationSec
	}

	place(seedMovement(pool, snap, idx, req.Difficulty))

	for cum < low {
		var remaining []domain.Movement
		for _, m := range pool {
			if _, done := used[m.ID]; !done {
				remaining = append(remaining, m)
			}
		}
		if len(remaining) == 0 {
			break
		}

		prev := res.placed[len(res.placed)-1]
		admissible, famThresh := admissibleCandidates(remaining, prev, famCount, len(res.placed), p)
		if len(admissible) == 0 {
			// Rule 1 fails closed: nothing passes even at the family ceiling,
			// so truncate rather than pair overworked muscle groups.
			break
		}
		if famThresh > p.FamilyThreshold {
			res.warnings = append(res.warnings, fmt.Sprintf(
				"family balance threshold relaxed to %.0f%% at step %d", famThresh*100, len(res.placed)+1))
		}

		place(pickCandidate(admissible, snap, cum, high))
	}

	res.underDuration = cum < low
	return res
}

// seedMovement picks the opening movement: the stalest pool member in the
// difficulty's preferred opening position, falling back to the whole pool when
// no movement sets up there. Ties break by catalogue order.
func seedMovement(pool []domain.Movement, snap usage.Snapshot, idx *catalog.Index, d domain.Difficulty) domain.Movement {
	opening := domain.OpeningPosition(d)
	candidates := pool[:0:0]
	for _, m := range pool {
		if m.Position == opening {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}

	best := candidates[0]
	bestDays := snap.DaysSince(best.ID)
	for _, m := range candidates[1:] {
		days := snap.DaysSince(m.ID)
		if days > bestDays || (days == bestDays && idx.Order(m.ID) < idx.Order(best.ID)) {
			best, bestDays = m, days
		}
	}
	return best
}

// admissibleCandidates returns the candidates passing Rule 1 against the
// previous movement and Rule 2 at the lowest family threshold (base, then
// +step increments up to the ceiling) that yields at least one candidate. The
// threshold actually used is returned for warning reporting.
func admissibleCandidates(remaining []domain.Movement, prev domain.Movement, famCount map[string]int, placed int, p Params) ([]domain.Movement, float64) {
	const eps = 1e-9
	for famThresh := p.FamilyThreshold; famThresh <= p.FamilyCeiling+eps; famThresh += p.FamilyStep {
		var admissible []domain.Movement
		for _, m := range remaining {
			if prev.MuscleGroups.Overlap(m.MuscleGroups) >= p.OverlapThreshold {
				continue
			}
			share := float64(famCount[m.Family]+1) / float64(placed+1)
			if share >= famThresh {
				continue
			}
			admissible = append(admissible, m)
		}
		if len(admissible) > 0 {
			return admissible, famThresh
		}
	}
	return nil, p.FamilyCeiling
}

// pickCandidate ranks admissible candidates and returns the winner. Candidates
// that keep the cumulative duration inside the upper tolerance bound are
// preferred; within that set the stalest wins, ties broken by id. When every
// candidate would overshoot, the shortest is taken to minimize the overshoot.
func pickCandidate(admissible []domain.Movement, snap usage.Snapshot, cum, high int) domain.Movement {
	var fitting []domain.Movement
	for _, m := range admissible {
		if cum+m.DurationSec <= high {
			fitting = append(fitting, m)
		}
	}

	if len(fitting) == 0 {
		best := admissible[0]
		for _, m := range admissible[1:] {
			if m.DurationSec < best.DurationSec || (m.DurationSec == best.DurationSec && m.ID < best.ID) {
				best = m
			}
		}
		return best
	}

	best := fitting[0]
	bestDays := snap.DaysSince(best.ID)
	for _, m := range fitting[1:] {
		days := snap.DaysSince(m.ID)
		if days > bestDays || (days == bestDays && m.ID < best.ID) {
			best, bestDays = m, days
		}
	}
	return best
}
