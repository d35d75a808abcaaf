package engine

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/meltforce/matseq/internal/catalog"
	"github.com/meltforce/matseq/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mv(id string, d domain.Difficulty, pos domain.Position, family string, dur int, groups ...string) domain.Movement {
	return domain.Movement{
		ID:           id,
		Name:         id,
		Difficulty:   d,
		Position:     pos,
		Family:       family,
		MuscleGroups: domain.NewMuscleSet(groups...),
		DurationSec:  dur,
	}
}

// classicalCatalogue is the full classical mat repertoire in traditional
// order, the same data the production catalogue file carries.
func classicalCatalogue() []domain.Movement {
	b, i, a := domain.DifficultyBeginner, domain.DifficultyIntermediate, domain.DifficultyAdvanced
	sup, pro, kne, sea, sid := domain.PositionSupine, domain.PositionProne, domain.PositionKneeling, domain.PositionSeated, domain.PositionSideLying
	return []domain.Movement{
		mv("the-hundred", b, sup, "abdominal series", 180, "abdominals", "hip flexors"),
		mv("roll-up", b, sup, "spinal articulation", 180, "abdominals", "spinal erectors"),
		mv("roll-over", a, sup, "inversion", 150, "abdominals", "hamstrings"),
		mv("one-leg-circle", b, sup, "hip work", 180, "hip flexors", "adductors", "quadriceps"),
		mv("rolling-like-a-ball", b, sea, "rolling", 150, "abdominals", "spinal erectors"),
		mv("single-leg-stretch", b, sup, "abdominal series", 160, "abdominals", "hip flexors", "obliques"),
		mv("double-leg-stretch", b, sup, "abdominal series", 160, "abdominals", "shoulders"),
		mv("spine-stretch", b, sea, "spinal articulation", 170, "spinal erectors", "hamstrings"),
		mv("open-leg-rocker", i, sea, "rolling", 150, "abdominals", "hamstrings"),
		mv("corkscrew", a, sup, "abdominal series", 150, "obliques", "abdominals"),
		mv("the-saw", b, sea, "spinal rotation", 170, "obliques", "hamstrings", "spinal erectors"),
		mv("swan-dive", a, pro, "back extension", 150, "spinal erectors", "glutes"),
		mv("single-leg-kick", i, pro, "back extension", 120, "hamstrings", "glutes"),
		mv("double-leg-kick", i, pro, "back extension", 120, "hamstrings", "spinal erectors", "shoulders"),
		mv("neck-pull", i, sup, "spinal articulation", 150, "abdominals", "spinal erectors", "hip flexors"),
		mv("scissors", a, sup, "inversion", 120, "hip flexors", "hamstrings", "glutes"),
		mv("bicycle", a, sup, "inversion", 120, "hip flexors", "quadriceps", "glutes"),
		mv("shoulder-bridge", b, sup, "hip work", 150, "glutes", "hamstrings"),
		mv("spine-twist", i, sea, "spinal rotation", 120, "obliques", "spinal erectors"),
		mv("jack-knife", a, sup, "inversion", 120, "abdominals", "glutes"),
		mv("side-kick", b, sid, "side series", 180, "glutes", "adductors"),
		mv("teaser", i, sup, "abdominal series", 180, "abdominals", "hip flexors"),
		mv("hip-twist", a, sea, "hip work", 120, "hip flexors", "obliques"),
		mv("swimming", i, pro, "back extension", 120, "spinal erectors", "glutes", "shoulders"),
		mv("leg-pull-front", a, pro, "arm support", 120, "shoulders", "abdominals"),
		mv("leg-pull", a, sea, "arm support", 120, "triceps", "glutes"),
		mv("side-kick-kneeling", a, kne, "side series", 120, "obliques", "glutes"),
		mv("side-bend", a, sid, "arm support", 120, "obliques", "shoulders"),
		mv("boomerang", a, sea, "rolling", 180, "abdominals", "hamstrings"),
		mv("seal", b, sea, "rolling", 150, "abdominals", "adductors"),
		mv("crab", a, sea, "rolling", 120, "abdominals", "spinal erectors"),
		mv("rocking", a, pro, "back extension", 120, "quadriceps", "spinal erectors"),
		mv("control-balance", a, sup, "inversion", 120, "hamstrings", "abdominals"),
		mv("push-up", i, kne, "arm support", 150, "shoulders", "triceps"),
	}
}

// syntheticPool builds n movements engineered so any order satisfies the
// rules: each movement has its own family and a sliding pair of muscle groups
// so only identical pairs breach the overlap threshold. Durations cycle
// 120/150/180 and positions cycle through all five.
func syntheticPool(n int) []domain.Movement {
	durs := []int{120, 150, 180}
	positions := domain.Positions()
	out := make([]domain.Movement, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, mv(
			fmt.Sprintf("syn-%02d", i),
			domain.DifficultyBeginner,
			positions[i%len(positions)],
			fmt.Sprintf("family-%02d", i),
			durs[i%len(durs)],
			fmt.Sprintf("group-%02d", i%12),
			fmt.Sprintf("group-%02d", (i+1)%12),
		))
	}
	return out
}

func mustIndex(t *testing.T, movements []domain.Movement) *catalog.Index {
	t.Helper()
	idx, err := catalog.NewIndex(movements)
	if err != nil {
		t.Fatal(err)
	}
	return idx
}
