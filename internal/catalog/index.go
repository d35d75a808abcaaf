// Package catalog provides an in-memory typed view of the movement catalogue
// for fast constrained lookup during sequence generation. An Index is built
// once per generation call from a single batched catalogue read and is never
// mutated afterwards, so it is safe to share across goroutines.
package catalog

import (
	"fmt"
	"strings"

	"github.com/meltforce/matseq/internal/domain"
)

// Index holds the catalogue snapshot indexed by id, difficulty, family, and
// muscle group. Catalogue order (the order movements were supplied in) is
// preserved for deterministic tie-breaks.
type Index struct {
	movements    []domain.Movement
	order        map[string]int
	byDifficulty map[domain.Difficulty][]int
	byFamily     map[string][]int
	byMuscle     map[string][]int
}

// NewIndex builds an Index from a catalogue snapshot. Movements failing their
// own invariants, or sharing an id with an earlier movement, are rejected.
func NewIndex(movements []domain.Movement) (*Index, error) {
	idx := &Index{
		movements:    make([]domain.Movement, 0, len(movements)),
		order:        make(map[string]int, len(movements)),
		byDifficulty: make(map[domain.Difficulty][]int),
		byFamily:     make(map[string][]int),
		byMuscle:     make(map[string][]int),
	}
	for _, m := range movements {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("indexing catalogue: %w", err)
		}
		if _, dup := idx.order[m.ID]; dup {
			return nil, fmt.Errorf("indexing catalogue: duplicate movement id %s", m.ID)
		}
		i := len(idx.movements)
		idx.movements = append(idx.movements, m)
		idx.order[m.ID] = i
		idx.byDifficulty[m.Difficulty] = append(idx.byDifficulty[m.Difficulty], i)
		idx.byFamily[strings.ToLower(m.Family)] = append(idx.byFamily[strings.ToLower(m.Family)], i)
		for _, g := range m.MuscleGroups.Slice() {
			idx.byMuscle[g] = append(idx.byMuscle[g], i)
		}
	}
	return idx, nil
}

// Len returns the number of movements in the catalogue.
func (idx *Index) Len() int { return len(idx.movements) }

// All returns the movements in catalogue order. Callers must not modify the
// returned slice.
func (idx *Index) All() []domain.Movement { return idx.movements }

// ByID returns the movement with the given id, if present.
func (idx *Index) ByID(id string) (domain.Movement, bool) {
	i, ok := idx.order[id]
	if !ok {
		return domain.Movement{}, false
	}
	return idx.movements[i], true
}

// Order returns a movement's catalogue position, or the catalogue length for
// unknown ids so they sort last.
func (idx *Index) Order(id string) int {
	if i, ok := idx.order[id]; ok {
		return i
	}
	return len(idx.movements)
}

// ByMaxTier returns movements at or below the given difficulty, in catalogue
// order.
func (idx *Index) ByMaxTier(tier domain.Difficulty) []domain.Movement {
	var out []domain.Movement
	for _, m := range idx.movements {
		if m.Difficulty <= tier {
			out = append(out, m)
		}
	}
	return out
}

// ByExactTier returns movements at exactly the given difficulty, in catalogue
// order.
func (idx *Index) ByExactTier(tier domain.Difficulty) []domain.Movement {
	out := make([]domain.Movement, 0, len(idx.byDifficulty[tier]))
	for _, i := range idx.byDifficulty[tier] {
		out = append(out, idx.movements[i])
	}
	return out
}

// ByMuscleGroup returns movements targeting the given muscle group.
func (idx *Index) ByMuscleGroup(group string) []domain.Movement {
	indices := idx.byMuscle[strings.ToLower(group)]
	out := make([]domain.Movement, 0, len(indices))
	for _, i := range indices {
		out = append(out, idx.movements[i])
	}
	return out
}

// ByFamily returns movements in the given family.
func (idx *Index) ByFamily(family string) []domain.Movement {
	indices := idx.byFamily[strings.ToLower(family)]
	out := make([]domain.Movement, 0, len(indices))
	for _, i := range indices {
		out = append(out, idx.movements[i])
	}
	return out
}

// MuscleGroups returns every muscle group present in the catalogue.
func (idx *Index) MuscleGroups() []string {
	out := make([]string, 0, len(idx.byMuscle))
	for g := range idx.byMuscle {
		out = append(out, g)
	}
	return out
}
