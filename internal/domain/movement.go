package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Difficulty is an ordered tier: Beginner < Intermediate < Advanced.
type Difficulty int

const (
	DifficultyBeginner Difficulty = iota + 1
	DifficultyIntermediate
	DifficultyAdvanced
)

// ParseDifficulty maps a case-insensitive tier name to its Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return DifficultyBeginner, nil
	case "intermediate":
		return DifficultyIntermediate, nil
	case "advanced":
		return DifficultyAdvanced, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyBeginner:
		return "beginner"
	case DifficultyIntermediate:
		return "intermediate"
	case DifficultyAdvanced:
		return "advanced"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

// Valid reports whether d is one of the three defined tiers.
func (d Difficulty) Valid() bool {
	return d >= DifficultyBeginner && d <= DifficultyAdvanced
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Position is a movement's setup position on the mat.
type Position string

const (
	PositionSupine    Position = "supine"
	PositionProne     Position = "prone"
	PositionKneeling  Position = "kneeling"
	PositionSeated    Position = "seated"
	PositionSideLying Position = "side-lying"
)

// Positions returns the fixed position set in canonical order.
func Positions() []Position {
	return []Position{PositionSupine, PositionProne, PositionKneeling, PositionSeated, PositionSideLying}
}

// Valid reports whether p is one of the fixed setup positions.
func (p Position) Valid() bool {
	switch p {
	case PositionSupine, PositionProne, PositionKneeling, PositionSeated, PositionSideLying:
		return true
	}
	return false
}

// OpeningPosition is the preferred setup position for the first movement of a
// class at the given difficulty. The classical repertoire opens lying down at
// every level.
func OpeningPosition(d Difficulty) Position {
	return PositionSupine
}

// MuscleSet is the set of muscle groups a movement targets. It marshals as a
// sorted string array so identical sets always serialize identically.
type MuscleSet map[string]struct{}

// NewMuscleSet builds a MuscleSet from labels, normalizing to lower case and
// dropping empties.
func NewMuscleSet(groups ...string) MuscleSet {
	s := make(MuscleSet, len(groups))
	for _, g := range groups {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			s[g] = struct{}{}
		}
	}
	return s
}

// Contains reports whether the set includes the given group.
func (s MuscleSet) Contains(group string) bool {
	_, ok := s[strings.ToLower(group)]
	return ok
}

// Intersects reports whether the two sets share at least one group.
func (s MuscleSet) Intersects(other MuscleSet) bool {
	for g := range s {
		if _, ok := other[g]; ok {
			return true
		}
	}
	return false
}

// Overlap returns intersection-over-union of the two sets in [0, 1].
// Two empty sets overlap fully by convention.
func (s MuscleSet) Overlap(other MuscleSet) float64 {
	union := len(s)
	inter := 0
	for g := range other {
		if _, ok := s[g]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

// Slice returns the groups in sorted order.
func (s MuscleSet) Slice() []string {
	out := make([]string, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func (s MuscleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

func (s *MuscleSet) UnmarshalJSON(data []byte) error {
	var groups []string
	if err := json.Unmarshal(data, &groups); err != nil {
		return err
	}
	*s = NewMuscleSet(groups...)
	return nil
}

// Movement is an immutable catalogue entity: one named exercise with fixed
// teaching metadata. The catalogue collaborator owns its lifecycle; the core
// only reads it.
type Movement struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Difficulty   Difficulty `json:"difficulty"`
	Position     Position   `json:"position"`
	Family       string     `json:"family"`
	MuscleGroups MuscleSet  `json:"muscle_groups"`
	DurationSec  int        `json:"duration_sec"`
}

// Validate checks the catalogue invariants: at least one muscle group, exactly
// one valid setup position, a family label, and a positive nominal duration.
func (m Movement) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("movement has no id")
	}
	if m.Name == "" {
		return fmt.Errorf("movement %s has no name", m.ID)
	}
	if !m.Difficulty.Valid() {
		return fmt.Errorf("movement %s has invalid difficulty %d", m.ID, int(m.Difficulty))
	}
	if !m.Position.Valid() {
		return fmt.Errorf("movement %s has invalid position %q", m.ID, m.Position)
	}
	if m.Family == "" {
		return fmt.Errorf("movement %s has no family", m.ID)
	}
	if len(m.MuscleGroups) == 0 {
		return fmt.Errorf("movement %s has no muscle groups", m.ID)
	}
	if m.DurationSec <= 0 {
		return fmt.Errorf("movement %s has non-positive duration %d", m.ID, m.DurationSec)
	}
	return nil
}
