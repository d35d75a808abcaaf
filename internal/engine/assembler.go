package engine

import (
	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/transitions"
)

// assemble stitches placed movements into the final ordered artifact: each
// item carries its position index, cumulative elapsed time, and the narrative
// for reaching its setup position from the previous one. The first item has no
// narrative.
func assemble(placed []domain.Movement, lib *transitions.Library) []domain.SequenceItem {
	items := make([]domain.SequenceItem, 0, len(placed))
	elapsed := 0
	for i, m := range placed {
		elapsed += m.DurationSec
		item := domain.SequenceItem{
			MovementID:     m.ID,
			Name:           m.Name,
			PositionIndex:  i,
			ElapsedSeconds: elapsed,
		}
		if i > 0 {
			item.TransitionNarrative = lib.Narrative(placed[i-1].Position, m.Position)
		}
		items = append(items, item)
	}
	return items
}
