// Package catalogimport loads movement catalogue files (YAML) into the
// database. Files are idempotent: re-importing an unchanged file is a no-op,
// and changed files upsert by movement ID.
package catalogimport

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/transitions"
	"gopkg.in/yaml.v3"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int

	MovementsInserted   int
	MovementsUpdated    int
	TransitionsUpserted int
}

// Store is the subset of the storage layer the importer writes through.
type Store interface {
	UpsertMovement(ctx context.Context, m domain.Movement, sortOrder int) (bool, error)
	UpsertTransition(ctx context.Context, n transitions.Narrative) error
}

// Importer reads catalogue YAML files and inserts movements into the DB.
type Importer struct {
	db     Store
	state  *StateDB
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. state may be nil, in which case every file is
// processed unconditionally.
func New(db Store, state *StateDB, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, state: state, log: log, dryRun: dryRun}
}

// catalogueFile is the on-disk document shape.
type catalogueFile struct {
	Movements   []movementEntry   `yaml:"movements"`
	Transitions []transitionEntry `yaml:"transitions"`
}

type movementEntry struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	Difficulty      string   `yaml:"difficulty"`
	Position        string   `yaml:"position"`
	Family          string   `yaml:"family"`
	MuscleGroups    []string `yaml:"muscle_groups"`
	DurationSeconds int      `yaml:"duration_seconds"`
}

type transitionEntry struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Narrative string `yaml:"narrative"`
}

// Import processes one catalogue file. File order defines catalogue order:
// the Nth movement in the file gets sort order N.
func (imp *Importer) Import(ctx context.Context, path string) (*Stats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("stat %s: %w", path, err)
	}

	hash, err := HashFile(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("hashing %s: %w", path, err)
	}

	if imp.state != nil {
		done, err := imp.state.IsImported(path, info.Size(), hash)
		if err != nil {
			return &imp.stats, fmt.Errorf("checking state for %s: %w", path, err)
		}
		if done {
			imp.log.Info("catalogue unchanged, skipping", "path", path)
			imp.stats.FilesSkipped++
			return &imp.stats, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &imp.stats, fmt.Errorf("reading %s: %w", path, err)
	}

	var file catalogueFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return &imp.stats, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(file.Movements) == 0 {
		return &imp.stats, fmt.Errorf("%s contains no movements", path)
	}

	movements, err := resolveMovements(file.Movements)
	if err != nil {
		return &imp.stats, fmt.Errorf("%s: %w", path, err)
	}
	narratives, err := resolveTransitions(file.Transitions)
	if err != nil {
		return &imp.stats, fmt.Errorf("%s: %w", path, err)
	}

	if imp.dryRun {
		imp.log.Info("dry run: catalogue parsed",
			"path", path,
			"movements", len(movements),
			"transitions", len(narratives),
		)
		imp.stats.FilesProcessed++
		return &imp.stats, nil
	}

	for i, m := range movements {
		inserted, err := imp.db.UpsertMovement(ctx, m, i)
		if err != nil {
			return &imp.stats, fmt.Errorf("upserting %s: %w", m.ID, err)
		}
		if inserted {
			imp.stats.MovementsInserted++
		} else {
			imp.stats.MovementsUpdated++
		}
	}

	for _, n := range narratives {
		if err := imp.db.UpsertTransition(ctx, n); err != nil {
			return &imp.stats, fmt.Errorf("upserting transition: %w", err)
		}
		imp.stats.TransitionsUpserted++
	}

	if imp.state != nil {
		if err := imp.state.MarkImported(path, info.Size(), hash); err != nil {
			imp.log.Warn("failed to record import state", "path", path, "error", err)
		}
	}

	imp.stats.FilesProcessed++
	return &imp.stats, nil
}

// resolveMovements converts file entries to domain movements, rejecting
// duplicates and invalid metadata before anything touches the database.
func resolveMovements(entries []movementEntry) ([]domain.Movement, error) {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.Movement, 0, len(entries))
	for i, e := range entries {
		difficulty, err := domain.ParseDifficulty(e.Difficulty)
		if err != nil {
			return nil, fmt.Errorf("movement %d (%s): %w", i, e.ID, err)
		}
		m := domain.Movement{
			ID:           e.ID,
			Name:         e.Name,
			Difficulty:   difficulty,
			Position:     domain.Position(e.Position),
			Family:       e.Family,
			MuscleGroups: domain.NewMuscleSet(e.MuscleGroups...),
			DurationSec:  e.DurationSeconds,
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("movement %d: %w", i, err)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("duplicate movement id %s", m.ID)
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out, nil
}

func resolveTransitions(entries []transitionEntry) ([]transitions.Narrative, error) {
	out := make([]transitions.Narrative, 0, len(entries))
	for i, e := range entries {
		n := transitions.Narrative{
			From: domain.Position(e.From),
			To:   domain.Position(e.To),
			Text: e.Narrative,
		}
		if !n.From.Valid() || !n.To.Valid() {
			return nil, fmt.Errorf("transition %d has invalid positions %q -> %q", i, e.From, e.To)
		}
		if n.Text == "" {
			return nil, fmt.Errorf("transition %d (%s -> %s) has no narrative", i, e.From, e.To)
		}
		out = append(out, n)
	}
	return out, nil
}
