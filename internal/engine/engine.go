// Package engine is the sequencing core: candidate filtering, greedy
// constraint-driven construction, independent quality validation, and final
// assembly. A Generator is stateless across calls; every generation builds its
// own catalogue index, usage snapshot, and transition library from one batched
// read of each collaborator, so concurrent calls share no mutable state.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/matseq/internal/catalog"
	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/transitions"
	"github.com/meltforce/matseq/internal/usage"
)

// CatalogueSource is the movement catalogue collaborator: a bulk read by
// difficulty-tier ceiling plus the numbered rule reference data.
type CatalogueSource interface {
	MovementsByTier(ctx context.Context, maxTier domain.Difficulty) ([]domain.Movement, error)
	SequenceRules(ctx context.Context) ([]domain.SequenceRule, error)
}

// UsageSource is the per-user usage-history collaborator: one batched read of
// last-used timestamps across a movement id set.
type UsageSource interface {
	LastUsed(ctx context.Context, userID int, movementIDs []string) (map[string]time.Time, error)
}

// TransitionSource supplies transition-narrative overrides for the built-in
// library.
type TransitionSource interface {
	TransitionOverrides(ctx context.Context) ([]transitions.Narrative, error)
}

// Generator orchestrates one generation call end to end.
type Generator struct {
	catalogue   CatalogueSource
	usage       UsageSource
	transitions TransitionSource
	params      Params
	log         *slog.Logger
	now         func() time.Time
}

// New creates a Generator over the given collaborators.
func New(cat CatalogueSource, us UsageSource, trans TransitionSource, params Params, log *slog.Logger) *Generator {
	return &Generator{
		catalogue:   cat,
		usage:       us,
		transitions: trans,
		params:      params,
		log:         log,
		now:         time.Now,
	}
}

// Params returns the generator's rule policy.
func (g *Generator) Params() Params { return g.params }

// Generate produces an ordered sequence for the request plus its quality
// report. Collaborator failures surface as ErrCollaboratorUnavailable; an
// empty pool after relaxation as ErrInsufficientCatalogue. Rule failures and
// under-duration are reported as data, never as errors.
func (g *Generator) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	idx, snap, lib, err := g.loadSnapshots(ctx, req.UserID, req.Difficulty)
	if err != nil {
		return nil, err
	}

	pool, warnings, err := filterPool(idx, req, g.params)
	if err != nil {
		return nil, err
	}

	built := buildSequence(pool, snap, idx, g.params, req)
	warnings = append(warnings, built.warnings...)

	items := assemble(built.placed, lib)

	eligibleIDs := make([]string, 0, len(pool))
	for _, m := range pool {
		eligibleIDs = append(eligibleIDs, m.ID)
	}
	report, err := validateSequence(items, idx, snap, eligibleIDs, g.params, req)
	if err != nil {
		g.log.Error("generated sequence failed structural validation", "error", err)
		return nil, err
	}

	res := &domain.GenerateResult{
		ID:            uuid.New(),
		Sequence:      items,
		QualityReport: report,
		UnderDuration: built.underDuration,
		Warnings:      warnings,
		GeneratedAt:   g.now().UTC(),
	}
	g.log.Info("sequence generated",
		"user_id", req.UserID,
		"difficulty", req.Difficulty.String(),
		"items", len(items),
		"score", report.Score,
		"under_duration", built.underDuration,
	)
	return res, nil
}

// Validate runs the quality validator over a caller-supplied movement id list,
// treating the full tier-eligible catalogue as the eligible pool. Elapsed
// times and indices are reconstructed from catalogue durations, so the caller
// only names movements.
func (g *Generator) Validate(ctx context.Context, userID int, movementIDs []string, difficulty domain.Difficulty, targetDurationSec int) (*domain.QualityReport, error) {
	idx, snap, lib, err := g.loadSnapshots(ctx, userID, difficulty)
	if err != nil {
		return nil, err
	}

	placed := make([]domain.Movement, 0, len(movementIDs))
	for _, id := range movementIDs {
		m, ok := idx.ByID(id)
		if !ok {
			return nil, fmt.Errorf("movement %s not in catalogue: %w", id, domain.ErrMalformedSequence)
		}
		placed = append(placed, m)
	}
	items := assemble(placed, lib)

	eligible := idx.ByMaxTier(difficulty)
	eligibleIDs := make([]string, 0, len(eligible))
	for _, m := range eligible {
		eligibleIDs = append(eligibleIDs, m.ID)
	}

	req := domain.GenerateRequest{UserID: userID, Difficulty: difficulty, TargetDurationSeconds: targetDurationSec}
	report, err := validateSequence(items, idx, snap, eligibleIDs, g.params, req)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListMovements returns the catalogue at or below the given tier.
func (g *Generator) ListMovements(ctx context.Context, maxTier domain.Difficulty) ([]domain.Movement, error) {
	movements, err := g.catalogue.MovementsByTier(ctx, maxTier)
	if err != nil {
		return nil, fmt.Errorf("catalogue read failed: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	return movements, nil
}

// GetMovement returns a single catalogue movement by id.
func (g *Generator) GetMovement(ctx context.Context, id string) (*domain.Movement, error) {
	movements, err := g.ListMovements(ctx, domain.DifficultyAdvanced)
	if err != nil {
		return nil, err
	}
	for _, m := range movements {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, nil
}

// ListRules returns the numbered rule reference data.
func (g *Generator) ListRules(ctx context.Context) ([]domain.SequenceRule, error) {
	rules, err := g.catalogue.SequenceRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("rule read failed: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	return rules, nil
}

// loadSnapshots performs the batched collaborator reads for one call: the
// catalogue at the tier ceiling, the user's usage history across it, and the
// transition narrative overrides. No per-step re-fetching happens inside the
// sequencer loop.
func (g *Generator) loadSnapshots(ctx context.Context, userID int, tier domain.Difficulty) (*catalog.Index, usage.Snapshot, *transitions.Library, error) {
	movements, err := g.catalogue.MovementsByTier(ctx, tier)
	if err != nil {
		return nil, usage.Snapshot{}, nil, fmt.Errorf("catalogue read failed: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	idx, err := catalog.NewIndex(movements)
	if err != nil {
		return nil, usage.Snapshot{}, nil, err
	}

	ids := make([]string, 0, len(movements))
	for _, m := range movements {
		ids = append(ids, m.ID)
	}
	lastUsed, err := g.usage.LastUsed(ctx, userID, ids)
	if err != nil {
		return nil, usage.Snapshot{}, nil, fmt.Errorf("usage read failed: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	snap := usage.NewSnapshot(lastUsed, g.now())

	lib := transitions.Defaults()
	overrides, err := g.transitions.TransitionOverrides(ctx)
	if err != nil {
		return nil, usage.Snapshot{}, nil, fmt.Errorf("transition read failed: %w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	lib.Apply(overrides)

	return idx, snap, lib, nil
}

func validateRequest(req domain.GenerateRequest) error {
	if !req.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %d", int(req.Difficulty))
	}
	if req.TargetDurationSeconds <= 0 {
		return fmt.Errorf("target duration must be positive, got %d", req.TargetDurationSeconds)
	}
	return nil
}
