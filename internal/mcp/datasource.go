package mcp

import (
	"context"

	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/engine"
)

// DataSource abstracts the sequencing core for MCP tools. Both
// *engine.Generator (local, backed by Postgres) and HTTPClient (remote via
// REST API) satisfy this interface.
type DataSource interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error)
	Validate(ctx context.Context, userID int, movementIDs []string, difficulty domain.Difficulty, targetDurationSec int) (*domain.QualityReport, error)
	ListMovements(ctx context.Context, maxTier domain.Difficulty) ([]domain.Movement, error)
	GetMovement(ctx context.Context, id string) (*domain.Movement, error)
	ListRules(ctx context.Context) ([]domain.SequenceRule, error)
}

// Compile-time check: *engine.Generator satisfies DataSource.
var _ DataSource = (*engine.Generator)(nil)
