package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/engine"
	"github.com/meltforce/matseq/internal/storage"
	"github.com/meltforce/matseq/internal/transitions"
	"tailscale.com/client/tailscale"
)

// Sequencer is the generation core as the handlers see it.
type Sequencer interface {
	Generate(ctx context.Context, req domain.GenerateRequest) (*domain.GenerateResult, error)
	Validate(ctx context.Context, userID int, movementIDs []string, difficulty domain.Difficulty, targetDurationSec int) (*domain.QualityReport, error)
	ListMovements(ctx context.Context, maxTier domain.Difficulty) ([]domain.Movement, error)
	GetMovement(ctx context.Context, id string) (*domain.Movement, error)
	ListRules(ctx context.Context) ([]domain.SequenceRule, error)
}

// Store is the persistence surface the handlers need beyond the core:
// sequence audit log, post-commit usage writes, users, and transition reads.
type Store interface {
	InsertSequenceLog(ctx context.Context, req domain.GenerateRequest, res *domain.GenerateResult) error
	GetSequenceLog(ctx context.Context, id uuid.UUID) (*storage.SequenceLogEntry, error)
	RecordUsage(ctx context.Context, userID int, movementIDs []string, usedAt time.Time) (int64, error)
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
	TransitionOverrides(ctx context.Context) ([]transitions.Narrative, error)
}

// Compile-time checks against the concrete implementations.
var (
	_ Sequencer = (*engine.Generator)(nil)
	_ Store     = (*storage.DB)(nil)
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	gen    Sequencer
	store  Store
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(gen Sequencer, store Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		gen:    gen,
		store:  store,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Generation and usage writes (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sequences", s.handleGenerate)
		r.Post("/api/v1/sequences/validate", s.handleValidate)
		r.Post("/api/v1/usage", s.handleRecordUsage)
	})

	// Catalogue reads (no auth — tsnet handles access)
	s.router.Get("/api/v1/sequences/{id}", s.handleGetSequence)
	s.router.Get("/api/v1/movements", s.handleListMovements)
	s.router.Get("/api/v1/movements/{id}", s.handleGetMovement)
	s.router.Get("/api/v1/rules", s.handleListRules)
	s.router.Get("/api/v1/transitions", s.handleListTransitions)
	s.router.Get("/api/v1/me", s.handleMe)
}

// SetTailscale wraps all routes in Tailscale identity resolution once the
// tsnet local client is available.
func (s *Server) SetTailscale(lc *tailscale.LocalClient) {
	inner := s.router
	wrapped := chi.NewRouter()
	wrapped.Use(TailscaleIdentity(lc, s.store, s.log))
	wrapped.Mount("/", inner)
	s.router = wrapped
}
