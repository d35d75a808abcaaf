package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/storage"
	"github.com/meltforce/matseq/internal/transitions"
)

type stubSequencer struct {
	generateRes *domain.GenerateResult
	generateErr error
	report      *domain.QualityReport
	validateErr error
	movements   []domain.Movement
	movement    *domain.Movement
	rules       []domain.SequenceRule
	listErr     error
}

func (s *stubSequencer) Generate(_ context.Context, _ domain.GenerateRequest) (*domain.GenerateResult, error) {
	return s.generateRes, s.generateErr
}

func (s *stubSequencer) Validate(_ context.Context, _ int, _ []string, _ domain.Difficulty, _ int) (*domain.QualityReport, error) {
	return s.report, s.validateErr
}

func (s *stubSequencer) ListMovements(_ context.Context, _ domain.Difficulty) ([]domain.Movement, error) {
	return s.movements, s.listErr
}

func (s *stubSequencer) GetMovement(_ context.Context, _ string) (*domain.Movement, error) {
	return s.movement, s.listErr
}

func (s *stubSequencer) ListRules(_ context.Context) ([]domain.SequenceRule, error) {
	return s.rules, s.listErr
}

type stubStore struct {
	logged       []uuid.UUID
	logErr       error
	entry        *storage.SequenceLogEntry
	usageCount   int64
	usageErr     error
	lastUsageIDs []string
	overrides    []transitions.Narrative
	overridesErr error
}

func (s *stubStore) InsertSequenceLog(_ context.Context, _ domain.GenerateRequest, res *domain.GenerateResult) error {
	if s.logErr != nil {
		return s.logErr
	}
	s.logged = append(s.logged, res.ID)
	return nil
}

func (s *stubStore) GetSequenceLog(_ context.Context, _ uuid.UUID) (*storage.SequenceLogEntry, error) {
	return s.entry, nil
}

func (s *stubStore) RecordUsage(_ context.Context, _ int, movementIDs []string, _ time.Time) (int64, error) {
	s.lastUsageIDs = movementIDs
	return s.usageCount, s.usageErr
}

func (s *stubStore) GetOrCreateUser(_ context.Context, _, _ string) (int, error) {
	return 1, nil
}

func (s *stubStore) TransitionOverrides(_ context.Context) ([]transitions.Narrative, error) {
	return s.overrides, s.overridesErr
}

func testServer(gen Sequencer, store Store) *Server {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(gen, store, "test-key", log)
}

func authedRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-API-Key", "test-key")
	req.Header.Set("Content-Type", "application/json")
	return req
}

// TestHandleGenerateSuccess verifies the happy path returns the result and
// writes an audit log entry.
func TestHandleGenerateSuccess(t *testing.T) {
	res := &domain.GenerateResult{
		ID: uuid.New(),
		Sequence: []domain.SequenceItem{
			{MovementID: "the-hundred", Name: "The Hundred", PositionIndex: 0, ElapsedSeconds: 180},
		},
		QualityReport: domain.QualityReport{OverallPass: true, Score: 90},
		GeneratedAt:   time.Now().UTC(),
	}
	store := &stubStore{}
	srv := testServer(&stubSequencer{generateRes: res}, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sequences",
		`{"target_duration_seconds":1800,"difficulty":"beginner"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	var got domain.GenerateResult
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got.ID != res.ID || len(got.Sequence) != 1 {
		t.Errorf("result = %+v, want echoed generation", got)
	}
	if len(store.logged) != 1 || store.logged[0] != res.ID {
		t.Errorf("audit log ids = %v, want [%s]", store.logged, res.ID)
	}
}

// TestHandleGenerateAuditFailureIsNotFatal verifies a failing audit write does
// not change the response.
func TestHandleGenerateAuditFailureIsNotFatal(t *testing.T) {
	res := &domain.GenerateResult{ID: uuid.New(), GeneratedAt: time.Now().UTC()}
	srv := testServer(&stubSequencer{generateRes: res}, &stubStore{logErr: errors.New("db down")})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sequences",
		`{"target_duration_seconds":1800,"difficulty":"beginner"}`))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 despite audit failure", rec.Code)
	}
}

// TestHandleGenerateErrorMapping verifies each sentinel maps to its status.
func TestHandleGenerateErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient catalogue", domain.ErrInsufficientCatalogue, http.StatusUnprocessableEntity},
		{"collaborator down", domain.ErrCollaboratorUnavailable, http.StatusServiceUnavailable},
		{"malformed output", domain.ErrMalformedSequence, http.StatusInternalServerError},
		{"bad request", errors.New("invalid difficulty"), http.StatusBadRequest},
	}
	for _, c := range cases {
		srv := testServer(&stubSequencer{generateErr: c.err}, &stubStore{})
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sequences",
			`{"target_duration_seconds":1800,"difficulty":"beginner"}`))
		if rec.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.want)
		}
	}
}

// TestHandleGenerateRequiresAuth verifies the generation route sits behind the
// API key.
func TestHandleGenerateRequiresAuth(t *testing.T) {
	srv := testServer(&stubSequencer{}, &stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sequences",
		strings.NewReader(`{"target_duration_seconds":1800,"difficulty":"beginner"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without API key", rec.Code)
	}
}

// TestHandleValidate verifies the validate endpoint returns the report and
// maps malformed input to 400.
func TestHandleValidate(t *testing.T) {
	report := &domain.QualityReport{OverallPass: true, Score: 85}
	srv := testServer(&stubSequencer{report: report}, &stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sequences/validate",
		`{"movement_ids":["the-hundred","seal"],"difficulty":"beginner","target_duration_seconds":600}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	var got domain.QualityReport
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Score != 85 {
		t.Errorf("score = %d, want 85", got.Score)
	}

	srv = testServer(&stubSequencer{validateErr: domain.ErrMalformedSequence}, &stubStore{})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sequences/validate",
		`{"movement_ids":["nope"],"difficulty":"beginner","target_duration_seconds":600}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed input: status = %d, want 400", rec.Code)
	}

	// missing movement list never reaches the core
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sequences/validate",
		`{"difficulty":"beginner","target_duration_seconds":600}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty movement_ids: status = %d, want 400", rec.Code)
	}
}

// TestHandleRecordUsage verifies the usage write endpoint.
func TestHandleRecordUsage(t *testing.T) {
	store := &stubStore{usageCount: 2}
	srv := testServer(&stubSequencer{}, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/usage",
		`{"movement_ids":["the-hundred","seal"]}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body)
	}
	var got map[string]int64
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["recorded"] != 2 {
		t.Errorf("recorded = %d, want 2", got["recorded"])
	}
	if len(store.lastUsageIDs) != 2 {
		t.Errorf("store received %v, want both ids", store.lastUsageIDs)
	}
}

// TestHandleGetSequence verifies lookup by id, invalid ids, and misses.
func TestHandleGetSequence(t *testing.T) {
	id := uuid.New()
	entry := &storage.SequenceLogEntry{ID: id, UserID: 1, Score: 77, CreatedAt: time.Now().UTC()}
	srv := testServer(&stubSequencer{}, &stubStore{entry: entry})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sequences/"+id.String(), nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sequences/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid id: status = %d, want 400", rec.Code)
	}

	srv = testServer(&stubSequencer{}, &stubStore{})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sequences/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("miss: status = %d, want 404", rec.Code)
	}
}

// TestHandleListMovements verifies the catalogue read and the difficulty
// query parameter validation.
func TestHandleListMovements(t *testing.T) {
	movements := []domain.Movement{{ID: "the-hundred", Name: "The Hundred"}}
	srv := testServer(&stubSequencer{movements: movements}, &stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movements?difficulty=beginner", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []domain.Movement
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "the-hundred" {
		t.Errorf("movements = %v", got)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movements?difficulty=expert", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad difficulty: status = %d, want 400", rec.Code)
	}

	srv = testServer(&stubSequencer{listErr: domain.ErrCollaboratorUnavailable}, &stubStore{})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movements", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("catalogue down: status = %d, want 503", rec.Code)
	}
}

// TestHandleGetMovement verifies a miss returns 404.
func TestHandleGetMovement(t *testing.T) {
	m := &domain.Movement{ID: "seal", Name: "Seal"}
	srv := testServer(&stubSequencer{movement: m}, &stubStore{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movements/seal", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	srv = testServer(&stubSequencer{}, &stubStore{})
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movements/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("miss: status = %d, want 404", rec.Code)
	}
}

// TestHandleListTransitions verifies defaults merged with overrides.
func TestHandleListTransitions(t *testing.T) {
	srv := testServer(&stubSequencer{}, &stubStore{overrides: []transitions.Narrative{
		{From: domain.PositionSupine, To: domain.PositionProne, Text: "custom flip"},
	}})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/transitions", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []transitions.Narrative
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 25 {
		t.Fatalf("narratives = %d, want full 5x5 grid", len(got))
	}
	found := false
	for _, n := range got {
		if n.From == domain.PositionSupine && n.To == domain.PositionProne {
			found = n.Text == "custom flip"
		}
	}
	if !found {
		t.Error("override not applied to supine -> prone")
	}
}
