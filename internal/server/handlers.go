package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/matseq/internal/domain"
	"github.com/meltforce/matseq/internal/transitions"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.UserID == 0 {
		req.UserID = userIDFromContext(r)
	}

	res, err := s.gen.Generate(r.Context(), req)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	// Audit log is best-effort; the generated sequence is already owned by
	// the caller.
	if err := s.store.InsertSequenceLog(r.Context(), req, res); err != nil {
		s.log.Warn("sequence log insert failed", "id", res.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientCatalogue):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrCollaboratorUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrMalformedSequence):
		s.log.Error("generation produced malformed sequence", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
}

// validateRequest is the body of POST /api/v1/sequences/validate: a caller-
// supplied ordered movement list to audit against the rules.
type validateRequest struct {
	UserID                int               `json:"user_id"`
	MovementIDs           []string          `json:"movement_ids"`
	Difficulty            domain.Difficulty `json:"difficulty"`
	TargetDurationSeconds int               `json:"target_duration_seconds"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.MovementIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "movement_ids required"})
		return
	}
	if !req.Difficulty.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "difficulty required"})
		return
	}
	if req.UserID == 0 {
		req.UserID = userIDFromContext(r)
	}

	report, err := s.gen.Validate(r.Context(), req.UserID, req.MovementIDs, req.Difficulty, req.TargetDurationSeconds)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedSequence) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type recordUsageRequest struct {
	UserID      int      `json:"user_id"`
	MovementIDs []string `json:"movement_ids"`
}

func (s *Server) handleRecordUsage(w http.ResponseWriter, r *http.Request) {
	var req recordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.MovementIDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "movement_ids required"})
		return
	}
	if req.UserID == 0 {
		req.UserID = userIDFromContext(r)
	}

	updated, err := s.store.RecordUsage(r.Context(), req.UserID, req.MovementIDs, time.Now().UTC())
	if err != nil {
		s.log.Error("usage record failed", "user_id", req.UserID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"recorded": updated})
}

func (s *Server) handleGetSequence(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sequence ID"})
		return
	}
	entry, err := s.store.GetSequenceLog(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entry == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "sequence not found"})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	tier := domain.DifficultyAdvanced
	if q := r.URL.Query().Get("difficulty"); q != "" {
		parsed, err := domain.ParseDifficulty(q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		tier = parsed
	}
	movements, err := s.gen.ListMovements(r.Context(), tier)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, movements)
}

func (s *Server) handleGetMovement(w http.ResponseWriter, r *http.Request) {
	m, err := s.gen.GetMovement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	if m == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "movement not found"})
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.gen.ListRules(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	lib := transitions.Defaults()
	overrides, err := s.store.TransitionOverrides(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
		return
	}
	lib.Apply(overrides)
	writeJSON(w, http.StatusOK, lib.All())
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}
