package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/server/models"
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	u, err := s.users.Register(r.Context(), creds)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decode(w, r, &creds) {
		return
	}
	u, err := s.users.Login(r.Context(), creds)
	if err != nil {
		writeError(w, err, "invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListAll(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, models.JobQuery{})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	q := models.JobQuery{TechStack: strings.TrimSpace(r.URL.Query().Get("techStack"))}
	if raw := r.URL.Query().Get("status"); strings.TrimSpace(raw) != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %w", common.ErrValidationFailed, err), "")
			return
		}
		q.Status = status
	}
	s.list(w, r, q)
}

func (s *Server) handleSortedByDeadline(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, models.JobQuery{SortByDeadline: true})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request, q models.JobQuery) {
	jobs, err := s.jobs.List(r.Context(), userIDFrom(r.Context()), q)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.jobs.Stats(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var job domain.JobApplication
	if !decode(w, r, &job) {
		return
	}
	created, err := s.jobs.Create(r.Context(), userIDFrom(r.Context()), job)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var job domain.JobApplication
	if !decode(w, r, &job) {
		return
	}
	updated, err := s.jobs.Update(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), job)
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.jobs.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, fmt.Errorf("%w: invalid JSON body", common.ErrValidationFailed), "")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps service errors to status codes. msg overrides the body
// text; internal errors never leak their cause.
func writeError(w http.ResponseWriter, err error, msg string) {
	code := statusFor(err)
	if msg == "" {
		msg = err.Error()
	}
	if code == http.StatusInternalServerError {
		msg = common.ErrorInternal.Error()
	}
	writeJSON(w, code, errorBody{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrValidationFailed):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
