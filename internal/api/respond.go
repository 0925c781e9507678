package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"traindesk/internal/repository"
)

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// respondRepoError maps repository errors onto HTTP statuses.
func (s *Server) respondRepoError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrNotPending):
		s.respondError(w, http.StatusConflict, "request already decided")
	default:
		s.log.Error("repository error", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
