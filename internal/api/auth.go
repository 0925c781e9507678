package api

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"traindesk/internal/auth"
	"traindesk/internal/model"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.users.GetByEmail(r.Context(), req.Email)
	if err != nil || !user.Active || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		// One message for every failure mode; callers learn nothing about
		// which part was wrong.
		s.respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		s.log.Error("issue token", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.respondJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}
