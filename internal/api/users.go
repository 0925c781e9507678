package api

import (
	"net/http"

	"github.com/google/uuid"

	"traindesk/internal/auth"
	"traindesk/internal/model"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListActive(r.Context())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if users == nil {
		users = []model.User{}
	}
	s.respondJSON(w, http.StatusOK, users)
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.users.ListPositions(r.Context())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if positions == nil {
		positions = []model.Position{}
	}
	s.respondJSON(w, http.StatusOK, positions)
}

type createUserRequest struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Role       string  `json:"role"`
	PositionID *string `json:"positionId"`
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = "employee"
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         req.Role,
		PositionID:   req.PositionID,
		Active:       true,
		PasswordHash: hash,
	}
	if err := s.users.Create(r.Context(), user); err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, user)
}
