package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"traindesk/internal/auth"
	"traindesk/internal/model"
)

type createApprovalRequest struct {
	ContentType string `json:"contentType"`
	Context     string `json:"context"`
}

func (s *Server) handleCreateApproval(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	var req createApprovalRequest
	if err := decodeJSON(r, &req); err != nil || req.ContentType == "" {
		s.respondError(w, http.StatusBadRequest, "contentType is required")
		return
	}
	approval := &model.Approval{
		ID:          uuid.NewString(),
		RequesterID: session.UserID,
		ContentType: req.ContentType,
		Context:     req.Context,
	}
	if err := s.approvals.Create(r.Context(), approval); err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, approval)
}

func (s *Server) handleListApprovals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	approvals, err := s.approvals.List(r.Context(), q.Get("status"), q.Get("contentType"))
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if approvals == nil {
		approvals = []model.Approval{}
	}
	s.respondJSON(w, http.StatusOK, approvals)
}

func (s *Server) handleMyApprovals(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	approvals, err := s.approvals.ListByRequester(r.Context(), session.UserID)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if approvals == nil {
		approvals = []model.Approval{}
	}
	s.respondJSON(w, http.StatusOK, approvals)
}

type reviewRequest struct {
	Comment *string `json:"comment"`
}

func (s *Server) review(w http.ResponseWriter, r *http.Request, status model.ApprovalStatus) {
	id := chi.URLParam(r, "id")
	session, _ := auth.FromContext(r.Context())
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if status == model.ApprovalRejected && (req.Comment == nil || *req.Comment == "") {
		s.respondError(w, http.StatusBadRequest, "a rejection needs a comment")
		return
	}
	if err := s.approvals.Review(r.Context(), id, status, session.UserID, req.Comment); err != nil {
		s.respondRepoError(w, err)
		return
	}
	approval, err := s.approvals.Get(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, approval)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	s.review(w, r, model.ApprovalApproved)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	s.review(w, r, model.ApprovalRejected)
}

func (s *Server) handleDeleteApproval(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	if err := s.approvals.DeleteOwnPending(r.Context(), chi.URLParam(r, "id"), session.UserID); err != nil {
		s.respondRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
