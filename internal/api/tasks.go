package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"traindesk/internal/auth"
	"traindesk/internal/model"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	s.respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, task)
}

type taskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Deadline    string   `json:"deadline"`
	AssigneeIDs []string `json:"assigneeIds"`
}

func (t taskRequest) apply(task *model.Task) (badField string) {
	if t.Title == "" {
		return "title"
	}
	deadline, err := time.Parse("2006-01-02", t.Deadline)
	if err != nil {
		return "deadline"
	}
	status := model.TaskStatus(t.Status)
	if t.Status == "" {
		status = model.TaskPending
	}
	if !status.Valid() {
		return "status"
	}
	task.Title = t.Title
	task.Description = t.Description
	task.Status = status
	task.Deadline = deadline
	task.AssigneeIDs = t.AssigneeIDs
	if task.AssigneeIDs == nil {
		task.AssigneeIDs = []string{}
	}
	return ""
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	task := &model.Task{ID: uuid.NewString(), CreatedBy: session.UserID}
	if field := req.apply(task); field != "" {
		s.respondError(w, http.StatusBadRequest, "invalid "+field)
		return
	}
	if err := s.tasks.Create(r.Context(), task); err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if field := req.apply(existing); field != "" {
		s.respondError(w, http.StatusBadRequest, "invalid "+field)
		return
	}
	if err := s.tasks.Update(r.Context(), existing); err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, existing)
}

type statusRequest struct {
	Status model.TaskStatus `json:"status"`
}

// handleSetTaskStatus lets an assignee (or an admin) move a task through its
// lifecycle without touching the rest of the record.
func (s *Server) handleSetTaskStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, _ := auth.FromContext(r.Context())
	task, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if !session.IsAdmin() && !slices.Contains(task.AssigneeIDs, session.UserID) {
		s.respondError(w, http.StatusForbidden, "not assigned to this task")
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil || !req.Status.Valid() {
		s.respondError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if err := s.tasks.SetStatus(r.Context(), id, req.Status); err != nil {
		s.respondRepoError(w, err)
		return
	}
	task.Status = req.Status
	s.respondJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadEvidence(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "id")
	session, _ := auth.FromContext(r.Context())
	task, err := s.tasks.Get(r.Context(), taskID)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	up, err := s.readUpload(w, r, "file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.uploadAndRecord(r, up, session.UserID)
	if err != nil {
		s.respondMediaError(w, err)
		return
	}
	evidence := &model.Evidence{
		ID:           uuid.NewString(),
		TaskID:       taskID,
		UserID:       session.UserID,
		FileName:     up.filename,
		URL:          result.URL,
		PublicID:     result.PublicID,
		ResourceType: result.ResourceType,
		Format:       result.Format,
	}
	if err := s.tasks.AddEvidence(r.Context(), evidence); err != nil {
		s.respondRepoError(w, err)
		return
	}
	// Landing evidence completes the task.
	if task.Status != model.TaskCompleted {
		if err := s.tasks.SetStatus(r.Context(), taskID, model.TaskCompleted); err != nil {
			s.log.Warn("advance task status", zap.Error(err))
		}
	}
	s.respondJSON(w, http.StatusCreated, evidence)
}

func (s *Server) handleDeleteEvidence(w http.ResponseWriter, r *http.Request) {
	evidenceID := chi.URLParam(r, "evidenceID")
	session, _ := auth.FromContext(r.Context())
	evidence, err := s.tasks.GetEvidence(r.Context(), evidenceID)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if evidence.UserID != session.UserID && !session.IsAdmin() {
		s.respondError(w, http.StatusForbidden, "not your evidence")
		return
	}
	if s.gateway.Configured() {
		if err := s.gateway.Delete(r.Context(), evidence.URL, evidence.ResourceType); err != nil {
			s.log.Warn("delete hosted evidence", zap.Error(err))
		}
	}
	_ = s.assets.DeleteByPublicID(r.Context(), evidence.PublicID)
	if err := s.tasks.DeleteEvidence(r.Context(), evidenceID); err != nil {
		s.respondRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
