package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"traindesk/internal/auth"
	"traindesk/internal/model"
	"traindesk/internal/queue"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.documents.List(r.Context())
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if docs == nil {
		docs = []model.Document{}
	}
	s.respondJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	up, err := s.readUpload(w, r, "file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	title := r.FormValue("title")
	if title == "" {
		title = up.filename
	}
	result, err := s.uploadAndRecord(r, up, session.UserID)
	if err != nil {
		s.respondMediaError(w, err)
		return
	}
	doc := &model.Document{
		ID:           uuid.NewString(),
		Title:        title,
		FileName:     up.filename,
		URL:          result.URL,
		PublicID:     result.PublicID,
		ResourceType: result.ResourceType,
		Format:       result.Format,
		Folder:       result.Folder,
		Bytes:        result.Bytes,
		OwnerID:      session.UserID,
	}
	if err := s.documents.Create(r.Context(), doc); err != nil {
		s.respondRepoError(w, err)
		return
	}
	payload := queue.ArchivePayload{
		DocumentID: doc.ID,
		URL:        doc.URL,
		FileName:   doc.FileName,
		Format:     doc.Format,
	}
	if err := queue.EnqueueArchive(r.Context(), s.queue, payload); err != nil {
		// The document is already live; the mirror can be re-queued later.
		s.log.Warn("enqueue archive", zap.String("document_id", doc.ID), zap.Error(err))
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	doc, err := s.documents.Get(r.Context(), id)
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if s.gateway.Configured() {
		if err := s.gateway.Delete(r.Context(), doc.URL, doc.ResourceType); err != nil {
			s.log.Warn("delete hosted document", zap.Error(err))
		}
	}
	_ = s.assets.DeleteByPublicID(r.Context(), doc.PublicID)
	if err := s.documents.Delete(r.Context(), id); err != nil {
		s.respondRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDocumentText(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if doc.Status != model.DocumentArchived || doc.Content == "" {
		s.respondError(w, http.StatusAccepted, "document text not available yet")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, doc.Content)
}

func (s *Server) handleDocumentArchiveURL(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondRepoError(w, err)
		return
	}
	if doc.ArchiveKey == nil {
		s.respondError(w, http.StatusNotFound, "archive copy unavailable")
		return
	}
	url, err := s.store.PresignURL(r.Context(), *doc.ArchiveKey)
	if err != nil {
		s.log.Error("presign archive url", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to generate url")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
