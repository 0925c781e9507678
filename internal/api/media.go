package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"traindesk/internal/auth"
	"traindesk/internal/media"
	"traindesk/internal/model"
)

type uploadedFile struct {
	data     []byte
	filename string
	mimeType string
}

// readUpload pulls one file out of a multipart form, capped at the configured
// upload limit.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request, field string) (*uploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, err
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return readFormFile(file, header)
}

func readFormFile(file multipart.File, header *multipart.FileHeader) (*uploadedFile, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		sniff := data
		if len(sniff) > 512 {
			sniff = sniff[:512]
		}
		mimeType = http.DetectContentType(sniff)
	}
	filename := header.Filename
	if filename == "" {
		filename = "upload"
	}
	return &uploadedFile{data: data, filename: filename, mimeType: mimeType}, nil
}

// uploadAndRecord streams a file through the gateway and records the returned
// triple in media_assets.
func (s *Server) uploadAndRecord(r *http.Request, up *uploadedFile, ownerID string) (*media.UploadResult, error) {
	result, err := s.gateway.Upload(r.Context(), up.data, up.filename, up.mimeType)
	if err != nil {
		return nil, err
	}
	asset := &model.MediaAsset{
		ID:           uuid.NewString(),
		URL:          result.URL,
		PublicID:     result.PublicID,
		ResourceType: result.ResourceType,
		Format:       result.Format,
		Folder:       result.Folder,
		Bytes:        result.Bytes,
		OwnerID:      ownerID,
	}
	if err := s.assets.Create(r.Context(), asset); err != nil {
		// The hosted object exists either way; losing the index row is
		// recoverable via reference parsing.
		s.log.Warn("record media asset", zap.Error(err))
	}
	return result, nil
}

func (s *Server) respondMediaError(w http.ResponseWriter, err error) {
	var conflict *media.ConflictError
	switch {
	case errors.Is(err, media.ErrNotConfigured):
		s.respondError(w, http.StatusServiceUnavailable, "media host not configured")
	case errors.As(err, &conflict):
		s.respondError(w, http.StatusConflict, "object key already exists")
	default:
		s.log.Error("media upload", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "media host rejected the upload")
	}
}

func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
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
	s.respondJSON(w, http.StatusCreated, result)
}

type deleteMediaRequest struct {
	Reference    string `json:"reference"`
	ResourceType string `json:"resourceType"`
}

func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	var req deleteMediaRequest
	if err := decodeJSON(r, &req); err != nil || req.Reference == "" {
		s.respondError(w, http.StatusBadRequest, "reference is required")
		return
	}
	if err := s.gateway.Delete(r.Context(), req.Reference, req.ResourceType); err != nil {
		if errors.Is(err, media.ErrNotConfigured) {
			s.respondError(w, http.StatusServiceUnavailable, "media host not configured")
			return
		}
		s.log.Error("media delete", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, "media host rejected the delete")
		return
	}
	publicID := req.Reference
	if ref := media.ParseReference(req.Reference); ref != nil {
		publicID = ref.PublicID
	}
	_ = s.assets.DeleteByPublicID(r.Context(), publicID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value := q.Get("url")
	if value == "" {
		s.respondError(w, http.StatusBadRequest, "url is required")
		return
	}
	p := s.resolver.Resolve(r.Context(), value, q.Get("name"))
	s.respondJSON(w, http.StatusOK, p)
}
