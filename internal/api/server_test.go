package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"traindesk/internal/auth"
	"traindesk/internal/config"
	"traindesk/internal/media"
	"traindesk/internal/model"
	"traindesk/internal/preview"
)

func testServer(t *testing.T) (*Server, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager([]byte("test-secret"), time.Hour)
	srv := New(Deps{
		Config:   &config.Config{Address: ":0", MaxUploadBytes: 1 << 20},
		Tokens:   tokens,
		Resolver: preview.NewResolver(1<<20, time.Second, zap.NewNop()),
		Log:      zap.NewNop(),
	})
	return srv, tokens
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/api/media/preview?url=x", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/media/preview?url=x", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRejectEmployees(t *testing.T) {
	srv, tokens := testServer(t)
	router := srv.Router()
	token, _, err := tokens.Issue("u1", "emp@example.com", "employee")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/api/media", strings.NewReader(`{"reference":"x"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPreviewEndpointClassifiesWithoutFetching(t *testing.T) {
	srv, tokens := testServer(t)
	router := srv.Router()
	token, _, err := tokens.Issue("u1", "emp@example.com", "employee")
	require.NoError(t, err)

	target := "/api/media/preview?name=photo.png&url=" +
		url.QueryEscape("https://res.cloudinary.com/demo/image/upload/v1/documents/photo.png")
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var p preview.Preview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, preview.StateReady, p.State)
	assert.Equal(t, preview.KindImage, p.Kind)
	assert.Contains(t, p.DownloadURL, "/upload/fl_attachment/")
}

func TestPreviewEndpointRequiresValue(t *testing.T) {
	srv, tokens := testServer(t)
	router := srv.Router()
	token, _, err := tokens.Issue("u1", "emp@example.com", "employee")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/media/preview", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaErrorStatusMapping(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.respondMediaError(rec, media.ErrNotConfigured)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	// A duplicate public id is a conflict, never retried server-side.
	rec = httptest.NewRecorder()
	srv.respondMediaError(rec, &media.ConflictError{PublicID: "documents/1_report"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	srv.respondMediaError(rec, &media.UploadError{Message: "unsupported format"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestTaskRequestValidation(t *testing.T) {
	base := taskRequest{Title: "Inventory check", Deadline: "2026-09-15"}

	var task model.Task
	field := base.apply(&task)
	assert.Equal(t, "", field)
	assert.Equal(t, "Inventory check", task.Title)
	assert.NotNil(t, task.AssigneeIDs)

	bad := base
	bad.Deadline = "15/09/2026"
	assert.Equal(t, "deadline", bad.apply(&task))

	bad = base
	bad.Status = "done"
	assert.Equal(t, "status", bad.apply(&task))

	bad = base
	bad.Title = ""
	assert.Equal(t, "title", bad.apply(&task))
}
