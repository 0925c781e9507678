package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewResolver(1<<20, 2*time.Second, zap.NewNop())
}

func TestResolveTextBuffersContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	p := newTestResolver(t).Resolve(context.Background(), srv.URL+"/notes.txt", "")
	require.Equal(t, StateReady, p.State)
	assert.Equal(t, KindText, p.Kind)
	assert.Equal(t, "hello world", p.Text)
}

func TestResolvePDFRetagsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Host serves raw content with a wrong content type on purpose.
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	p := newTestResolver(t).Resolve(context.Background(), srv.URL+"/scan.pdf", "")
	require.Equal(t, StateReady, p.State)
	assert.Equal(t, KindPDF, p.Kind)
	assert.Equal(t, "application/pdf", p.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 fake"), p.Data)
}

func TestResolveFetchFailureDegradesSilently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	p := newTestResolver(t).Resolve(context.Background(), srv.URL+"/notes.txt", "")
	assert.Equal(t, StateUnavailable, p.State)
	assert.Empty(t, p.Text)
	assert.NotEmpty(t, p.Reason)
}

func TestResolveUnreachableHostDegradesSilently(t *testing.T) {
	p := newTestResolver(t).Resolve(context.Background(), "http://127.0.0.1:1/gone.txt", "")
	assert.Equal(t, StateUnavailable, p.State)
	assert.Empty(t, p.Text)
}

func TestResolveNonFetchKindsSkipNetwork(t *testing.T) {
	// No server exists behind these URLs; image/video/office/youtube must not
	// trigger a fetch at all.
	r := newTestResolver(t)
	for _, url := range []string{
		"http://127.0.0.1:1/photo.png",
		"http://127.0.0.1:1/clip.mp4",
		"http://127.0.0.1:1/plan.docx",
		"https://youtu.be/dQw4w9WgXcQ",
	} {
		p := r.Resolve(context.Background(), url, "")
		assert.Equal(t, StateReady, p.State, url)
	}
}

func TestResolveWrappedReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("wrapped"))
	}))
	defer srv.Close()

	p := newTestResolver(t).Resolve(context.Background(), `{"url":"`+srv.URL+`/a.txt"}`, "")
	require.Equal(t, StateReady, p.State)
	assert.Equal(t, "wrapped", p.Text)
}

func TestResolveSizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	r := NewResolver(1024, 2*time.Second, zap.NewNop())
	p := r.Resolve(context.Background(), srv.URL+"/big.txt", "")
	assert.Equal(t, StateUnavailable, p.State)
}
