// Package preview resolves an arbitrary stored media reference into something
// a viewer can render: a content class plus, for PDF and plain text, the
// buffered bytes themselves. Buffering happens here because the media host
// rejects cross-origin reads from the embedding page; every other class is
// rendered by the browser or an external viewer under its own fetch rules.
package preview

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// State tells the viewer whether content is renderable.
type State string

const (
	StateReady       State = "ready"
	StateUnavailable State = "unavailable"
)

// Preview is the resolved payload for one media reference. A fetch failure is
// not an error: the preview degrades to StateUnavailable and the viewer falls
// back to the guaranteed download path.
type Preview struct {
	State       State  `json:"state"`
	Kind        Kind   `json:"kind"`
	URL         string `json:"url"`
	DownloadURL string `json:"downloadUrl"`
	YouTubeID   string `json:"youtubeId,omitempty"`
	EmbedURL    string `json:"embedUrl,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Data        []byte `json:"data,omitempty"`
	Text        string `json:"text,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Resolver classifies references and buffers PDF/Text content.
type Resolver struct {
	client   *http.Client
	maxBytes int64
	log      *zap.Logger
}

// NewResolver builds a Resolver with a bounded fetch size and timeout. The
// timeout guarantees a fetch resolves to unavailable instead of hanging.
func NewResolver(maxBytes int64, timeout time.Duration, log *zap.Logger) *Resolver {
	if maxBytes <= 0 {
		maxBytes = 25 << 20
	}
	return &Resolver{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		log:      log,
	}
}

// Resolve normalizes, classifies and, for PDF/Text, loads the referenced
// content. It never returns an error for fetch failures; those degrade to
// StateUnavailable and are logged for diagnostics.
func (r *Resolver) Resolve(ctx context.Context, rawValue, displayName string) *Preview {
	cleanURL := Normalize(rawValue)
	c := Classify(cleanURL, displayName)

	p := &Preview{
		State:       StateReady,
		Kind:        c.Kind,
		URL:         cleanURL,
		DownloadURL: DownloadURL(cleanURL),
	}
	switch c.Kind {
	case KindYouTube:
		p.YouTubeID = c.YouTubeID
		p.EmbedURL = EmbedURL(c.YouTubeID)
		return p
	case KindPDF:
		data, err := r.fetch(ctx, cleanURL)
		if err != nil {
			return r.unavailable(p, cleanURL, err)
		}
		// Re-tag as PDF no matter what the host declared; raw objects are
		// frequently served without a correct content type.
		p.ContentType = "application/pdf"
		p.Data = data
		return p
	case KindText:
		data, err := r.fetch(ctx, cleanURL)
		if err != nil {
			return r.unavailable(p, cleanURL, err)
		}
		p.ContentType = "text/plain; charset=utf-8"
		p.Text = string(data)
		return p
	}
	// Image, video, office and unknown delegate rendering to the client.
	return p
}

func (r *Resolver) unavailable(p *Preview, url string, err error) *Preview {
	r.log.Warn("preview fetch failed", zap.String("url", url), zap.Error(err))
	p.State = StateUnavailable
	p.Reason = err.Error()
	p.Data = nil
	p.Text = ""
	return p
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch content: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch content: http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("content exceeds %d bytes", r.maxBytes)
	}
	return data, nil
}
