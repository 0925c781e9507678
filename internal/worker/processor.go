// Package worker runs the background side of the archive pipeline.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"traindesk/internal/archive"
	"traindesk/internal/pdftext"
	"traindesk/internal/queue"
	"traindesk/internal/repository"
)

// Processor is plugged into the asynq worker loop.
type Processor struct {
	docs   *repository.DocumentRepository
	store  *archive.Storage
	client *http.Client
	log    *zap.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(docs *repository.DocumentRepository, store *archive.Storage, log *zap.Logger) *Processor {
	return &Processor{
		docs:   docs,
		store:  store,
		client: &http.Client{Timeout: 2 * time.Minute},
		log:    log,
	}
}

// Handler registers the archive job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.ArchiveDocumentTask, p.handleArchive)
	return mux
}

func (p *Processor) handleArchive(ctx context.Context, task *asynq.Task) error {
	var payload queue.ArchivePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	failure := func(err error) error {
		p.log.Warn("archive failed",
			zap.String("document_id", payload.DocumentID),
			zap.Error(err))
		_ = p.docs.MarkArchiveFailed(ctx, payload.DocumentID, err.Error())
		return err
	}
	if err := p.docs.MarkArchiving(ctx, payload.DocumentID); err != nil {
		return failure(err)
	}
	data, contentType, err := p.download(ctx, payload.URL)
	if err != nil {
		return failure(err)
	}
	objectKey := archiveObjectKey(payload.DocumentID, payload.FileName)
	if err := p.store.Put(ctx, objectKey, data, contentType); err != nil {
		return failure(err)
	}
	var text string
	if isPDF(payload.Format, contentType) {
		text, err = pdftext.Extract(data)
		if err != nil {
			// A broken PDF still gets mirrored; only the text index is lost.
			p.log.Warn("pdf text extraction failed",
				zap.String("document_id", payload.DocumentID),
				zap.Error(err))
			text = ""
		}
	}
	if err := p.docs.MarkArchived(ctx, payload.DocumentID, objectKey, text); err != nil {
		return failure(err)
	}
	p.log.Info("document archived",
		zap.String("document_id", payload.DocumentID),
		zap.String("object_key", objectKey),
		zap.Int("bytes", len(data)))
	return nil
}

func (p *Processor) download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch hosted file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch hosted file: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read hosted file: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func isPDF(format, contentType string) bool {
	return strings.EqualFold(format, "pdf") ||
		strings.Contains(strings.ToLower(contentType), "application/pdf")
}

func archiveObjectKey(documentID, fileName string) string {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("%s/%s", documentID, name)
}
