// Package queue defines the background jobs shared by the API server
// (producer) and the worker (consumer).
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// ArchiveDocumentTask is scheduled each time a document is uploaded. The
	// worker mirrors the hosted file into the archive bucket and, for PDFs,
	// extracts its text.
	ArchiveDocumentTask = "document:archive"
)

// ArchivePayload tells the worker which document to mirror and where the
// hosted copy lives.
type ArchivePayload struct {
	DocumentID string `json:"document_id"`
	URL        string `json:"url"`
	FileName   string `json:"file_name"`
	Format     string `json:"format"`
}

// EnqueueArchive enqueues an archive mirroring job.
func EnqueueArchive(ctx context.Context, client *asynq.Client, payload ArchivePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(ArchiveDocumentTask, data)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue archive task: %w", err)
	}
	return nil
}
