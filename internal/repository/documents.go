package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"traindesk/internal/model"
)

// DocumentRepository manages hosted documents and their archive lifecycle.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository constructs a repository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Create inserts a freshly uploaded document.
func (r *DocumentRepository) Create(ctx context.Context, d *model.Document) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	if d.Status == "" {
		d.Status = model.DocumentStored
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO documents (id, title, file_name, url, public_id, resource_type, format, folder, bytes, archive_key, content, status, owner_id, error_message, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`, d.ID, d.Title, d.FileName, d.URL, d.PublicID, d.ResourceType, d.Format, d.Folder, d.Bytes, d.ArchiveKey, d.Content, d.Status, d.OwnerID, d.ErrorMessage, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Get returns one document.
func (r *DocumentRepository) Get(ctx context.Context, id string) (*model.Document, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, file_name, url, public_id, resource_type, format, folder, bytes, archive_key, content, status, owner_id, error_message, created_at, updated_at
		FROM documents WHERE id=$1
	`, id)
	return scanDocument(row)
}

// List returns all documents, newest first.
func (r *DocumentRepository) List(ctx context.Context) ([]model.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, file_name, url, public_id, resource_type, format, folder, bytes, archive_key, content, status, owner_id, error_message, created_at, updated_at
		FROM documents ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var out []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Delete removes one document row.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkArchiving flags a document as queued for archive mirroring.
func (r *DocumentRepository) MarkArchiving(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, model.DocumentArchiving, nil, nil, "")
}

// MarkArchived records the archive object key and any extracted text.
func (r *DocumentRepository) MarkArchived(ctx context.Context, id, archiveKey, content string) error {
	return r.setStatus(ctx, id, model.DocumentArchived, &archiveKey, nil, content)
}

// MarkArchiveFailed records a terminal archive failure.
func (r *DocumentRepository) MarkArchiveFailed(ctx context.Context, id, reason string) error {
	return r.setStatus(ctx, id, model.DocumentArchiveFailed, nil, &reason, "")
}

func (r *DocumentRepository) setStatus(ctx context.Context, id string, status model.DocumentStatus, archiveKey, errMsg *string, content string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE documents
		SET status=$1,
			archive_key=COALESCE($2, archive_key),
			error_message=$3,
			content=CASE WHEN $4 <> '' THEN $4 ELSE content END,
			updated_at=$5
		WHERE id=$6
	`, status, archiveKey, errMsg, content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	err := row.Scan(&d.ID, &d.Title, &d.FileName, &d.URL, &d.PublicID, &d.ResourceType, &d.Format, &d.Folder, &d.Bytes, &d.ArchiveKey, &d.Content, &d.Status, &d.OwnerID, &d.ErrorMessage, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &d, nil
}
