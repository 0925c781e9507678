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

// ErrNotPending is returned when a review targets an already decided solicitud.
var ErrNotPending = errors.New("approval is not pending")

// ApprovalRepository manages solicitudes and their review decisions.
type ApprovalRepository struct {
	pool *pgxpool.Pool
}

// NewApprovalRepository constructs a repository.
func NewApprovalRepository(pool *pgxpool.Pool) *ApprovalRepository {
	return &ApprovalRepository{pool: pool}
}

// Create inserts a pending solicitud.
func (r *ApprovalRepository) Create(ctx context.Context, a *model.Approval) error {
	a.CreatedAt = time.Now().UTC()
	a.Status = model.ApprovalPending
	_, err := r.pool.Exec(ctx, `
		INSERT INTO approvals (id, requester_id, content_type, context, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, a.ID, a.RequesterID, a.ContentType, a.Context, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

// Get returns one solicitud.
func (r *ApprovalRepository) Get(ctx context.Context, id string) (*model.Approval, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT a.id, a.requester_id, COALESCE(u.name,''), a.content_type, a.context, a.status, a.comment, a.reviewed_by, a.reviewed_at, a.created_at
		FROM approvals a LEFT JOIN users u ON u.id = a.requester_id
		WHERE a.id=$1
	`, id)
	return scanApproval(row)
}

// List returns solicitudes, optionally filtered by status and content type.
func (r *ApprovalRepository) List(ctx context.Context, status, contentType string) ([]model.Approval, error) {
	query := `
		SELECT a.id, a.requester_id, COALESCE(u.name,''), a.content_type, a.context, a.status, a.comment, a.reviewed_by, a.reviewed_at, a.created_at
		FROM approvals a LEFT JOIN users u ON u.id = a.requester_id`
	var args []any
	var where []string
	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("a.status=$%d", len(args)))
	}
	if contentType != "" {
		args = append(args, contentType)
		where = append(where, fmt.Sprintf("a.content_type=$%d", len(args)))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY a.created_at DESC"
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()
	var out []model.Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ListByRequester returns every solicitud one user filed, newest first.
func (r *ApprovalRepository) ListByRequester(ctx context.Context, requesterID string) ([]model.Approval, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.requester_id, COALESCE(u.name,''), a.content_type, a.context, a.status, a.comment, a.reviewed_by, a.reviewed_at, a.created_at
		FROM approvals a LEFT JOIN users u ON u.id = a.requester_id
		WHERE a.requester_id=$1
		ORDER BY a.created_at DESC
	`, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list own approvals: %w", err)
	}
	defer rows.Close()
	var out []model.Approval
	for rows.Next() {
		a, err := scanApproval(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Review decides a pending solicitud. The status guard in the WHERE clause
// keeps concurrent reviewers from overwriting each other.
func (r *ApprovalRepository) Review(ctx context.Context, id string, status model.ApprovalStatus, reviewerID string, comment *string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE approvals
		SET status=$1, comment=$2, reviewed_by=$3, reviewed_at=$4
		WHERE id=$5 AND status=$6
	`, status, comment, reviewerID, time.Now().UTC(), id, model.ApprovalPending)
	if err != nil {
		return fmt.Errorf("review approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return ErrNotPending
	}
	return nil
}

// DeleteOwnPending lets a requester withdraw a solicitud not yet decided.
func (r *ApprovalRepository) DeleteOwnPending(ctx context.Context, id, requesterID string) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM approvals WHERE id=$1 AND requester_id=$2 AND status=$3
	`, id, requesterID, model.ApprovalPending)
	if err != nil {
		return fmt.Errorf("delete approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanApproval(row rowScanner) (*model.Approval, error) {
	var a model.Approval
	err := row.Scan(&a.ID, &a.RequesterID, &a.Requester, &a.ContentType, &a.Context, &a.Status, &a.Comment, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan approval: %w", err)
	}
	return &a, nil
}
