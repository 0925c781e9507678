package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"traindesk/internal/model"
)

// TaskRepository manages bitácora tasks and their evidence.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository constructs a repository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create inserts a task.
func (r *TaskRepository) Create(ctx context.Context, t *model.Task) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Status == "" {
		t.Status = model.TaskPending
	}
	assignees, err := json.Marshal(t.AssigneeIDs)
	if err != nil {
		return fmt.Errorf("marshal assignees: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO tasks (id, title, description, status, deadline, assignee_ids, created_by, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, t.ID, t.Title, t.Description, t.Status, t.Deadline, assignees, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// Update rewrites the mutable fields of a task.
func (r *TaskRepository) Update(ctx context.Context, t *model.Task) error {
	t.UpdatedAt = time.Now().UTC()
	assignees, err := json.Marshal(t.AssigneeIDs)
	if err != nil {
		return fmt.Errorf("marshal assignees: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title=$1, description=$2, status=$3, deadline=$4, assignee_ids=$5, updated_at=$6
		WHERE id=$7
	`, t.Title, t.Description, t.Status, t.Deadline, assignees, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates only the task state.
func (r *TaskRepository) SetStatus(ctx context.Context, id string, status model.TaskStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tasks SET status=$1, updated_at=$2 WHERE id=$3
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns one task with its evidence attached.
func (r *TaskRepository) Get(ctx context.Context, id string) (*model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, status, deadline, assignee_ids, created_by, created_at, updated_at
		FROM tasks WHERE id=$1
	`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	evidence, err := r.EvidenceForTask(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Evidence = evidence
	return t, nil
}

// List returns all tasks with evidence, newest deadline first.
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, status, deadline, assignee_ids, created_by, created_at, updated_at
		FROM tasks ORDER BY deadline DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()
	var out []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		evidence, err := r.EvidenceForTask(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Evidence = evidence
	}
	return out, nil
}

// Delete removes a task; its evidence rows cascade.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddEvidence stores an evidence row with its structured media triple.
func (r *TaskRepository) AddEvidence(ctx context.Context, e *model.Evidence) error {
	e.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evidence (id, task_id, user_id, file_name, url, public_id, resource_type, format, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, e.ID, e.TaskID, e.UserID, e.FileName, e.URL, e.PublicID, e.ResourceType, e.Format, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert evidence: %w", err)
	}
	return nil
}

// GetEvidence returns one evidence row.
func (r *TaskRepository) GetEvidence(ctx context.Context, id string) (*model.Evidence, error) {
	var e model.Evidence
	row := r.pool.QueryRow(ctx, `
		SELECT id, task_id, user_id, file_name, url, public_id, resource_type, format, created_at
		FROM evidence WHERE id=$1
	`, id)
	err := row.Scan(&e.ID, &e.TaskID, &e.UserID, &e.FileName, &e.URL, &e.PublicID, &e.ResourceType, &e.Format, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select evidence: %w", err)
	}
	return &e, nil
}

// DeleteEvidence removes one evidence row.
func (r *TaskRepository) DeleteEvidence(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM evidence WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete evidence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// EvidenceForTask lists evidence rows for a task, oldest first.
func (r *TaskRepository) EvidenceForTask(ctx context.Context, taskID string) ([]model.Evidence, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, task_id, user_id, file_name, url, public_id, resource_type, format, created_at
		FROM evidence WHERE task_id=$1 ORDER BY created_at
	`, taskID)
	if err != nil {
		return nil, fmt.Errorf("list evidence: %w", err)
	}
	defer rows.Close()
	var out []model.Evidence
	for rows.Next() {
		var e model.Evidence
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &e.FileName, &e.URL, &e.PublicID, &e.ResourceType, &e.Format, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan evidence: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanTask(row rowScanner) (*model.Task, error) {
	var t model.Task
	var assignees []byte
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Deadline, &assignees, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	if err := json.Unmarshal(assignees, &t.AssigneeIDs); err != nil {
		return nil, fmt.Errorf("decode assignees: %w", err)
	}
	return &t, nil
}
