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

// CourseRepository manages courses, their quiz questions and graded attempts.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository constructs a repository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// Create inserts a course together with its questions in one transaction.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO courses (id, title, description, position_id, video_url, attempts, time_limit_minutes, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, c.ID, c.Title, c.Description, c.PositionID, c.VideoURL, c.Attempts, c.TimeLimitMinutes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	if err := insertQuestions(ctx, tx, c.ID, c.Questions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update rewrites a course and replaces its question set.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	c.UpdatedAt = time.Now().UTC()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE courses
		SET title=$1, description=$2, position_id=$3, video_url=$4, attempts=$5, time_limit_minutes=$6, updated_at=$7
		WHERE id=$8
	`, c.Title, c.Description, c.PositionID, c.VideoURL, c.Attempts, c.TimeLimitMinutes, c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE course_id=$1`, c.ID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	if err := insertQuestions(ctx, tx, c.ID, c.Questions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertQuestions(ctx context.Context, tx pgx.Tx, courseID string, questions []model.Question) error {
	for i, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO questions (id, course_id, prompt, options, correct_index, ordinal)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, q.ID, courseID, q.Prompt, options, q.CorrectIndex, i)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
	}
	return nil
}

// Get returns a course without its questions.
func (r *CourseRepository) Get(ctx context.Context, id string) (*model.Course, error) {
	var c model.Course
	row := r.pool.QueryRow(ctx, `
		SELECT id, title, description, position_id, video_url, attempts, time_limit_minutes, created_at, updated_at
		FROM courses WHERE id=$1
	`, id)
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.PositionID, &c.VideoURL, &c.Attempts, &c.TimeLimitMinutes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select course: %w", err)
	}
	return &c, nil
}

// List returns courses, optionally filtered to one target position.
func (r *CourseRepository) List(ctx context.Context, positionID string) ([]model.Course, error) {
	query := `
		SELECT id, title, description, position_id, video_url, attempts, time_limit_minutes, created_at, updated_at
		FROM courses`
	args := []any{}
	if positionID != "" {
		query += ` WHERE position_id=$1 OR position_id IS NULL`
		args = append(args, positionID)
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()
	var out []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.PositionID, &c.VideoURL, &c.Attempts, &c.TimeLimitMinutes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Questions returns the ordered question set for a course.
func (r *CourseRepository) Questions(ctx context.Context, courseID string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, course_id, prompt, options, correct_index, ordinal
		FROM questions WHERE course_id=$1 ORDER BY ordinal
	`, courseID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()
	var out []model.Question
	for rows.Next() {
		var q model.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.CourseID, &q.Prompt, &options, &q.CorrectIndex, &q.Ordinal); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Delete removes a course; questions and attempts cascade.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountAttempts returns how many attempts the user already spent on a course.
func (r *CourseRepository) CountAttempts(ctx context.Context, courseID, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM attempts WHERE course_id=$1 AND user_id=$2
	`, courseID, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	return n, nil
}

// RecordAttempt stores a graded attempt.
func (r *CourseRepository) RecordAttempt(ctx context.Context, a *model.Attempt) error {
	a.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attempts (id, course_id, user_id, score, total, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.ID, a.CourseID, a.UserID, a.Score, a.Total, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// ProgressAll returns the dashboard view: each active non-admin user crossed
// with the courses targeted at their position, plus their best attempt.
func (r *CourseRepository) ProgressAll(ctx context.Context) ([]model.ProgressEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, COALESCE(p.name,''), c.id, c.title,
			best.score, best.total, best.status,
			COALESCE(cnt.n, 0)
		FROM users u
		LEFT JOIN positions p ON p.id = u.position_id
		JOIN courses c ON c.position_id IS NULL OR c.position_id = u.position_id
		LEFT JOIN LATERAL (
			SELECT a.score, a.total, a.status
			FROM attempts a
			WHERE a.course_id = c.id AND a.user_id = u.id
			ORDER BY a.score DESC, a.created_at DESC
			LIMIT 1
		) best ON TRUE
		LEFT JOIN LATERAL (
			SELECT COUNT(*) AS n FROM attempts a
			WHERE a.course_id = c.id AND a.user_id = u.id
		) cnt ON TRUE
		WHERE u.active AND u.role <> 'admin'
		ORDER BY u.name, c.title
	`)
	if err != nil {
		return nil, fmt.Errorf("progress query: %w", err)
	}
	defer rows.Close()
	var out []model.ProgressEntry
	for rows.Next() {
		var e model.ProgressEntry
		if err := rows.Scan(&e.UserID, &e.UserName, &e.Position, &e.CourseID, &e.CourseTitle, &e.Score, &e.Total, &e.Status, &e.Attempts); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
