package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates the tables if needed. Keeping the migration in code
// keeps deployments self-contained; `traindesk migrate` runs just this.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS positions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL DEFAULT 'employee',
	position_id TEXT REFERENCES positions(id),
	active BOOLEAN NOT NULL DEFAULT TRUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	position_id TEXT REFERENCES positions(id),
	video_url TEXT NOT NULL DEFAULT '',
	attempts INT NOT NULL DEFAULT 3,
	time_limit_minutes INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	prompt TEXT NOT NULL,
	options JSONB NOT NULL,
	correct_index INT NOT NULL,
	ordinal INT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_questions_course ON questions(course_id, ordinal);

CREATE TABLE IF NOT EXISTS attempts (
	id TEXT PRIMARY KEY,
	course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL REFERENCES users(id),
	score INT NOT NULL,
	total INT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_attempts_course_user ON attempts(course_id, user_id);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	deadline DATE NOT NULL,
	assignee_ids JSONB NOT NULL DEFAULT '[]',
	created_by TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline);

CREATE TABLE IF NOT EXISTS evidence (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL REFERENCES users(id),
	file_name TEXT NOT NULL,
	url TEXT NOT NULL,
	public_id TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	format TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_evidence_task ON evidence(task_id);

CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	file_name TEXT NOT NULL,
	url TEXT NOT NULL,
	public_id TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	format TEXT NOT NULL DEFAULT '',
	folder TEXT NOT NULL DEFAULT '',
	bytes BIGINT NOT NULL DEFAULT 0,
	archive_key TEXT,
	content TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'stored',
	owner_id TEXT NOT NULL REFERENCES users(id),
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);

CREATE TABLE IF NOT EXISTS approvals (
	id TEXT PRIMARY KEY,
	requester_id TEXT NOT NULL REFERENCES users(id),
	content_type TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	comment TEXT,
	reviewed_by TEXT REFERENCES users(id),
	reviewed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_approvals_status ON approvals(status, content_type);

CREATE TABLE IF NOT EXISTS media_assets (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	public_id TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	format TEXT NOT NULL DEFAULT '',
	folder TEXT NOT NULL DEFAULT '',
	bytes BIGINT NOT NULL DEFAULT 0,
	owner_id TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_media_assets_public_id ON media_assets(public_id);`
	_, err := pool.Exec(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
