// Package repository wraps all SQL used by the API server and worker.
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

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// UserRepository reads and writes users and positions.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	u.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, role, position_id, active, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, u.ID, u.Name, u.Email, u.Role, u.PositionID, u.Active, u.PasswordHash, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail returns a user by email, including the password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.role, u.position_id, COALESCE(p.name,''), u.active, u.password_hash, u.created_at
		FROM users u LEFT JOIN positions p ON p.id = u.position_id
		WHERE u.email = $1
	`, email)
	return scanUser(row)
}

// Get returns a user by id.
func (r *UserRepository) Get(ctx context.Context, id string) (*model.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.role, u.position_id, COALESCE(p.name,''), u.active, u.password_hash, u.created_at
		FROM users u LEFT JOIN positions p ON p.id = u.position_id
		WHERE u.id = $1
	`, id)
	return scanUser(row)
}

// ListActive returns all active users ordered by name.
func (r *UserRepository) ListActive(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.email, u.role, u.position_id, COALESCE(p.name,''), u.active, u.password_hash, u.created_at
		FROM users u LEFT JOIN positions p ON p.id = u.position_id
		WHERE u.active
		ORDER BY u.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// ListPositions returns every position usable as a course target.
func (r *UserRepository) ListPositions(ctx context.Context) ([]model.Position, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM positions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()
	var out []model.Position
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PositionID, &u.Position, &u.Active, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
