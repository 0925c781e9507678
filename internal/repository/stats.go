package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"traindesk/internal/model"
)

// StatsRepository backs the dashboard counters with one aggregate query.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository constructs a repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// General gathers all dashboard counts in a single round trip.
func (r *StatsRepository) General(ctx context.Context) (*model.Stats, error) {
	var s model.Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role <> 'admin'),
			(SELECT COUNT(*) FROM users WHERE role <> 'admin' AND active),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM tasks WHERE status = 'pending'),
			(SELECT COUNT(*) FROM tasks WHERE status = 'in_progress'),
			(SELECT COUNT(*) FROM tasks WHERE status = 'completed'),
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM approvals WHERE status = 'pending')
	`).Scan(
		&s.TotalUsers, &s.ActiveUsers, &s.TotalCourses,
		&s.TasksPending, &s.TasksInProgress, &s.TasksCompleted,
		&s.TotalDocuments, &s.PendingApprovals,
	)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	return &s, nil
}
