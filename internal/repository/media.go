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

// MediaRepository records every gateway upload so the structured triple never
// has to be re-derived from a delivery URL.
type MediaRepository struct {
	pool *pgxpool.Pool
}

// NewMediaRepository constructs a repository.
func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

// Create inserts an asset row.
func (r *MediaRepository) Create(ctx context.Context, a *model.MediaAsset) error {
	a.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO media_assets (id, url, public_id, resource_type, format, folder, bytes, owner_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, a.ID, a.URL, a.PublicID, a.ResourceType, a.Format, a.Folder, a.Bytes, a.OwnerID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert media asset: %w", err)
	}
	return nil
}

// GetByURL looks an asset up by its delivery URL.
func (r *MediaRepository) GetByURL(ctx context.Context, url string) (*model.MediaAsset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, url, public_id, resource_type, format, folder, bytes, owner_id, created_at
		FROM media_assets WHERE url=$1
	`, url)
	return scanMediaAsset(row)
}

// GetByPublicID looks an asset up by its host identifier.
func (r *MediaRepository) GetByPublicID(ctx context.Context, publicID string) (*model.MediaAsset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, url, public_id, resource_type, format, folder, bytes, owner_id, created_at
		FROM media_assets WHERE public_id=$1
	`, publicID)
	return scanMediaAsset(row)
}

// DeleteByPublicID removes the record after the hosted asset is destroyed.
func (r *MediaRepository) DeleteByPublicID(ctx context.Context, publicID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM media_assets WHERE public_id=$1`, publicID)
	if err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}
	return nil
}

func scanMediaAsset(row rowScanner) (*model.MediaAsset, error) {
	var a model.MediaAsset
	err := row.Scan(&a.ID, &a.URL, &a.PublicID, &a.ResourceType, &a.Format, &a.Folder, &a.Bytes, &a.OwnerID, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan media asset: %w", err)
	}
	return &a, nil
}
