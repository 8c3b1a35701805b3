package media

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

const assetColumns = `id, uploader_id, key, file_name, content_type, size_bytes, url, created_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListAssets returns all assets, newest first.
func (r *Repository) ListAssets(ctx context.Context) ([]Asset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+assetColumns+` FROM media_assets ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		var a Asset
		if err := rows.Scan(&a.ID, &a.UploaderID, &a.Key, &a.FileName, &a.ContentType, &a.SizeBytes, &a.URL, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAsset fetches an asset by id.
func (r *Repository) GetAsset(ctx context.Context, id int64) (Asset, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM media_assets WHERE id = $1`, id))
}

// CreateAsset records an uploaded object.
func (r *Repository) CreateAsset(ctx context.Context, a Asset) (Asset, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO media_assets (uploader_id, key, file_name, content_type, size_bytes, url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+assetColumns,
		a.UploaderID, a.Key, a.FileName, a.ContentType, a.SizeBytes, a.URL)
	return scanOne(row)
}

// DeleteAsset removes an asset row.
func (r *Repository) DeleteAsset(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanOne(row pgx.Row) (Asset, error) {
	var a Asset
	err := row.Scan(&a.ID, &a.UploaderID, &a.Key, &a.FileName, &a.ContentType, &a.SizeBytes, &a.URL, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Asset{}, shared.ErrNotFound
		}
		return Asset{}, err
	}
	return a, nil
}
