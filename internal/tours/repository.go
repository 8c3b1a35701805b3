package tours

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

const tourColumns = `id, destination_id, title, slug, summary, description, duration_days, price_cents, currency, published, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListTours returns tours, optionally restricted to published ones.
func (r *Repository) ListTours(ctx context.Context, publishedOnly bool) ([]Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours ORDER BY title`
	if publishedOnly {
		query = `SELECT ` + tourColumns + ` FROM tours WHERE published ORDER BY title`
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTours(rows)
}

// GetTour fetches a tour by id.
func (r *Repository) GetTour(ctx context.Context, id int64) (Tour, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id))
}

// GetTourBySlug fetches a published tour by slug.
func (r *Repository) GetTourBySlug(ctx context.Context, slug string) (Tour, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT `+tourColumns+` FROM tours WHERE slug = $1 AND published`, slug))
}

// CreateTour inserts a new tour.
func (r *Repository) CreateTour(ctx context.Context, t Tour) (Tour, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tours (destination_id, title, slug, summary, description, duration_days, price_cents, currency, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE)
		RETURNING `+tourColumns,
		t.DestinationID, t.Title, t.Slug, t.Summary, t.Description, t.DurationDays, t.PriceCents, t.Currency)
	created, err := r.scanOne(row)
	if err != nil {
		return Tour{}, mapDuplicate(err)
	}
	return created, nil
}

// UpdateTour updates a tour by id.
func (r *Repository) UpdateTour(ctx context.Context, id int64, t Tour) (Tour, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE tours
		SET destination_id = $2, title = $3, slug = $4, summary = $5, description = $6,
		    duration_days = $7, price_cents = $8, currency = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING `+tourColumns,
		id, t.DestinationID, t.Title, t.Slug, t.Summary, t.Description, t.DurationDays, t.PriceCents, t.Currency)
	updated, err := r.scanOne(row)
	if err != nil {
		return Tour{}, mapDuplicate(err)
	}
	return updated, nil
}

// SetPublished flips the published flag.
func (r *Repository) SetPublished(ctx context.Context, id int64, published bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tours SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteTour removes a tour.
func (r *Repository) DeleteTour(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tours WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) scanOne(row pgx.Row) (Tour, error) {
	var t Tour
	err := row.Scan(&t.ID, &t.DestinationID, &t.Title, &t.Slug, &t.Summary, &t.Description,
		&t.DurationDays, &t.PriceCents, &t.Currency, &t.Published, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Tour{}, shared.ErrNotFound
		}
		return Tour{}, err
	}
	return t, nil
}

func scanTours(rows pgx.Rows) ([]Tour, error) {
	var tours []Tour
	for rows.Next() {
		var t Tour
		if err := rows.Scan(&t.ID, &t.DestinationID, &t.Title, &t.Slug, &t.Summary, &t.Description,
			&t.DurationDays, &t.PriceCents, &t.Currency, &t.Published, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tours = append(tours, t)
	}
	return tours, rows.Err()
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
