package destinations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

const destinationColumns = `id, name, slug, region, country, summary, description, published, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListDestinations returns destinations, optionally published only.
func (r *Repository) ListDestinations(ctx context.Context, publishedOnly bool) ([]Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations ORDER BY name`
	if publishedOnly {
		query = `SELECT ` + destinationColumns + ` FROM destinations WHERE published ORDER BY name`
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDestinations(rows)
}

// ListRegions aggregates published destinations per region.
func (r *Repository) ListRegions(ctx context.Context) ([]RegionSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT region, COUNT(*)
		FROM destinations
		WHERE published AND region <> ''
		GROUP BY region
		ORDER BY region`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var regions []RegionSummary
	for rows.Next() {
		var reg RegionSummary
		if err := rows.Scan(&reg.Region, &reg.Destinations); err != nil {
			return nil, err
		}
		regions = append(regions, reg)
	}
	return regions, rows.Err()
}

// GetDestination fetches a destination by id.
func (r *Repository) GetDestination(ctx context.Context, id int64) (Destination, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE id = $1`, id))
}

// GetDestinationBySlug fetches a published destination by slug.
func (r *Repository) GetDestinationBySlug(ctx context.Context, slug string) (Destination, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE slug = $1 AND published`, slug))
}

// CreateDestination inserts a new destination.
func (r *Repository) CreateDestination(ctx context.Context, d Destination) (Destination, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO destinations (name, slug, region, country, summary, description, published)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING `+destinationColumns,
		d.Name, d.Slug, d.Region, d.Country, d.Summary, d.Description)
	created, err := scanOne(row)
	if err != nil {
		return Destination{}, mapDuplicate(err)
	}
	return created, nil
}

// UpdateDestination updates a destination by id.
func (r *Repository) UpdateDestination(ctx context.Context, id int64, d Destination) (Destination, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE destinations
		SET name = $2, slug = $3, region = $4, country = $5, summary = $6, description = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING `+destinationColumns,
		id, d.Name, d.Slug, d.Region, d.Country, d.Summary, d.Description)
	updated, err := scanOne(row)
	if err != nil {
		return Destination{}, mapDuplicate(err)
	}
	return updated, nil
}

// SetPublished flips the published flag.
func (r *Repository) SetPublished(ctx context.Context, id int64, published bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE destinations SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteDestination removes a destination.
func (r *Repository) DeleteDestination(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanOne(row pgx.Row) (Destination, error) {
	var d Destination
	err := row.Scan(&d.ID, &d.Name, &d.Slug, &d.Region, &d.Country, &d.Summary, &d.Description, &d.Published, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Destination{}, shared.ErrNotFound
		}
		return Destination{}, err
	}
	return d, nil
}

func scanDestinations(rows pgx.Rows) ([]Destination, error) {
	var out []Destination
	for rows.Next() {
		var d Destination
		if err := rows.Scan(&d.ID, &d.Name, &d.Slug, &d.Region, &d.Country, &d.Summary, &d.Description, &d.Published, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
