package testimonials

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

const testimonialColumns = `id, author_name, location, rating, quote, published, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListTestimonials returns testimonials, optionally published only.
func (r *Repository) ListTestimonials(ctx context.Context, publishedOnly bool) ([]Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT ` + testimonialColumns + ` FROM testimonials WHERE published ORDER BY created_at DESC`
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.AuthorName, &t.Location, &t.Rating, &t.Quote, &t.Published, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetTestimonial fetches a testimonial by id.
func (r *Repository) GetTestimonial(ctx context.Context, id int64) (Testimonial, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id))
}

// CreateTestimonial inserts a new testimonial as unpublished.
func (r *Repository) CreateTestimonial(ctx context.Context, t Testimonial) (Testimonial, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO testimonials (author_name, location, rating, quote, published)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING `+testimonialColumns,
		t.AuthorName, t.Location, t.Rating, t.Quote)
	return scanOne(row)
}

// UpdateTestimonial updates a testimonial by id.
func (r *Repository) UpdateTestimonial(ctx context.Context, id int64, t Testimonial) (Testimonial, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE testimonials SET author_name = $2, location = $3, rating = $4, quote = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+testimonialColumns,
		id, t.AuthorName, t.Location, t.Rating, t.Quote)
	return scanOne(row)
}

// SetPublished flips the published flag.
func (r *Repository) SetPublished(ctx context.Context, id int64, published bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE testimonials SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteTestimonial removes a testimonial.
func (r *Repository) DeleteTestimonial(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanOne(row pgx.Row) (Testimonial, error) {
	var t Testimonial
	err := row.Scan(&t.ID, &t.AuthorName, &t.Location, &t.Rating, &t.Quote, &t.Published, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Testimonial{}, shared.ErrNotFound
		}
		return Testimonial{}, err
	}
	return t, nil
}
