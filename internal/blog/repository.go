package blog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

const postColumns = `id, author_id, title, slug, excerpt, body, published, published_at, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListPosts returns posts, newest first, optionally published only.
func (r *Repository) ListPosts(ctx context.Context, publishedOnly bool) ([]Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
	if publishedOnly {
		query = `SELECT ` + postColumns + ` FROM posts WHERE published ORDER BY published_at DESC`
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// GetPost fetches a post by id.
func (r *Repository) GetPost(ctx context.Context, id int64) (Post, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

// GetPostBySlug fetches a published post by slug.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1 AND published`, slug))
}

// CreatePost inserts a new post.
func (r *Repository) CreatePost(ctx context.Context, p Post) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, title, slug, excerpt, body, published)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+postColumns,
		p.AuthorID, p.Title, p.Slug, p.Excerpt, p.Body)
	created, err := scanOne(row)
	if err != nil {
		return Post{}, mapDuplicate(err)
	}
	return created, nil
}

// UpdatePost updates a post by id.
func (r *Repository) UpdatePost(ctx context.Context, id int64, p Post) (Post, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE posts SET title = $2, slug = $3, excerpt = $4, body = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+postColumns,
		id, p.Title, p.Slug, p.Excerpt, p.Body)
	updated, err := scanOne(row)
	if err != nil {
		return Post{}, mapDuplicate(err)
	}
	return updated, nil
}

// SetPublished flips the published flag, stamping published_at on first publish.
func (r *Repository) SetPublished(ctx context.Context, id int64, published bool) error {
	var tag pgconn.CommandTag
	var err error
	if published {
		tag, err = r.pool.Exec(ctx, `UPDATE posts SET published = TRUE, published_at = COALESCE(published_at, NOW()), updated_at = NOW() WHERE id = $1`, id)
	} else {
		tag, err = r.pool.Exec(ctx, `UPDATE posts SET published = FALSE, updated_at = NOW() WHERE id = $1`, id)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeletePost removes a post.
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanOne(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, shared.ErrNotFound
		}
		return Post{}, err
	}
	return p, nil
}

func scanPosts(rows pgx.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Excerpt, &p.Body, &p.Published, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}
