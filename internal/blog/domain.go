package blog

import "time"

// Post represents a blog article.
type Post struct {
	ID          int64
	AuthorID    int64
	Title       string
	Slug        string
	Excerpt     string
	Body        string
	Published   bool
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostInput carries the writable fields of a post.
type PostInput struct {
	Title   string
	Excerpt string
	Body    string
}
