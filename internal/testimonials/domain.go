package testimonials

import "time"

// Testimonial is a customer quote shown on the public site.
type Testimonial struct {
	ID         int64
	AuthorName string
	Location   string
	Rating     int
	Quote      string
	Published  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TestimonialInput carries fields accepted from callers.
type TestimonialInput struct {
	AuthorName string
	Location   string
	Rating     int
	Quote      string
}
