package tours

import "time"

// Tour represents a bookable travel package.
type Tour struct {
	ID            int64
	DestinationID *int64
	Title         string
	Slug          string
	Summary       string
	Description   string
	DurationDays  int
	PriceCents    int64
	Currency      string
	Published     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TourInput carries the writable fields of a tour.
type TourInput struct {
	DestinationID *int64
	Title         string
	Summary       string
	Description   string
	DurationDays  int
	PriceCents    int64
	Currency      string
}
