package destinations

import "time"

// Destination represents a place tours are sold for.
type Destination struct {
	ID          int64
	Name        string
	Slug        string
	Region      string
	Country     string
	Summary     string
	Description string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DestinationInput carries the writable fields of a destination.
type DestinationInput struct {
	Name        string
	Region      string
	Country     string
	Summary     string
	Description string
}

// RegionSummary aggregates published destinations per region.
type RegionSummary struct {
	Region       string `json:"region"`
	Destinations int64  `json:"destinations"`
}
