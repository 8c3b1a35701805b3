package settings

import "time"

// Setting is a single site configuration entry.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
