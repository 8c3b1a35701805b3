package customers

import "time"

// Customer is a person who has submitted at least one booking request.
type Customer struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
