package bookings

import "time"

// Status is the lifecycle state of a booking request.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// canAdvance lists the forward transitions. Cancellation is allowed from
// any state except cancelled itself.
var canAdvance = map[Status][]Status{
	StatusNew:       {StatusContacted, StatusConfirmed, StatusCancelled},
	StatusContacted: {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range canAdvance[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Booking is a trip inquiry submitted from the public site.
type Booking struct {
	ID         int64
	CustomerID int64
	TourID     *int64
	Status     Status
	PartySize  int
	TravelDate *time.Time
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SubmitInput is the public lead-capture form.
type SubmitInput struct {
	Name       string
	Email      string
	Phone      string
	TourID     *int64
	PartySize  int
	TravelDate *time.Time
	Message    string
}
