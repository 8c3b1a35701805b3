package analytics

// Dashboard is the headline-figure summary for the back office.
type Dashboard struct {
	ToursTotal      int `json:"tours_total"`
	ToursPublished  int `json:"tours_published"`
	PostsPublished  int `json:"posts_published"`
	CustomersTotal  int `json:"customers_total"`
	BookingsTotal   int `json:"bookings_total"`
	BookingsNew     int `json:"bookings_new"`
	BookingsPending int `json:"bookings_pending"`
}

// MonthlyBookings is one row of the bookings-per-month breakdown.
type MonthlyBookings struct {
	Month     string `json:"month"`
	Total     int    `json:"total"`
	Confirmed int    `json:"confirmed"`
	Cancelled int    `json:"cancelled"`
}
