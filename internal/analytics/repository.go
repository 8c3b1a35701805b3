package analytics

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository runs the aggregate queries behind the dashboard.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Dashboard gathers the headline counts in one round trip.
func (r *Repository) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tours),
			(SELECT COUNT(*) FROM tours WHERE published),
			(SELECT COUNT(*) FROM posts WHERE published),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM bookings WHERE status = 'new'),
			(SELECT COUNT(*) FROM bookings WHERE status IN ('new', 'contacted'))`).
		Scan(&d.ToursTotal, &d.ToursPublished, &d.PostsPublished, &d.CustomersTotal,
			&d.BookingsTotal, &d.BookingsNew, &d.BookingsPending)
	return d, err
}

// MonthlyBookings breaks bookings down by calendar month, newest first.
func (r *Repository) MonthlyBookings(ctx context.Context, months int) ([]MonthlyBookings, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'confirmed'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM bookings
		WHERE created_at >= date_trunc('month', NOW()) - ($1 || ' months')::interval
		GROUP BY 1
		ORDER BY 1 DESC`, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyBookings
	for rows.Next() {
		var m MonthlyBookings
		if err := rows.Scan(&m.Month, &m.Total, &m.Confirmed, &m.Cancelled); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
