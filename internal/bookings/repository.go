package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

const bookingColumns = `id, customer_id, tour_id, status, party_size, travel_date, message, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListBookings returns bookings, newest first, optionally filtered by status.
func (r *Repository) ListBookings(ctx context.Context, status Status) ([]Booking, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	} else {
		rows, err = r.pool.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE status = $1 ORDER BY created_at DESC`, status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.TourID, &b.Status, &b.PartySize, &b.TravelDate, &b.Message, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetBooking fetches a booking by id.
func (r *Repository) GetBooking(ctx context.Context, id int64) (Booking, error) {
	return scanOne(r.pool.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
}

// CreateBooking inserts a booking in the new state.
func (r *Repository) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bookings (customer_id, tour_id, status, party_size, travel_date, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+bookingColumns,
		b.CustomerID, b.TourID, StatusNew, b.PartySize, b.TravelDate, b.Message)
	return scanOne(row)
}

// UpdateStatus moves a booking to a new status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking.
func (r *Repository) DeleteBooking(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountSince reports bookings created at or after the given time.
func (r *Repository) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE created_at >= $1`, since).Scan(&count)
	return count, err
}

func scanOne(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.CustomerID, &b.TourID, &b.Status, &b.PartySize, &b.TravelDate, &b.Message, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, shared.ErrNotFound
		}
		return Booking{}, err
	}
	return b, nil
}
