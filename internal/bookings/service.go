package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/wayfarer-travel/wayfarer/internal/customers"
	"github.com/wayfarer-travel/wayfarer/internal/notify"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
	"github.com/wayfarer-travel/wayfarer/internal/tours"
)

// RepositoryPort is the persistence contract consumed by the service.
type RepositoryPort interface {
	ListBookings(ctx context.Context, status Status) ([]Booking, error)
	GetBooking(ctx context.Context, id int64) (Booking, error)
	CreateBooking(ctx context.Context, b Booking) (Booking, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	DeleteBooking(ctx context.Context, id int64) error
	CountSince(ctx context.Context, since time.Time) (int, error)
}

// CustomerPort captures the person behind a submission.
type CustomerPort interface {
	Capture(ctx context.Context, name, email, phone string) (customers.Customer, error)
}

// TourPort resolves the tour a submission refers to.
type TourPort interface {
	Get(ctx context.Context, id int64) (tours.Tour, error)
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service owns the booking lifecycle.
type Service struct {
	logger    *slog.Logger
	repo      RepositoryPort
	customers CustomerPort
	tours     TourPort
	notifier  notify.Notifier
	auditor   Auditor
}

// NewService constructs a service.
func NewService(logger *slog.Logger, repo RepositoryPort, customers CustomerPort, tours TourPort, notifier notify.Notifier, auditor Auditor) *Service {
	return &Service{logger: logger, repo: repo, customers: customers, tours: tours, notifier: notifier, auditor: auditor}
}

// Submit handles a public booking request. The customer record is upserted
// by email and the back office is alerted. A notification failure never
// fails the submission.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Booking, error) {
	if err := validateSubmit(in); err != nil {
		return Booking{}, err
	}

	tourTitle := ""
	if in.TourID != nil {
		tour, err := s.tours.Get(ctx, *in.TourID)
		if err != nil {
			return Booking{}, fmt.Errorf("%w: unknown tour", shared.ErrValidation)
		}
		tourTitle = tour.Title
	}

	customer, err := s.customers.Capture(ctx, in.Name, in.Email, in.Phone)
	if err != nil {
		return Booking{}, err
	}

	booking, err := s.repo.CreateBooking(ctx, Booking{
		CustomerID: customer.ID,
		TourID:     in.TourID,
		PartySize:  in.PartySize,
		TravelDate: in.TravelDate,
		Message:    strings.TrimSpace(in.Message),
	})
	if err != nil {
		return Booking{}, err
	}

	if s.notifier != nil {
		s.notifier.BookingReceived(ctx, notify.BookingEvent{
			BookingID:     booking.ID,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			TourTitle:     tourTitle,
			PartySize:     booking.PartySize,
			Message:       booking.Message,
		})
	}
	return booking, nil
}

// List returns bookings, optionally filtered by status.
func (s *Service) List(ctx context.Context, status Status) ([]Booking, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, status)
	}
	return s.repo.ListBookings(ctx, status)
}

// Get returns a booking by id.
func (s *Service) Get(ctx context.Context, id int64) (Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

// SetStatus moves a booking through its lifecycle.
func (s *Service) SetStatus(ctx context.Context, actorID, id int64, next Status) (Booking, error) {
	if !next.Valid() {
		return Booking{}, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, next)
	}
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if !booking.Status.CanTransition(next) {
		return Booking{}, fmt.Errorf("%w: cannot move booking from %s to %s", shared.ErrValidation, booking.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return Booking{}, err
	}
	booking.Status = next
	s.audit(ctx, actorID, "booking.status."+string(next), id)
	return booking, nil
}

// Delete removes a booking.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteBooking(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "booking.delete", id)
	return nil
}

// CountSince reports bookings created since a point in time.
func (s *Service) CountSince(ctx context.Context, since time.Time) (int, error) {
	return s.repo.CountSince(ctx, since)
}

func (s *Service) audit(ctx context.Context, actorID int64, action string, entityID int64) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "booking",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}

func validateSubmit(in SubmitInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if in.PartySize <= 0 {
		return fmt.Errorf("%w: party size must be positive", shared.ErrValidation)
	}
	return nil
}
