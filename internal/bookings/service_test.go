package bookings

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-travel/wayfarer/internal/customers"
	"github.com/wayfarer-travel/wayfarer/internal/notify"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
	"github.com/wayfarer-travel/wayfarer/internal/tours"
)

type memoryRepo struct {
	nextID   int64
	bookings map[int64]Booking
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1, bookings: make(map[int64]Booking)}
}

func (m *memoryRepo) ListBookings(_ context.Context, status Status) ([]Booking, error) {
	var out []Booking
	for _, b := range m.bookings {
		if status != "" && b.Status != status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memoryRepo) GetBooking(_ context.Context, id int64) (Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return Booking{}, shared.ErrNotFound
	}
	return b, nil
}

func (m *memoryRepo) CreateBooking(_ context.Context, b Booking) (Booking, error) {
	b.ID = m.nextID
	m.nextID++
	b.Status = StatusNew
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memoryRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	b, ok := m.bookings[id]
	if !ok {
		return shared.ErrNotFound
	}
	b.Status = status
	m.bookings[id] = b
	return nil
}

func (m *memoryRepo) DeleteBooking(_ context.Context, id int64) error {
	if _, ok := m.bookings[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memoryRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	count := 0
	for _, b := range m.bookings {
		if !b.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeCustomers struct {
	nextID   int64
	byEmail  map[string]customers.Customer
	captured int
}

func newFakeCustomers() *fakeCustomers {
	return &fakeCustomers{nextID: 1, byEmail: make(map[string]customers.Customer)}
}

func (f *fakeCustomers) Capture(_ context.Context, name, email, phone string) (customers.Customer, error) {
	f.captured++
	if c, ok := f.byEmail[email]; ok {
		c.Name = name
		c.Phone = phone
		f.byEmail[email] = c
		return c, nil
	}
	c := customers.Customer{ID: f.nextID, Name: name, Email: email, Phone: phone}
	f.nextID++
	f.byEmail[email] = c
	return c, nil
}

type fakeTours struct {
	tours map[int64]tours.Tour
}

func (f *fakeTours) Get(_ context.Context, id int64) (tours.Tour, error) {
	t, ok := f.tours[id]
	if !ok {
		return tours.Tour{}, shared.ErrNotFound
	}
	return t, nil
}

type recordingNotifier struct {
	events []notify.BookingEvent
}

func (r *recordingNotifier) BookingReceived(_ context.Context, ev notify.BookingEvent) {
	r.events = append(r.events, ev)
}

func newTestService(repo *memoryRepo, cust *fakeCustomers, tourDir *fakeTours, n notify.Notifier) *Service {
	return NewService(slog.Default(), repo, cust, tourDir, n, nil)
}

func TestSubmitCreatesBookingAndCustomer(t *testing.T) {
	repo := newMemoryRepo()
	cust := newFakeCustomers()
	tourID := int64(7)
	dir := &fakeTours{tours: map[int64]tours.Tour{tourID: {ID: tourID, Title: "Coastal Loop"}}}
	notifier := &recordingNotifier{}
	svc := newTestService(repo, cust, dir, notifier)

	booking, err := svc.Submit(context.Background(), SubmitInput{
		Name:      "Ana Silva",
		Email:     "ana@example.com",
		TourID:    &tourID,
		PartySize: 2,
		Message:   "Interested in June dates",
	})
	require.NoError(t, err)
	require.Equal(t, StatusNew, booking.Status)
	require.Equal(t, 1, cust.captured)
	require.Len(t, notifier.events, 1)
	require.Equal(t, "Coastal Loop", notifier.events[0].TourTitle)
	require.Equal(t, booking.ID, notifier.events[0].BookingID)
}

func TestSubmitRejectsUnknownTour(t *testing.T) {
	badID := int64(99)
	svc := newTestService(newMemoryRepo(), newFakeCustomers(), &fakeTours{tours: map[int64]tours.Tour{}}, nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Name:      "Ana Silva",
		Email:     "ana@example.com",
		TourID:    &badID,
		PartySize: 2,
	})
	require.True(t, errors.Is(err, shared.ErrValidation))
}

func TestSubmitReusesCustomerByEmail(t *testing.T) {
	repo := newMemoryRepo()
	cust := newFakeCustomers()
	svc := newTestService(repo, cust, &fakeTours{}, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitInput{Name: "Ana", Email: "ana@example.com", PartySize: 2})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, SubmitInput{Name: "Ana Silva", Email: "ana@example.com", PartySize: 4})
	require.NoError(t, err)
	require.Equal(t, first.CustomerID, second.CustomerID)
	require.Len(t, cust.byEmail, 1)
}

func TestStatusTransitions(t *testing.T) {
	repo := newMemoryRepo()
	svc := newTestService(repo, newFakeCustomers(), &fakeTours{}, nil)
	ctx := context.Background()

	booking, err := svc.Submit(ctx, SubmitInput{Name: "Ana", Email: "ana@example.com", PartySize: 2})
	require.NoError(t, err)

	// new cannot jump backwards and cancelled is terminal
	updated, err := svc.SetStatus(ctx, 1, booking.ID, StatusContacted)
	require.NoError(t, err)
	require.Equal(t, StatusContacted, updated.Status)

	_, err = svc.SetStatus(ctx, 1, booking.ID, StatusNew)
	require.True(t, errors.Is(err, shared.ErrValidation))

	updated, err = svc.SetStatus(ctx, 1, booking.ID, StatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, StatusConfirmed, updated.Status)

	_, err = svc.SetStatus(ctx, 1, booking.ID, StatusCancelled)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, 1, booking.ID, StatusContacted)
	require.True(t, errors.Is(err, shared.ErrValidation))
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	svc := newTestService(newMemoryRepo(), newFakeCustomers(), &fakeTours{}, nil)
	_, err := svc.SetStatus(context.Background(), 1, 1, Status("archived"))
	require.True(t, errors.Is(err, shared.ErrValidation))
}

func TestListFilterValidation(t *testing.T) {
	svc := newTestService(newMemoryRepo(), newFakeCustomers(), &fakeTours{}, nil)
	_, err := svc.List(context.Background(), Status("bogus"))
	require.True(t, errors.Is(err, shared.ErrValidation))
}
