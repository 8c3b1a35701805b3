package tours

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RepositoryPort defines data access methods for tours.
type RepositoryPort interface {
	ListTours(ctx context.Context, publishedOnly bool) ([]Tour, error)
	GetTour(ctx context.Context, id int64) (Tour, error)
	GetTourBySlug(ctx context.Context, slug string) (Tour, error)
	CreateTour(ctx context.Context, t Tour) (Tour, error)
	UpdateTour(ctx context.Context, id int64, t Tour) (Tour, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	DeleteTour(ctx context.Context, id int64) error
}

// Auditor records administrative mutations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles tour business logic.
type Service struct {
	repo   RepositoryPort
	audit  Auditor
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ListPublished returns published tours for the public site.
func (s *Service) ListPublished(ctx context.Context) ([]Tour, error) {
	return s.repo.ListTours(ctx, true)
}

// GetPublishedBySlug fetches a published tour for the public site.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Tour, error) {
	return s.repo.GetTourBySlug(ctx, slug)
}

// ListAll returns every tour for the back office.
func (s *Service) ListAll(ctx context.Context) ([]Tour, error) {
	return s.repo.ListTours(ctx, false)
}

// Get fetches a tour by id.
func (s *Service) Get(ctx context.Context, id int64) (Tour, error) {
	return s.repo.GetTour(ctx, id)
}

// Create inserts a new unpublished tour.
func (s *Service) Create(ctx context.Context, actorID int64, in TourInput) (Tour, error) {
	t, err := fromInput(in)
	if err != nil {
		return Tour{}, err
	}
	created, err := s.repo.CreateTour(ctx, t)
	if err != nil {
		return Tour{}, err
	}
	s.recordAudit(ctx, actorID, "tour.create", created.ID)
	return created, nil
}

// Update replaces the writable fields of a tour.
func (s *Service) Update(ctx context.Context, actorID, id int64, in TourInput) (Tour, error) {
	t, err := fromInput(in)
	if err != nil {
		return Tour{}, err
	}
	updated, err := s.repo.UpdateTour(ctx, id, t)
	if err != nil {
		return Tour{}, err
	}
	s.recordAudit(ctx, actorID, "tour.update", updated.ID)
	return updated, nil
}

// SetPublished publishes or unpublishes a tour.
func (s *Service) SetPublished(ctx context.Context, actorID, id int64, published bool) error {
	if err := s.repo.SetPublished(ctx, id, published); err != nil {
		return err
	}
	action := "tour.publish"
	if !published {
		action = "tour.unpublish"
	}
	s.recordAudit(ctx, actorID, action, id)
	return nil
}

// Delete removes a tour.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteTour(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "tour.delete", id)
	return nil
}

func fromInput(in TourInput) (Tour, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Tour{}, errors.New("tours: title required")
	}
	if in.DurationDays <= 0 {
		return Tour{}, errors.New("tours: duration must be positive")
	}
	if in.PriceCents < 0 {
		return Tour{}, errors.New("tours: price cannot be negative")
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	return Tour{
		DestinationID: in.DestinationID,
		Title:         title,
		Slug:          shared.Slugify(title),
		Summary:       strings.TrimSpace(in.Summary),
		Description:   in.Description,
		DurationDays:  in.DurationDays,
		PriceCents:    in.PriceCents,
		Currency:      currency,
	}, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{ActorID: actorID, Action: action, Entity: "tour", EntityID: strconv.FormatInt(entityID, 10)}
	if err := s.audit.Record(ctx, log); err != nil && s.logger != nil {
		s.logger.Warn("tours: audit record", slog.String("action", action), slog.Any("error", err))
	}
}
