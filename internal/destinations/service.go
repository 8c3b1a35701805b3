package destinations

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RepositoryPort defines data access methods for destinations.
type RepositoryPort interface {
	ListDestinations(ctx context.Context, publishedOnly bool) ([]Destination, error)
	ListRegions(ctx context.Context) ([]RegionSummary, error)
	GetDestination(ctx context.Context, id int64) (Destination, error)
	GetDestinationBySlug(ctx context.Context, slug string) (Destination, error)
	CreateDestination(ctx context.Context, d Destination) (Destination, error)
	UpdateDestination(ctx context.Context, id int64, d Destination) (Destination, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	DeleteDestination(ctx context.Context, id int64) error
}

// Auditor records administrative mutations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles destination business logic.
type Service struct {
	repo   RepositoryPort
	audit  Auditor
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit Auditor, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// ListPublished returns published destinations for the public site.
func (s *Service) ListPublished(ctx context.Context) ([]Destination, error) {
	return s.repo.ListDestinations(ctx, true)
}

// ListRegions aggregates published destinations per region.
func (s *Service) ListRegions(ctx context.Context) ([]RegionSummary, error) {
	return s.repo.ListRegions(ctx)
}

// GetPublishedBySlug fetches a published destination.
func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Destination, error) {
	return s.repo.GetDestinationBySlug(ctx, slug)
}

// ListAll returns every destination for the back office.
func (s *Service) ListAll(ctx context.Context) ([]Destination, error) {
	return s.repo.ListDestinations(ctx, false)
}

// Get fetches a destination by id.
func (s *Service) Get(ctx context.Context, id int64) (Destination, error) {
	return s.repo.GetDestination(ctx, id)
}

// Create inserts a new unpublished destination.
func (s *Service) Create(ctx context.Context, actorID int64, in DestinationInput) (Destination, error) {
	d, err := fromInput(in)
	if err != nil {
		return Destination{}, err
	}
	created, err := s.repo.CreateDestination(ctx, d)
	if err != nil {
		return Destination{}, err
	}
	s.recordAudit(ctx, actorID, "destination.create", created.ID)
	return created, nil
}

// Update replaces the writable fields of a destination.
func (s *Service) Update(ctx context.Context, actorID, id int64, in DestinationInput) (Destination, error) {
	d, err := fromInput(in)
	if err != nil {
		return Destination{}, err
	}
	updated, err := s.repo.UpdateDestination(ctx, id, d)
	if err != nil {
		return Destination{}, err
	}
	s.recordAudit(ctx, actorID, "destination.update", updated.ID)
	return updated, nil
}

// SetPublished publishes or unpublishes a destination.
func (s *Service) SetPublished(ctx context.Context, actorID, id int64, published bool) error {
	if err := s.repo.SetPublished(ctx, id, published); err != nil {
		return err
	}
	action := "destination.publish"
	if !published {
		action = "destination.unpublish"
	}
	s.recordAudit(ctx, actorID, action, id)
	return nil
}

// Delete removes a destination.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteDestination(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, actorID, "destination.delete", id)
	return nil
}

func fromInput(in DestinationInput) (Destination, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Destination{}, errors.New("destinations: name required")
	}
	return Destination{
		Name:        name,
		Slug:        shared.Slugify(name),
		Region:      strings.TrimSpace(in.Region),
		Country:     strings.TrimSpace(in.Country),
		Summary:     strings.TrimSpace(in.Summary),
		Description: in.Description,
	}, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{ActorID: actorID, Action: action, Entity: "destination", EntityID: strconv.FormatInt(entityID, 10)}
	if err := s.audit.Record(ctx, log); err != nil && s.logger != nil {
		s.logger.Warn("destinations: audit record", slog.String("action", action), slog.Any("error", err))
	}
}
