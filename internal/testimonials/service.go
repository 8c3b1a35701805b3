package testimonials

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RepositoryPort is the persistence contract consumed by the service.
type RepositoryPort interface {
	ListTestimonials(ctx context.Context, publishedOnly bool) ([]Testimonial, error)
	GetTestimonial(ctx context.Context, id int64) (Testimonial, error)
	CreateTestimonial(ctx context.Context, t Testimonial) (Testimonial, error)
	UpdateTestimonial(ctx context.Context, id int64, t Testimonial) (Testimonial, error)
	SetPublished(ctx context.Context, id int64, published bool) error
	DeleteTestimonial(ctx context.Context, id int64) error
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service owns testimonial rules.
type Service struct {
	repo    RepositoryPort
	auditor Auditor
}

// NewService constructs a service.
func NewService(repo RepositoryPort, auditor Auditor) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// ListPublished returns published testimonials for the public site.
func (s *Service) ListPublished(ctx context.Context) ([]Testimonial, error) {
	return s.repo.ListTestimonials(ctx, true)
}

// ListAll returns every testimonial for the admin surface.
func (s *Service) ListAll(ctx context.Context) ([]Testimonial, error) {
	return s.repo.ListTestimonials(ctx, false)
}

// Get returns a testimonial by id.
func (s *Service) Get(ctx context.Context, id int64) (Testimonial, error) {
	return s.repo.GetTestimonial(ctx, id)
}

// Create stores a new unpublished testimonial.
func (s *Service) Create(ctx context.Context, actorID int64, in TestimonialInput) (Testimonial, error) {
	t, err := fromInput(in)
	if err != nil {
		return Testimonial{}, err
	}
	created, err := s.repo.CreateTestimonial(ctx, t)
	if err != nil {
		return Testimonial{}, err
	}
	s.audit(ctx, actorID, "testimonial.create", created.ID)
	return created, nil
}

// Update rewrites a testimonial.
func (s *Service) Update(ctx context.Context, actorID, id int64, in TestimonialInput) (Testimonial, error) {
	t, err := fromInput(in)
	if err != nil {
		return Testimonial{}, err
	}
	updated, err := s.repo.UpdateTestimonial(ctx, id, t)
	if err != nil {
		return Testimonial{}, err
	}
	s.audit(ctx, actorID, "testimonial.update", id)
	return updated, nil
}

// SetPublished publishes or hides a testimonial.
func (s *Service) SetPublished(ctx context.Context, actorID, id int64, published bool) error {
	if err := s.repo.SetPublished(ctx, id, published); err != nil {
		return err
	}
	action := "testimonial.publish"
	if !published {
		action = "testimonial.unpublish"
	}
	s.audit(ctx, actorID, action, id)
	return nil
}

// Delete removes a testimonial.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "testimonial.delete", id)
	return nil
}

func (s *Service) audit(ctx context.Context, actorID int64, action string, entityID int64) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "testimonial",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}

func fromInput(in TestimonialInput) (Testimonial, error) {
	name := strings.TrimSpace(in.AuthorName)
	if name == "" {
		return Testimonial{}, fmt.Errorf("%w: author name is required", shared.ErrValidation)
	}
	quote := strings.TrimSpace(in.Quote)
	if quote == "" {
		return Testimonial{}, fmt.Errorf("%w: quote is required", shared.ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return Testimonial{}, fmt.Errorf("%w: rating must be between 1 and 5", shared.ErrValidation)
	}
	return Testimonial{
		AuthorName: name,
		Location:   strings.TrimSpace(in.Location),
		Rating:     in.Rating,
		Quote:      quote,
	}, nil
}
