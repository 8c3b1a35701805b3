package customers

import (
	"context"
	"strconv"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RepositoryPort is the persistence contract consumed by the service.
type RepositoryPort interface {
	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	UpsertByEmail(ctx context.Context, name, email, phone string) (Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service owns customer records.
type Service struct {
	repo    RepositoryPort
	auditor Auditor
}

// NewService constructs a service.
func NewService(repo RepositoryPort, auditor Auditor) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// Capture records the person behind a booking submission, keyed by email.
func (s *Service) Capture(ctx context.Context, name, email, phone string) (Customer, error) {
	return s.repo.UpsertByEmail(
		ctx,
		strings.TrimSpace(name),
		strings.ToLower(strings.TrimSpace(email)),
		strings.TrimSpace(phone),
	)
}

// Delete removes a customer record.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if err := s.repo.DeleteCustomer(ctx, id); err != nil {
		return err
	}
	if s.auditor != nil {
		_ = s.auditor.Record(ctx, shared.AuditLog{
			ActorID:  actorID,
			Action:   "customer.delete",
			Entity:   "customer",
			EntityID: strconv.FormatInt(id, 10),
		})
	}
	return nil
}
