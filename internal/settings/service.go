package settings

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_.]{1,99}$`)

// RepositoryPort is the persistence contract consumed by the service.
type RepositoryPort interface {
	ListSettings(ctx context.Context) ([]Setting, error)
	GetSetting(ctx context.Context, key string) (Setting, error)
	UpsertSetting(ctx context.Context, key, value string) (Setting, error)
	DeleteSetting(ctx context.Context, key string) error
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service owns site settings.
type Service struct {
	repo    RepositoryPort
	auditor Auditor
}

// NewService constructs a service.
func NewService(repo RepositoryPort, auditor Auditor) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// List returns all settings.
func (s *Service) List(ctx context.Context) ([]Setting, error) {
	return s.repo.ListSettings(ctx)
}

// Get returns a single setting.
func (s *Service) Get(ctx context.Context, key string) (Setting, error) {
	return s.repo.GetSetting(ctx, strings.TrimSpace(key))
}

// Set writes a setting value, creating it if needed.
func (s *Service) Set(ctx context.Context, actorID int64, key, value string) (Setting, error) {
	key = strings.TrimSpace(key)
	if !keyPattern.MatchString(key) {
		return Setting{}, fmt.Errorf("%w: setting keys are lowercase dotted identifiers", shared.ErrValidation)
	}
	setting, err := s.repo.UpsertSetting(ctx, key, value)
	if err != nil {
		return Setting{}, err
	}
	s.audit(ctx, actorID, "setting.set", key)
	return setting, nil
}

// Delete removes a setting.
func (s *Service) Delete(ctx context.Context, actorID int64, key string) error {
	key = strings.TrimSpace(key)
	if err := s.repo.DeleteSetting(ctx, key); err != nil {
		return err
	}
	s.audit(ctx, actorID, "setting.delete", key)
	return nil
}

func (s *Service) audit(ctx context.Context, actorID int64, action, key string) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "setting",
		EntityID: key,
	})
}
