package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/wayfarer-travel/wayfarer/internal/rbac"
	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RepositoryPort is the persistence contract consumed by the service.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	CreateUser(ctx context.Context, u User) (User, error)
	UpdateUser(ctx context.Context, id int64, name, passwordHash string) (User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	DeleteUser(ctx context.Context, id int64) error
}

// AccessManager is the role surface used for assignments.
type AccessManager interface {
	RolesFor(ctx context.Context, userID int64) ([]rbac.Role, error)
	AssignRole(ctx context.Context, userID, roleID int64, assignedBy *int64) error
	RemoveRole(ctx context.Context, userID, roleID int64) error
}

// Auditor records administrative actions.
type Auditor interface {
	Record(ctx context.Context, entry shared.AuditLog) error
}

// Service owns back-office accounts.
type Service struct {
	repo    RepositoryPort
	access  AccessManager
	auditor Auditor
}

// NewService constructs a service.
func NewService(repo RepositoryPort, access AccessManager, auditor Auditor) *Service {
	return &Service{repo: repo, access: access, auditor: auditor}
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.ListUsers(ctx)
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.GetUser(ctx, id)
}

// Create registers a new account with a hashed password.
func (s *Service) Create(ctx context.Context, actorID int64, in CreateInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", shared.ErrValidation)
	}
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	user, err := s.repo.CreateUser(ctx, User{Email: email, Name: name, PasswordHash: hash})
	if err != nil {
		return User{}, err
	}
	s.audit(ctx, actorID, "user.create", user.ID)
	return user, nil
}

// Update edits the account name and optionally resets the password.
func (s *Service) Update(ctx context.Context, actorID, id int64, in UpdateInput) (User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return User{}, err
	}
	name := user.Name
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
		if name == "" {
			return User{}, fmt.Errorf("%w: name is required", shared.ErrValidation)
		}
	}
	hash := user.PasswordHash
	if in.Password != nil {
		hash, err = hashPassword(*in.Password)
		if err != nil {
			return User{}, err
		}
	}
	updated, err := s.repo.UpdateUser(ctx, id, name, hash)
	if err != nil {
		return User{}, err
	}
	s.audit(ctx, actorID, "user.update", id)
	return updated, nil
}

// SetActive enables or disables an account. Actors cannot disable
// themselves, that would lock them out mid-session.
func (s *Service) SetActive(ctx context.Context, actorID, id int64, active bool) error {
	if !active && actorID == id {
		return fmt.Errorf("%w: cannot deactivate your own account", shared.ErrValidation)
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return err
	}
	action := "user.activate"
	if !active {
		action = "user.deactivate"
	}
	s.audit(ctx, actorID, action, id)
	return nil
}

// Delete removes an account. Self deletion is refused.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete your own account", shared.ErrValidation)
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.audit(ctx, actorID, "user.delete", id)
	return nil
}

// Roles returns the roles held by an account.
func (s *Service) Roles(ctx context.Context, id int64) ([]rbac.Role, error) {
	if _, err := s.repo.GetUser(ctx, id); err != nil {
		return nil, err
	}
	return s.access.RolesFor(ctx, id)
}

// AssignRole grants a role to an account.
func (s *Service) AssignRole(ctx context.Context, actorID, id, roleID int64) error {
	if _, err := s.repo.GetUser(ctx, id); err != nil {
		return err
	}
	if err := s.access.AssignRole(ctx, id, roleID, &actorID); err != nil {
		return err
	}
	s.audit(ctx, actorID, "user.assign_role", id)
	return nil
}

// RemoveRole revokes a role from an account. Revocation is immediate,
// the next permission check sees the reduced set.
func (s *Service) RemoveRole(ctx context.Context, actorID, id, roleID int64) error {
	if err := s.access.RemoveRole(ctx, id, roleID); err != nil {
		return err
	}
	s.audit(ctx, actorID, "user.remove_role", id)
	return nil
}

func (s *Service) audit(ctx context.Context, actorID int64, action string, entityID int64) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "user",
		EntityID: strconv.FormatInt(entityID, 10),
	})
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
