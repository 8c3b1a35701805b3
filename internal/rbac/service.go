package rbac

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// Service is the permission resolver and access decision gate.
//
// Read-path methods (HasPermission, HasRole) are fail-closed: any store
// failure is logged and treated as "no access" so a degraded permission
// subsystem denies rather than crashes. Resolution always reads current
// state; there is no in-process cache to invalidate.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// RolesFor returns the distinct roles held by a user. A user with no
// assignments yields an empty slice, not an error.
func (s *Service) RolesFor(ctx context.Context, userID int64) ([]Role, error) {
	if userID <= 0 {
		return []Role{}, nil
	}
	roles, err := s.repo.RolesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		roles = []Role{}
	}
	return roles, nil
}

// EffectivePermissions resolves the deduplicated permission set
// reachable through the user's roles. This is the primary resolution
// primitive; callers checking many permissions should resolve once and
// test membership locally.
func (s *Service) EffectivePermissions(ctx context.Context, userID int64) ([]Permission, error) {
	if userID <= 0 {
		return []Permission{}, nil
	}
	perms, err := s.repo.PermissionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if perms == nil {
		perms = []Permission{}
	}
	return perms, nil
}

// HasPermission reports whether the user holds the named permission.
// Fail-closed: false on anonymous users, unknown names, and store errors.
func (s *Service) HasPermission(ctx context.Context, userID int64, permissionName string) bool {
	permissionName = strings.TrimSpace(permissionName)
	if userID <= 0 || permissionName == "" {
		return false
	}
	ok, err := s.repo.UserHasPermission(ctx, userID, permissionName)
	if err != nil {
		s.logError("check permission", err, slog.Int64("user_id", userID), slog.String("permission", permissionName))
		return false
	}
	return ok
}

// HasRole reports whether the user holds the named role. Same
// fail-closed contract as HasPermission.
func (s *Service) HasRole(ctx context.Context, userID int64, roleName string) bool {
	roleName = strings.TrimSpace(roleName)
	if userID <= 0 || roleName == "" {
		return false
	}
	ok, err := s.repo.UserHasRole(ctx, userID, roleName)
	if err != nil {
		s.logError("check role", err, slog.Int64("user_id", userID), slog.String("role", roleName))
		return false
	}
	return ok
}

// RequirePermission is the gate every mutating admin operation calls
// before touching the store. It returns shared.ErrPermissionDenied for
// anonymous users and users lacking the permission alike.
func (s *Service) RequirePermission(ctx context.Context, userID int64, permissionName string) error {
	if !s.HasPermission(ctx, userID, permissionName) {
		return shared.ErrPermissionDenied
	}
	return nil
}

// ListRoles returns all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// GetRoleByName fetches a role by unique name.
func (s *Service) GetRoleByName(ctx context.Context, name string) (Role, error) {
	return s.repo.RoleByName(ctx, strings.TrimSpace(name))
}

// CreateRole inserts a new role.
func (s *Service) CreateRole(ctx context.Context, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("rbac: role name required")
	}
	return s.repo.CreateRole(ctx, name, strings.TrimSpace(description))
}

// UpdateRole updates an existing role.
func (s *Service) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("rbac: role name required")
	}
	return s.repo.UpdateRole(ctx, id, name, strings.TrimSpace(description))
}

// DeleteRole removes a role. The admin role cannot be deleted.
func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	role, err := s.repo.RoleByName(ctx, AdminRoleName)
	if err == nil && role.ID == id {
		return errors.New("rbac: the admin role cannot be deleted")
	}
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return s.repo.DeleteRole(ctx, id)
}

// ListPermissions returns all permissions.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// RolePermissionIDs returns the ids of permissions granted to a role.
func (s *Service) RolePermissionIDs(ctx context.Context, roleID int64) ([]int64, error) {
	ids, err := s.repo.RoleGrantIDs(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// SetRolePermissions reconciles a role's grants to exactly the given
// permission ids: missing grants are attached, extra grants detached.
func (s *Service) SetRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	current, err := s.repo.RoleGrantIDs(ctx, roleID)
	if err != nil {
		return err
	}
	existing := make(map[int64]struct{}, len(current))
	for _, id := range current {
		existing[id] = struct{}{}
	}
	keep := make(map[int64]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		keep[id] = struct{}{}
		if _, ok := existing[id]; !ok {
			if err := s.repo.AttachPermission(ctx, roleID, id); err != nil {
				return err
			}
		}
	}
	for id := range existing {
		if _, ok := keep[id]; !ok {
			if err := s.repo.DetachPermission(ctx, roleID, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// AssignRole grants a role to a user.
func (s *Service) AssignRole(ctx context.Context, userID, roleID int64, assignedBy *int64) error {
	return s.repo.AssignRole(ctx, userID, roleID, assignedBy)
}

// RemoveRole revokes a role from a user.
func (s *Service) RemoveRole(ctx context.Context, userID, roleID int64) error {
	return s.repo.RemoveRole(ctx, userID, roleID)
}

func (s *Service) logError(msg string, err error, attrs ...any) {
	if s.logger == nil {
		return
	}
	s.logger.Error("rbac: "+msg, append(attrs, slog.Any("error", err))...)
}
