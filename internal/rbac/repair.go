package rbac

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// Repair restores a known-good access-control state for the given user:
//
//  1. ensure the admin role exists,
//  2. upsert the full permission catalog (ids of existing rows stay stable),
//  3. reconcile the admin role's grants to exactly the stored permission set,
//  4. ensure the user holds the admin role.
//
// Steps run sequentially inside one transaction under an advisory lock,
// so concurrent repairs cannot interleave and a failing step aborts the
// whole run. Errors name the failing step; an operator fixing drifted
// data needs to know which relation to inspect.
func (s *Service) Repair(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return errors.New("rbac: repair requires an authenticated user")
	}

	return s.repo.WithRepairLock(ctx, func(ctx context.Context, repo RepositoryPort) error {
		adminRole, err := ensureAdminRole(ctx, repo)
		if err != nil {
			return fmt.Errorf("rbac repair: ensure admin role: %w", err)
		}

		for _, entry := range Catalog() {
			if _, err := repo.UpsertPermission(ctx, entry); err != nil {
				return fmt.Errorf("rbac repair: upsert permission %q: %w", entry.Name, err)
			}
		}

		perms, err := repo.ListPermissions(ctx)
		if err != nil {
			return fmt.Errorf("rbac repair: fetch permissions: %w", err)
		}
		if err := reconcileAdminGrants(ctx, repo, adminRole.ID, perms); err != nil {
			return fmt.Errorf("rbac repair: reconcile admin grants: %w", err)
		}

		if err := repo.AssignRole(ctx, userID, adminRole.ID, &userID); err != nil {
			return fmt.Errorf("rbac repair: assign admin role to user %d: %w", userID, err)
		}

		if s.logger != nil {
			s.logger.Info("rbac: repair completed",
				slog.Int64("user_id", userID),
				slog.Int64("role_id", adminRole.ID),
				slog.Int("permissions", len(perms)))
		}
		return nil
	})
}

func ensureAdminRole(ctx context.Context, repo RepositoryPort) (Role, error) {
	role, err := repo.RoleByName(ctx, AdminRoleName)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return Role{}, err
	}
	return repo.CreateRole(ctx, AdminRoleName, "Full administrative access")
}

// reconcileAdminGrants diffs the admin role's grants against the full
// permission set instead of deleting and reinserting everything.
func reconcileAdminGrants(ctx context.Context, repo RepositoryPort, roleID int64, perms []Permission) error {
	current, err := repo.RoleGrantIDs(ctx, roleID)
	if err != nil {
		return err
	}
	existing := make(map[int64]struct{}, len(current))
	for _, id := range current {
		existing[id] = struct{}{}
	}

	desired := make(map[int64]struct{}, len(perms))
	for _, p := range perms {
		desired[p.ID] = struct{}{}
		if _, ok := existing[p.ID]; !ok {
			if err := repo.AttachPermission(ctx, roleID, p.ID); err != nil {
				return err
			}
		}
	}
	for id := range existing {
		if _, ok := desired[id]; !ok {
			if err := repo.DetachPermission(ctx, roleID, id); err != nil {
				return err
			}
		}
	}
	return nil
}
