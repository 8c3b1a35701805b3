package rbac

import (
	"context"
	"errors"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// ProbePermission is the permission used to spot-check catalog health.
const ProbePermission = PermViewTours

// Diagnostics is a read-only health report over the access-control
// data. Drift is reported as data, never raised as an error.
type Diagnostics struct {
	PermissionCount     int64  `json:"permission_count"`
	CatalogSize         int    `json:"catalog_size"`
	AdminRoleExists     bool   `json:"admin_role_exists"`
	AdminGrantCount     int64  `json:"admin_grant_count"`
	ProbePermission     string `json:"probe_permission"`
	ProbeInCatalog      bool   `json:"probe_in_catalog"`
	ProbeGrantedToAdmin bool   `json:"probe_granted_to_admin"`
	ProbeEffective      bool   `json:"probe_effective_for_user"`
	Drifted             bool   `json:"drifted"`
}

// Diagnose reports the current state of the access-control data without
// mutating anything. It composes the resolver's read primitives with
// direct counts.
func (s *Service) Diagnose(ctx context.Context, userID int64) (Diagnostics, error) {
	report := Diagnostics{
		CatalogSize:     len(Catalog()),
		ProbePermission: ProbePermission,
	}

	count, err := s.repo.CountPermissions(ctx)
	if err != nil {
		return report, err
	}
	report.PermissionCount = count

	adminRole, err := s.repo.RoleByName(ctx, AdminRoleName)
	switch {
	case err == nil:
		report.AdminRoleExists = true
	case errors.Is(err, shared.ErrNotFound):
	default:
		return report, err
	}

	if report.AdminRoleExists {
		grants, err := s.repo.CountRoleGrants(ctx, adminRole.ID)
		if err != nil {
			return report, err
		}
		report.AdminGrantCount = grants

		granted, err := s.repo.RoleGrantsPermission(ctx, adminRole.ID, ProbePermission)
		if err != nil {
			return report, err
		}
		report.ProbeGrantedToAdmin = granted
	}

	_, err = s.repo.PermissionByName(ctx, ProbePermission)
	switch {
	case err == nil:
		report.ProbeInCatalog = true
	case errors.Is(err, shared.ErrNotFound):
	default:
		return report, err
	}

	report.ProbeEffective = s.HasPermission(ctx, userID, ProbePermission)

	report.Drifted = !report.AdminRoleExists ||
		report.AdminGrantCount < int64(report.CatalogSize) ||
		!report.ProbeInCatalog ||
		!report.ProbeGrantedToAdmin

	return report, nil
}
