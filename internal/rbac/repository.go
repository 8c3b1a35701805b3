package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

// RepositoryPort defines the persistence operations the resolver,
// gate and repair procedure are built on.
type RepositoryPort interface {
	RoleByName(ctx context.Context, name string) (Role, error)
	CreateRole(ctx context.Context, name, description string) (Role, error)
	UpdateRole(ctx context.Context, id int64, name, description string) (Role, error)
	DeleteRole(ctx context.Context, id int64) error
	ListRoles(ctx context.Context) ([]Role, error)

	UpsertPermission(ctx context.Context, entry CatalogEntry) (Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	PermissionByName(ctx context.Context, name string) (Permission, error)
	CountPermissions(ctx context.Context) (int64, error)

	RoleGrantIDs(ctx context.Context, roleID int64) ([]int64, error)
	CountRoleGrants(ctx context.Context, roleID int64) (int64, error)
	RoleGrantsPermission(ctx context.Context, roleID int64, permissionName string) (bool, error)
	AttachPermission(ctx context.Context, roleID, permissionID int64) error
	DetachPermission(ctx context.Context, roleID, permissionID int64) error

	RolesForUser(ctx context.Context, userID int64) ([]Role, error)
	PermissionsForUser(ctx context.Context, userID int64) ([]Permission, error)
	UserHasPermission(ctx context.Context, userID int64, permissionName string) (bool, error)
	UserHasRole(ctx context.Context, userID int64, roleName string) (bool, error)
	AssignRole(ctx context.Context, userID, roleID int64, assignedBy *int64) error
	RemoveRole(ctx context.Context, userID, roleID int64) error

	// WithRepairLock serialises concurrent repair runs and executes fn
	// against a transactional view of the store.
	WithRepairLock(ctx context.Context, fn func(context.Context, RepositoryPort) error) error
}

// repairLockKey identifies the advisory lock serialising repair runs.
const repairLockKey = int64(0x5242414331)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
	q    querier
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, q: pool}
}

// RoleByName fetches a role by unique name.
func (r *Repository) RoleByName(ctx context.Context, name string) (Role, error) {
	var role Role
	err := r.q.QueryRow(ctx, `SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`, name).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, err
	}
	return role, nil
}

// CreateRole inserts a new role.
func (r *Repository) CreateRole(ctx context.Context, name, description string) (Role, error) {
	var role Role
	err := r.q.QueryRow(ctx, `INSERT INTO roles (name, description) VALUES ($1, $2) RETURNING id, name, description, created_at, updated_at`, name, description).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return Role{}, mapDuplicate(err)
	}
	return role, nil
}

// UpdateRole updates a role by id.
func (r *Repository) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	var role Role
	err := r.q.QueryRow(ctx, `UPDATE roles SET name = $2, description = $3, updated_at = NOW() WHERE id = $1 RETURNING id, name, description, created_at, updated_at`, id, name, description).
		Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, mapDuplicate(err)
	}
	return role, nil
}

// DeleteRole removes a role and its join rows.
func (r *Repository) DeleteRole(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListRoles returns all roles ordered by name.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// UpsertPermission inserts a catalog entry, updating metadata on
// conflict. The id of an existing row is never changed.
func (r *Repository) UpsertPermission(ctx context.Context, entry CatalogEntry) (Permission, error) {
	var p Permission
	err := r.q.QueryRow(ctx, `
		INSERT INTO permissions (name, resource, action, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET resource = EXCLUDED.resource, action = EXCLUDED.action, description = EXCLUDED.description
		RETURNING id, name, resource, action, description`,
		entry.Name, entry.Resource, entry.Action, entry.Description).
		Scan(&p.ID, &p.Name, &p.Resource, &p.Action, &p.Description)
	if err != nil {
		return Permission{}, err
	}
	return p, nil
}

// ListPermissions returns all permissions ordered by name.
func (r *Repository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, resource, action, description FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// PermissionByName fetches a permission by unique name.
func (r *Repository) PermissionByName(ctx context.Context, name string) (Permission, error) {
	var p Permission
	err := r.q.QueryRow(ctx, `SELECT id, name, resource, action, description FROM permissions WHERE name = $1`, name).
		Scan(&p.ID, &p.Name, &p.Resource, &p.Action, &p.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, shared.ErrNotFound
		}
		return Permission{}, err
	}
	return p, nil
}

// CountPermissions counts all permission rows.
func (r *Repository) CountPermissions(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&n)
	return n, err
}

// RoleGrantIDs returns the permission ids granted to a role.
func (r *Repository) RoleGrantIDs(ctx context.Context, roleID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT permission_id FROM role_permissions WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountRoleGrants counts permissions granted to a role.
func (r *Repository) CountRoleGrants(ctx context.Context, roleID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM role_permissions WHERE role_id = $1`, roleID).Scan(&n)
	return n, err
}

// RoleGrantsPermission reports whether the role holds the named permission.
func (r *Repository) RoleGrantsPermission(ctx context.Context, roleID int64, permissionName string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM role_permissions rp
			JOIN permissions p ON p.id = rp.permission_id
			WHERE rp.role_id = $1 AND p.name = $2
		)`, roleID, permissionName).Scan(&exists)
	return exists, err
}

// AttachPermission grants a permission to a role. Idempotent.
func (r *Repository) AttachPermission(ctx context.Context, roleID, permissionID int64) error {
	_, err := r.q.Exec(ctx, `INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, roleID, permissionID)
	return err
}

// DetachPermission revokes a permission from a role.
func (r *Repository) DetachPermission(ctx context.Context, roleID, permissionID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
	return err
}

// RolesForUser returns the distinct roles held by a user.
func (r *Repository) RolesForUser(ctx context.Context, userID int64) ([]Role, error) {
	rows, err := r.q.Query(ctx, `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// PermissionsForUser resolves the deduplicated permission set reachable
// through the user's roles in a single round trip.
func (r *Repository) PermissionsForUser(ctx context.Context, userID int64) ([]Permission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT p.id, p.name, p.resource, p.action, p.description
		FROM user_roles ur
		JOIN role_permissions rp ON rp.role_id = ur.role_id
		JOIN permissions p ON p.id = rp.permission_id
		WHERE ur.user_id = $1
		ORDER BY p.name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// UserHasPermission checks a single permission with an existence query.
func (r *Repository) UserHasPermission(ctx context.Context, userID int64, permissionName string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles ur
			JOIN role_permissions rp ON rp.role_id = ur.role_id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE ur.user_id = $1 AND p.name = $2
		)`, userID, permissionName).Scan(&exists)
	return exists, err
}

// UserHasRole checks role membership by name.
func (r *Repository) UserHasRole(ctx context.Context, userID int64, roleName string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_roles ur
			JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = $1 AND r.name = $2
		)`, userID, roleName).Scan(&exists)
	return exists, err
}

// AssignRole links a user to a role. Idempotent.
func (r *Repository) AssignRole(ctx context.Context, userID, roleID int64, assignedBy *int64) error {
	_, err := r.q.Exec(ctx, `INSERT INTO user_roles (user_id, role_id, assigned_by) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, userID, roleID, assignedBy)
	return err
}

// RemoveRole unlinks a user from a role.
func (r *Repository) RemoveRole(ctx context.Context, userID, roleID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	return err
}

// WithRepairLock runs fn inside a transaction holding the repair
// advisory lock, so concurrent repairs execute one at a time.
func (r *Repository) WithRepairLock(ctx context.Context, fn func(context.Context, RepositoryPort) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("rbac: begin repair tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, repairLockKey); err != nil {
		return fmt.Errorf("rbac: acquire repair lock: %w", err)
	}

	if err := fn(ctx, &Repository{pool: r.pool, q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("rbac: commit repair tx: %w", err)
	}
	return nil
}

func scanPermissions(rows pgx.Rows) ([]Permission, error) {
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Resource, &p.Action, &p.Description); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
