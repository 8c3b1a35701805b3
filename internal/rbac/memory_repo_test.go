package rbac

import (
	"context"
	"sync"

	"github.com/wayfarer-travel/wayfarer/internal/shared"
)

type grantKey struct {
	roleID       int64
	permissionID int64
}

type userRoleKey struct {
	userID int64
	roleID int64
}

// memoryRepo is an in-memory RepositoryPort used by the service tests.
// Unique constraints mirror the relational schema.
type memoryRepo struct {
	mu        sync.Mutex
	roles     map[int64]Role
	perms     map[int64]Permission
	grants    map[grantKey]struct{}
	userRoles map[userRoleKey]struct{}
	nextID    int64

	// failOn maps an operation name to an error, used to exercise
	// failure attribution in the repair procedure.
	failOn map[string]error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		roles:     make(map[int64]Role),
		perms:     make(map[int64]Permission),
		grants:    make(map[grantKey]struct{}),
		userRoles: make(map[userRoleKey]struct{}),
		failOn:    make(map[string]error),
	}
}

func (r *memoryRepo) fail(op string) error {
	return r.failOn[op]
}

func (r *memoryRepo) RoleByName(ctx context.Context, name string) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("RoleByName"); err != nil {
		return Role{}, err
	}
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return Role{}, shared.ErrNotFound
}

func (r *memoryRepo) CreateRole(ctx context.Context, name, description string) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("CreateRole"); err != nil {
		return Role{}, err
	}
	for _, role := range r.roles {
		if role.Name == name {
			return Role{}, shared.ErrDuplicate
		}
	}
	r.nextID++
	role := Role{ID: r.nextID, Name: name, Description: description}
	r.roles[role.ID] = role
	return role, nil
}

func (r *memoryRepo) UpdateRole(ctx context.Context, id int64, name, description string) (Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return Role{}, shared.ErrNotFound
	}
	role.Name = name
	role.Description = description
	r.roles[id] = role
	return role, nil
}

func (r *memoryRepo) DeleteRole(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.roles, id)
	for k := range r.grants {
		if k.roleID == id {
			delete(r.grants, k)
		}
	}
	for k := range r.userRoles {
		if k.roleID == id {
			delete(r.userRoles, k)
		}
	}
	return nil
}

func (r *memoryRepo) ListRoles(ctx context.Context) ([]Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles := make([]Role, 0, len(r.roles))
	for _, role := range r.roles {
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *memoryRepo) UpsertPermission(ctx context.Context, entry CatalogEntry) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("UpsertPermission"); err != nil {
		return Permission{}, err
	}
	for id, p := range r.perms {
		if p.Name == entry.Name {
			p.Resource = entry.Resource
			p.Action = entry.Action
			p.Description = entry.Description
			r.perms[id] = p
			return p, nil
		}
	}
	r.nextID++
	p := Permission{ID: r.nextID, Name: entry.Name, Resource: entry.Resource, Action: entry.Action, Description: entry.Description}
	r.perms[p.ID] = p
	return p, nil
}

func (r *memoryRepo) ListPermissions(ctx context.Context) ([]Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("ListPermissions"); err != nil {
		return nil, err
	}
	perms := make([]Permission, 0, len(r.perms))
	for _, p := range r.perms {
		perms = append(perms, p)
	}
	return perms, nil
}

func (r *memoryRepo) PermissionByName(ctx context.Context, name string) (Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.perms {
		if p.Name == name {
			return p, nil
		}
	}
	return Permission{}, shared.ErrNotFound
}

func (r *memoryRepo) CountPermissions(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.perms)), nil
}

func (r *memoryRepo) RoleGrantIDs(ctx context.Context, roleID int64) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("RoleGrantIDs"); err != nil {
		return nil, err
	}
	var ids []int64
	for k := range r.grants {
		if k.roleID == roleID {
			ids = append(ids, k.permissionID)
		}
	}
	return ids, nil
}

func (r *memoryRepo) CountRoleGrants(ctx context.Context, roleID int64) (int64, error) {
	ids, err := r.RoleGrantIDs(ctx, roleID)
	return int64(len(ids)), err
}

func (r *memoryRepo) RoleGrantsPermission(ctx context.Context, roleID int64, permissionName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.grants {
		if k.roleID != roleID {
			continue
		}
		if p, ok := r.perms[k.permissionID]; ok && p.Name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) AttachPermission(ctx context.Context, roleID, permissionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("AttachPermission"); err != nil {
		return err
	}
	r.grants[grantKey{roleID, permissionID}] = struct{}{}
	return nil
}

func (r *memoryRepo) DetachPermission(ctx context.Context, roleID, permissionID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants, grantKey{roleID, permissionID})
	return nil
}

func (r *memoryRepo) RolesForUser(ctx context.Context, userID int64) ([]Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("RolesForUser"); err != nil {
		return nil, err
	}
	var roles []Role
	for k := range r.userRoles {
		if k.userID == userID {
			if role, ok := r.roles[k.roleID]; ok {
				roles = append(roles, role)
			}
		}
	}
	return roles, nil
}

func (r *memoryRepo) PermissionsForUser(ctx context.Context, userID int64) ([]Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("PermissionsForUser"); err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{})
	var perms []Permission
	for ur := range r.userRoles {
		if ur.userID != userID {
			continue
		}
		for g := range r.grants {
			if g.roleID != ur.roleID {
				continue
			}
			if _, dup := seen[g.permissionID]; dup {
				continue
			}
			seen[g.permissionID] = struct{}{}
			if p, ok := r.perms[g.permissionID]; ok {
				perms = append(perms, p)
			}
		}
	}
	return perms, nil
}

func (r *memoryRepo) UserHasPermission(ctx context.Context, userID int64, permissionName string) (bool, error) {
	if err := r.fail("UserHasPermission"); err != nil {
		return false, err
	}
	perms, err := r.PermissionsForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if p.Name == permissionName {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) UserHasRole(ctx context.Context, userID int64, roleName string) (bool, error) {
	if err := r.fail("UserHasRole"); err != nil {
		return false, err
	}
	roles, err := r.RolesForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		if role.Name == roleName {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) AssignRole(ctx context.Context, userID, roleID int64, assignedBy *int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.fail("AssignRole"); err != nil {
		return err
	}
	r.userRoles[userRoleKey{userID, roleID}] = struct{}{}
	return nil
}

func (r *memoryRepo) RemoveRole(ctx context.Context, userID, roleID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.userRoles, userRoleKey{userID, roleID})
	return nil
}

var repairMu sync.Mutex

func (r *memoryRepo) WithRepairLock(ctx context.Context, fn func(context.Context, RepositoryPort) error) error {
	repairMu.Lock()
	defer repairMu.Unlock()
	return fn(ctx, r)
}

var _ RepositoryPort = (*memoryRepo)(nil)
