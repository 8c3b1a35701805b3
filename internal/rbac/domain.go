// Package rbac implements role-based access control: the permission
// resolver, the access decision gate guarding every mutating admin
// operation, and the repair procedure restoring a known-good state.
package rbac

import "time"

// Role represents a high-level permission grouping.
type Role struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission represents an atomic capability. Name is the stable
// identifier used in code; Resource and Action are descriptive metadata.
type Permission struct {
	ID          int64
	Name        string
	Resource    string
	Action      string
	Description string
}

// RolePermission ties a permission to a role.
type RolePermission struct {
	RoleID       int64
	PermissionID int64
	CreatedAt    time.Time
}

// UserRole links a user to a role.
type UserRole struct {
	UserID     int64
	RoleID     int64
	AssignedBy *int64
	CreatedAt  time.Time
}
