package users

import "time"

// User is a back-office account.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateInput carries fields for a new account.
type CreateInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateInput carries editable account fields. Nil pointers leave the
// field untouched.
type UpdateInput struct {
	Name     *string
	Password *string
}
