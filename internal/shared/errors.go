package shared

import "errors"

var (
	// ErrNotFound indicates the resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates the request payload failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated indicates no signed-in user on the request.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrPermissionDenied indicates the signed-in user lacks a required permission.
	ErrPermissionDenied = errors.New("permission denied")
)
