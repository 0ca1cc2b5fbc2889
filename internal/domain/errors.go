package domain

import "errors"

// Domain errors (no external dependencies). Wrap with fmt.Errorf("...: %w") to add detail.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicate          = errors.New("resource already exists")
	ErrUnauthenticated    = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("access denied")
	ErrConflict           = errors.New("conflict with current state")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrNotConfigured      = errors.New("feature not configured")
)
