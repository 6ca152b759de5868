package services

import "errors"

// Error taxonomy surfaced to the HTTP layer. Handlers map these to status
// codes in one place; nothing is retried or recovered internally.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrInvalidCredential = errors.New("invalid or expired credential")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInsufficientStock = errors.New("insufficient stock")
)
