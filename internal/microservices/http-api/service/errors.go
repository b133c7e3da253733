package service

import "errors"

// Error kinds surfaced to the HTTP layer. Services wrap them with detail via fmt.Errorf("%w: ...").
var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrCapacityExceeded = errors.New("shelf capacity exceeded")
	ErrUnauthorized     = errors.New("authentication required")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("already exists")
)
