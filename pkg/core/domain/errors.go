package domain

import "errors"

// Sentinel errors for the core domain. The HTTP layer maps these to
// status codes with errors.Is; everything else is an internal error.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("invalid input")
)
