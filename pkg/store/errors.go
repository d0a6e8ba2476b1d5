package store

import (
	"errors"
)

var (
	// ErrNotFound is returned when an operation references an id that
	// does not exist or belongs to another account. Mutations on a
	// missing id surface this instead of silently doing nothing.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned before any persistence call when a
	// required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a record would collide with an
	// existing one, e.g. a duplicate account email.
	ErrConflict = errors.New("conflict")

	// ErrQuotaExceeded is returned when an account hits its pricing
	// tier limit.
	ErrQuotaExceeded = errors.New("plan quota exceeded")
)
