package errors

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrStoreUnavailable   = errors.New("user store unavailable")
	ErrSigningFailure     = errors.New("token signing failed")

	ErrAlreadyExists    = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("forbidden")

	ErrInvalidEmail    = fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	ErrInvalidRole     = fmt.Errorf("%w: invalid role", ErrInvalidInput)
	ErrInvalidRating   = fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidInput)
	ErrPasswordTooLong = fmt.Errorf("%w: password exceeds 72 bytes", ErrInvalidInput)
)
