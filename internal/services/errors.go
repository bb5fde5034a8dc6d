package services

import "errors"

var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateEmail indicates a registration attempt with an email that
	// already has an account.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password, so a caller cannot tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the caller is authenticated but does not own the
	// record it is trying to mutate.
	ErrForbidden = errors.New("forbidden")
)
