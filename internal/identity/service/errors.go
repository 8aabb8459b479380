package service

import "errors"

// Login outcomes other than success. Faults wrap the underlying cause, so
// match with errors.Is.
var (
	// ErrInvalidArgument is malformed input, rejected before any store call.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthenticated covers both unknown logins and wrong passwords.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrConfiguration means the signing key could not be resolved.
	ErrConfiguration = errors.New("configuration error")

	// ErrSigning means a token could not be minted.
	ErrSigning = errors.New("signing error")

	// ErrInfrastructure means the identity store failed.
	ErrInfrastructure = errors.New("identity store unavailable")
)

// ValidationError carries per-field problems with admin input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// Unwrap lets callers match ErrInvalidArgument.
func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }
