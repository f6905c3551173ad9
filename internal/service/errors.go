package service

import "errors"

var (
	// ErrInvalidTask is returned when task input fails validation.
	ErrInvalidTask = errors.New("invalid task")

	// ErrNotFound is returned when no task exists at the given ID for the
	// requesting principal. A task owned by someone else is not found.
	ErrNotFound = errors.New("task not found")

	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrPrincipalNotFound is returned when a session refers to an unknown principal.
	ErrPrincipalNotFound = errors.New("principal not found")

	// ErrStoreFailure wraps any error reported by the persistence layer.
	ErrStoreFailure = errors.New("store failure")
)
