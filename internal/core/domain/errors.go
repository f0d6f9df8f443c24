package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrPermissionDenied indicates the current workspace may not perform the action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStorage indicates the persistence layer failed.
	// Services swallow it on writes; it only surfaces from stores directly.
	ErrStorage = errors.New("storage failure")
)
