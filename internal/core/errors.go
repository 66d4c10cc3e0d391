package core

import "errors"

var (
	// ErrNotFound is returned when an operation names an id that is not in the
	// collection. Under the deletion race this is expected: an extraction run
	// may report progress for an item the user already deleted, and callers
	// swallow it.
	ErrNotFound = errors.New("review item not found")

	// ErrDuplicateID is returned when an insert reuses an existing id. With
	// ULID generation this should never happen; seeing it indicates a bug in
	// the id scheme.
	ErrDuplicateID = errors.New("duplicate review item id")
)
