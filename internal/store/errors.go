package store

import "errors"

var (
	// ErrNotFound is returned when a record id does not exist in the
	// collection.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateKey is returned by Create when the id already exists.
	ErrDuplicateKey = errors.New("store: duplicate key")

	// ErrUnknownCollection is returned when the collection was never
	// registered.
	ErrUnknownCollection = errors.New("store: unknown collection")

	// ErrConflictUnresolved is returned when mutating a record whose
	// syncStatus is conflict. The conflict must be resolved first.
	ErrConflictUnresolved = errors.New("store: record has an unresolved conflict")
)
