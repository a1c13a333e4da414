package store

import "errors"

var (
	// ErrNotFound is returned when a key has never been written.
	ErrNotFound = errors.New("store: key not found")

	// ErrReadOnly is returned for writes against a store opened with OpenReadOnly.
	ErrReadOnly = errors.New("store: opened read-only")

	// ErrPersisterClosed is returned by Enqueue after Close.
	ErrPersisterClosed = errors.New("store: persister closed")
)
