package expense

import "errors"

var (
	// ErrInvalidInput is returned when required fields are missing or malformed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPersist marks a failed write. The operation's in-memory result is still valid.
	ErrPersist = errors.New("persist failed")
	// ErrNotFound is returned when no expense has the requested id.
	ErrNotFound = errors.New("expense not found")
	// ErrKeyNotFound is returned by a Backend when the key has never been written.
	ErrKeyNotFound = errors.New("key not found")
	// ErrNoRecords is returned by Import when there is nothing to add.
	ErrNoRecords = errors.New("no records to import")
)
