package datasource

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDriver is returned when the configured driver is unknown.
	ErrUnsupportedDriver = errors.New("unsupported driver")

	// ErrEmptyDSN is returned when no DSN is configured.
	ErrEmptyDSN = errors.New("dsn is required")
)

// StorageError reports a failure while opening, migrating or managing the
// data source. Query execution errors are never wrapped in a StorageError.
type StorageError struct {
	Backend   string // Driver name ("sqlite", "sqlite3", "pgx")
	Operation string // Operation that failed ("open", "ping", "migrate", "begin", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
