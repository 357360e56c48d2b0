package store

import (
	"errors"
	"fmt"

	"github.com/phrazzld/account-api/internal/domain"
)

// Common store errors used across all store implementations. They are
// classified domain errors so they can travel unchanged to the API layer.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = domain.NewError(domain.KindNotFound, "Resource not found")

	// ErrUserNotFound indicates that the requested user does not exist in the store.
	ErrUserNotFound = domain.NewError(domain.KindNotFound, "User not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness
	// constraint of the store.
	ErrDuplicate = domain.NewError(domain.KindDuplicate, "Duplicate field value entered")

	// ErrEmailExists indicates that a user with the given email already exists.
	// Backends return it when their unique index on email rejects a write.
	ErrEmailExists = domain.NewError(domain.KindDuplicate, "Duplicate field value entered")

	// ErrMalformedID is returned when an identifier is not in the form the
	// backend can address (not an ObjectID, not a UUID).
	ErrMalformedID = domain.NewError(domain.KindMalformedID, "Resource not found")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return domain.KindOf(err) == domain.KindNotFound
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return domain.KindOf(err) == domain.KindDuplicate
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "user")
	Operation string // The operation that failed (e.g., "create", "update")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// IsStoreError reports whether err carries backend failure context.
func IsStoreError(err error) bool {
	var sErr *StoreError
	return errors.As(err, &sErr)
}
