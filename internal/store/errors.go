package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would violate a uniqueness
	// constraint.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when the storage layer rejects an entity,
	// for example on a check or not-null constraint.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a transaction cannot be started
	// or committed.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrConcurrentUpdate is returned when a conditional update matched no
	// row because another writer changed it first.
	ErrConcurrentUpdate = errors.New("concurrent update")

	ErrUserNotFound     = fmt.Errorf("%w: user", ErrNotFound)
	ErrThemeNotFound    = fmt.Errorf("%w: theme", ErrNotFound)
	ErrSentenceNotFound = fmt.Errorf("%w: sentence", ErrNotFound)
	ErrProgressNotFound = fmt.Errorf("%w: progress", ErrNotFound)

	// ErrEmailExists indicates that a user with the given email already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrThemeExists indicates a theme with the same name under the same
	// parent already exists.
	ErrThemeExists = fmt.Errorf("%w: theme", ErrDuplicate)

	// ErrSentenceOrderTaken indicates the theme already has a sentence at
	// the requested position.
	ErrSentenceOrderTaken = fmt.Errorf("%w: sentence order", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
// Entity-specific errors wrap ErrNotFound, so a single check covers them.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "theme", "progress")
	Operation string // The operation that failed (e.g., "create", "advance")
	Message   string
	Err       error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
