// Package service provides the application services for themes, sentences
// and users. Sequencing and progress tracking live in the sequencer and
// progress subpackages.
package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
)

// Common service errors. Callers classify them with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrNoSentences indicates a theme, or the whole pool, has no sentences.
	ErrNoSentences = fmt.Errorf("%w: no sentences", store.ErrNotFound)

	// ErrExhausted indicates the user has completed every sentence in the
	// theme. It is a normal terminal condition, not a failure.
	ErrExhausted = errors.New("no more sentences left in this theme")

	// ErrSentenceNotInTheme indicates the sentence exists but belongs to
	// another theme.
	ErrSentenceNotInTheme = fmt.Errorf("%w: sentence not found in this theme", store.ErrNotFound)

	// ErrSentenceOutOfOrder indicates a completion was submitted for a
	// sentence other than the one at the user's cursor.
	ErrSentenceOutOfOrder = fmt.Errorf("%w: sentence is not the next one in this theme", domain.ErrValidation)

	// ErrStaleProgress indicates another completion advanced the cursor
	// between the read and the update.
	ErrStaleProgress = fmt.Errorf("%w: progress changed, fetch the next sentence again", store.ErrConcurrentUpdate)
)

// Store errors surfaced unchanged by the services.
var (
	ErrThemeNotFound    = store.ErrThemeNotFound
	ErrSentenceNotFound = store.ErrSentenceNotFound
	ErrProgressNotFound = store.ErrProgressNotFound
)

// ServiceError wraps an unexpected failure with the operation it came from.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
