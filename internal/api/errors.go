package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/service/auth"
	"github.com/phrazzld/grammar-api/internal/store"
)

// Error kinds reported in the "kind" field of error responses.
const (
	KindNotFound     = "not_found"
	KindExhausted    = "exhausted"
	KindConflict     = "conflict"
	KindUnauthorized = "unauthorized"
	KindValidation   = "validation"
	KindInternal     = "internal"
)

// ErrorKind classifies err for clients.
func ErrorKind(err error) string {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, service.ErrExhausted):
		return KindExhausted
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrConcurrentUpdate):
		return KindConflict
	case errors.Is(err, store.ErrNotFound):
		return KindNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &validationErrs):
		return KindValidation
	default:
		return KindInternal
	}
}

// MapErrorToStatusCode maps internal errors to HTTP status codes so that no
// internal error type decides the response on its own.
func MapErrorToStatusCode(err error) int {
	switch ErrorKind(err) {
	case KindNotFound, KindExhausted:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err that reveals
// nothing beyond the error's kind and entity.
func GetSafeErrorMessage(err error) string {
	var (
		validationErr  *domain.ValidationError
		validationErrs validator.ValidationErrors
	)
	switch {
	case err == nil:
		return "An unexpected error occurred"

	case errors.Is(err, service.ErrExhausted):
		return "No more sentences left in this theme"
	case errors.Is(err, service.ErrNoSentences):
		return "No sentences found"
	case errors.Is(err, service.ErrSentenceNotInTheme):
		return "Sentence not found in this theme"
	case errors.Is(err, service.ErrSentenceOutOfOrder):
		return "Sentence is not the next one in this theme"
	case errors.Is(err, service.ErrStaleProgress):
		return "Progress changed, fetch the next sentence again"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return "Invalid token"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrThemeNotFound):
		return "Theme not found"
	case errors.Is(err, store.ErrSentenceNotFound):
		return "Sentence not found"
	case errors.Is(err, store.ErrProgressNotFound):
		return "Progress not found"
	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrThemeExists):
		return "Theme already exists"
	case errors.Is(err, store.ErrSentenceOrderTaken):
		return "A sentence already exists at this position"
	case errors.Is(err, store.ErrDuplicate):
		return "Already exists"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid id"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator failures into a short message
// naming the fields, without the validator's internal struct names.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldName(fe), getValidationTagMessage(fe.Tag())))
	}
	return "Invalid " + strings.Join(parts, ", ")
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "value"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the response for err, logging it redacted.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), ErrorKind(err), GetSafeErrorMessage(err), err)
}
