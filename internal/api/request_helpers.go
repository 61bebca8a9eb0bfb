package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/domain"
)

// requireUserID returns the authenticated user's id, writing a 401 when the
// auth middleware did not set one.
func requireUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized)
		return 0, false
	}
	return userID, true
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, domain.NewValidationError(name, "is required", domain.ErrInvalidID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer", domain.ErrInvalidID)
	}
	return id, nil
}

// requirePathID parses a path id, writing a 400 on failure.
func requirePathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := pathID(r, name)
	if err != nil {
		HandleAPIError(w, r, err)
		return 0, false
	}
	return id, true
}

// decodeRequest decodes and validates a JSON body into v, writing a 400 on
// failure.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		HandleAPIError(w, r, domain.NewValidationError("body", "is not valid JSON for this request", err))
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
