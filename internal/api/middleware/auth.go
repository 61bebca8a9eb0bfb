package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/service/auth"
	"github.com/phrazzld/grammar-api/internal/store"
)

const kindUnauthorized = "unauthorized"

// UserLookup resolves the user named by a token.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware provides JWT authentication for routes.
type AuthMiddleware struct {
	jwtService auth.JWTService
	users      UserLookup
}

// NewAuthMiddleware creates a new AuthMiddleware. Tokens whose user no
// longer exists are rejected.
func NewAuthMiddleware(jwtService auth.JWTService, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// Authenticate validates the bearer token of the Authorization header and
// adds the user ID to the request context for authorized requests.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w, r, "Authorization header required", auth.ErrMissingToken)
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			unauthorized(w, r, "Invalid authorization format", auth.ErrInvalidToken)
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), strings.TrimSpace(token))
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				unauthorized(w, r, "Token expired", err)
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrWrongTokenType),
				errors.Is(err, auth.ErrTokenNotYetValid):
				unauthorized(w, r, "Invalid token", err)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"internal", "Authentication error", err)
			}
			return
		}

		if m.users != nil {
			if _, err := m.users.GetByID(r.Context(), claims.UserID); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					unauthorized(w, r, "Invalid token", err)
					return
				}
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"internal", "Authentication error", err)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(shared.WithUserID(r.Context(), claims.UserID)))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, kindUnauthorized, message, err)
}

// GetUserID extracts the user ID from the request context.
func GetUserID(r *http.Request) (int64, bool) {
	return shared.UserIDFromContext(r.Context())
}

