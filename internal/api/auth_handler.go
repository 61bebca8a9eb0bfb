package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/config"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/service/auth"
	"github.com/phrazzld/grammar-api/internal/store"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	authConfig *config.AuthConfig
	logger     *slog.Logger
	timeFunc   func() time.Time
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	authConfig *config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		authConfig: authConfig,
		logger:     logger.With(slog.String("component", "auth_handler")),
		timeFunc:   time.Now,
	}
}

// WithTimeFunc returns a copy of the handler using timeFunc for expiry
// timestamps.
func (h *AuthHandler) WithTimeFunc(timeFunc func() time.Time) *AuthHandler {
	c := *h
	c.timeFunc = timeFunc
	return &c
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusCreated, user.ID)
}

// Login handles POST /api/auth/login. Unknown emails and wrong passwords
// get the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user.ID)
}

// RefreshToken handles POST /api/auth/refresh, exchanging a valid refresh
// token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		log.Debug("refresh token rejected", slog.String("reason", err.Error()))
		HandleAPIError(w, r, err)
		return
	}

	if _, err := h.users.GetUser(r.Context(), claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			err = auth.ErrInvalidRefreshToken
		}
		HandleAPIError(w, r, err)
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, claims.UserID)
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, userID int64) {
	access, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	refresh, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	expiresAt := h.timeFunc().UTC().Add(time.Duration(h.authConfig.TokenLifetimeMinutes) * time.Minute)
	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt.Format(time.RFC3339),
	})
}
