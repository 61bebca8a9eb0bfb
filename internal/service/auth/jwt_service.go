package auth

import (
	"context"
	"time"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService issues and validates signed bearer tokens. Validation is
// stateless: only signature, expiry and token type are checked.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken validates an access token and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrWrongTokenType or
	// ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a longer-lived refresh token for userID.
	GenerateRefreshToken(ctx context.Context, userID int64) (string, error)

	// ValidateRefreshToken validates a refresh token and returns its claims.
	// Returns ErrExpiredRefreshToken, ErrWrongTokenType or
	// ErrInvalidRefreshToken on failure.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	UserID    int64
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
