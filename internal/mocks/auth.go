package mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/phrazzld/grammar-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	GenerateTokenFn        func(ctx context.Context, userID int64) (string, error)
	ValidateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateRefreshTokenFn func(ctx context.Context, userID int64) (string, error)
	ValidateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Defaults used when no function is set.
	Token        string
	RefreshToken string
	Err          error
	ValidateErr  error
	Claims       *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID int64) (string, error) {
	if m.GenerateRefreshTokenFn != nil {
		return m.GenerateRefreshTokenFn(ctx, userID)
	}
	return m.RefreshToken, m.Err
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFn != nil {
		return m.ValidateRefreshTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// MockPasswordHasher implements auth.PasswordHasher and auth.PasswordVerifier
// with a reversible "hashed:" prefix so tests stay fast.
type MockPasswordHasher struct {
	HashErr      error
	CompareCalls int
}

var (
	_ auth.PasswordHasher   = (*MockPasswordHasher)(nil)
	_ auth.PasswordVerifier = (*MockPasswordHasher)(nil)
)

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return "hashed:" + password, nil
}

func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	m.CompareCalls++
	if hashedPassword == fmt.Sprintf("hashed:%s", password) {
		return nil
	}
	if hashedPassword == "" {
		return errors.New("empty hash")
	}
	return auth.ErrInvalidCredentials
}
