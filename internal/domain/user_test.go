package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := NewUser("  Learner@Example.COM ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "learner@example.com", user.Email)
	assert.Equal(t, "password123", user.Password)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		user    User
		wantErr error
	}{
		{"valid with password", User{Email: "a@b.pl", Password: "password123"}, nil},
		{"valid with hash only", User{Email: "a@b.pl", HashedPassword: "$2a$10$x"}, nil},
		{"empty email", User{Password: "password123"}, ErrEmptyEmail},
		{"malformed email", User{Email: "not-an-email", Password: "password123"}, ErrInvalidEmail},
		{"short password", User{Email: "a@b.pl", Password: "short"}, ErrPasswordTooShort},
		{"long password", User{Email: "a@b.pl", Password: strings.Repeat("x", MaxPasswordLength+1)}, ErrPasswordTooLong},
		{"no credentials", User{Email: "a@b.pl"}, ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "is required", nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "name is required: validation failed", err.Error())

	wrapped := errors.Join(errors.New("context"), NewValidationError("", "bad", ErrInvalidID))
	assert.True(t, IsValidationError(wrapped))
	assert.ErrorIs(t, wrapped, ErrInvalidID)
	assert.False(t, IsValidationError(errors.New("other")))
}
