package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var emailValidator = validator.New()

// Password length bounds. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User validation errors.
var (
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered learner.
type User struct {
	ID             int64     `json:"id"              db:"id"`
	Email          string    `json:"email"           db:"email"`
	Password       string    `json:"-"               db:"-"`             // plaintext, only during registration
	HashedPassword string    `json:"-"               db:"hashed_password"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
}

// NewUser creates a User with a normalized email and the plaintext password.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password string) (*User, error) {
	user := &User{
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail lowercases and trims an email address so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.Email == "" {
		return NewValidationError("email", "is required", ErrEmptyEmail)
	}

	if !validateEmailFormat(u.Email) {
		return NewValidationError("email", "is malformed", ErrInvalidEmail)
	}

	if u.Password != "" {
		switch {
		case len(u.Password) < MinPasswordLength:
			return NewValidationError("password", "is too short", ErrPasswordTooShort)
		case len(u.Password) > MaxPasswordLength:
			return NewValidationError("password", "is too long", ErrPasswordTooLong)
		}
		return nil
	}

	// Users loaded from storage carry only the hash.
	if u.HashedPassword == "" {
		return NewValidationError("password", "is required", ErrEmptyPassword)
	}

	return nil
}

func validateEmailFormat(email string) bool {
	return emailValidator.Var(email, "email") == nil
}
