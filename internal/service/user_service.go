package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/service/auth"
	"github.com/phrazzld/grammar-api/internal/store"
)

// UserService registers and authenticates users.
type UserService interface {
	// Register validates the credentials, hashes the password and stores
	// the user. Returns store.ErrEmailExists for a taken email.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user owning email when password matches.
	// Unknown emails and wrong passwords both yield auth.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by id.
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	hasher    auth.PasswordHasher
	verifier  auth.PasswordVerifier
	tx        store.Transactor
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	tx store.Transactor,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		hasher:    hasher,
		verifier:  verifier,
		tx:        tx,
		logger:    logger.With("component", "user_service"),
	}
}

// Register creates a user inside a transaction.
func (s *UserServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		s.logger.Debug("rejected registration", "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewServiceError("user", "register", "failed to hash password", err)
	}
	user.HashedPassword = hash
	user.Password = ""

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register an existing email", "email", user.Email)
		} else {
			s.logger.Error("failed to save user", "error", err, "email", user.Email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks the credentials against the stored hash.
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("login for unknown email")
			return nil, auth.ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for login", "error", err)
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Debug("login with wrong password", "user_id", user.ID)
			return nil, auth.ErrInvalidCredentials
		}
		return nil, NewServiceError("user", "authenticate", "failed to verify password", err)
	}

	return user, nil
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user", "error", err, "user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}
