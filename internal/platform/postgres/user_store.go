package postgres

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
)

// PostgresUserStore implements store.UserStore.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a user store over db. A nil logger uses the
// slog default.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	if user.HashedPassword == "" {
		return store.NewStoreError("user", "create", "password is not hashed", store.ErrInvalidEntity)
	}

	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, hashed_password, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		user.Email, user.HashedPassword, user.CreatedAt,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			s.logger.Debug("email already registered", slog.String("email", user.Email))
		} else {
			s.logger.Error("failed to insert user", slog.String("error", err.Error()))
		}
		return wrap("user", "create", err, nil)
	}

	s.logger.Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, email, hashed_password, created_at FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, wrap("user", "get", err, store.ErrUserNotFound)
	}
	return &user, nil
}

// GetByEmail implements store.UserStore.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, email, hashed_password, created_at FROM users WHERE email = $1`,
		domain.NormalizeEmail(email))
	if err != nil {
		return nil, wrap("user", "get_by_email", err, store.ErrUserNotFound)
	}
	return &user, nil
}

// WithTx implements store.UserStore.
func (s *PostgresUserStore) WithTx(tx *sqlx.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}
