package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create inserts user, which must already carry a HashedPassword, and
	// sets its ID and CreatedAt. Returns ErrEmailExists when the email is
	// taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail looks up a user by normalized email.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sqlx.Tx) UserStore
}
