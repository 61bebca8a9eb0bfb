package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
)

// ThemeStore defines the interface for theme persistence.
type ThemeStore interface {
	// Create inserts theme and sets its ID and timestamps.
	// Returns ErrThemeExists for a duplicate (name, parent) pair and
	// ErrThemeNotFound when the parent does not exist.
	Create(ctx context.Context, theme *domain.Theme) error

	// GetByID returns ErrThemeNotFound if the theme does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Theme, error)

	// FindByName returns the theme called name under parentID (nil for a
	// root), or ErrThemeNotFound.
	FindByName(ctx context.Context, name string, parentID *int64) (*domain.Theme, error)

	// List returns every theme in ascending id order.
	List(ctx context.Context) ([]domain.Theme, error)

	// SentenceCounts returns the number of sentences per theme id. Themes
	// without sentences are absent from the map.
	SentenceCounts(ctx context.Context) (map[int64]int, error)

	// WithTx returns a ThemeStore bound to tx.
	WithTx(tx *sqlx.Tx) ThemeStore
}
