package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
)

// SentenceStore defines the interface for sentence and word option
// persistence. Sentences are always returned with their options, in the
// order they were stored.
type SentenceStore interface {
	// Create inserts the sentence and its options and sets their IDs. It
	// issues several statements, so callers should run it in a transaction.
	// Returns ErrSentenceOrderTaken when the position is in use and
	// ErrThemeNotFound when the theme does not exist.
	Create(ctx context.Context, sentence *domain.Sentence) error

	// GetByID returns ErrSentenceNotFound if the sentence does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Sentence, error)

	// ListByTheme returns the theme's sentences in ascending order-in-theme.
	ListByTheme(ctx context.Context, themeID int64) ([]domain.Sentence, error)

	// ListIDs returns the ids of every sentence in every theme.
	ListIDs(ctx context.Context) ([]int64, error)

	// MaxOrder returns the highest order-in-theme used in the theme, or -1
	// when the theme has no sentences.
	MaxOrder(ctx context.Context, themeID int64) (int, error)

	// TextExists reports whether the theme already has a sentence with text.
	TextExists(ctx context.Context, themeID int64, text string) (bool, error)

	// WithTx returns a SentenceStore bound to tx.
	WithTx(tx *sqlx.Tx) SentenceStore
}
