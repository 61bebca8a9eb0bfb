package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
)

// ProgressStore defines the interface for per-user theme progress.
type ProgressStore interface {
	// Get returns ErrProgressNotFound when the user has no row for the theme.
	Get(ctx context.Context, userID, themeID int64) (*domain.Progress, error)

	// ListByUser returns the user's rows ordered by theme id.
	ListByUser(ctx context.Context, userID int64) ([]domain.Progress, error)

	// Advance records one completion in a single atomic statement. A missing
	// row is created with index 1 and count 1; an existing row has both
	// counters incremented. When expectedIndex is non-nil the update only
	// applies if the stored index still equals it, otherwise
	// ErrConcurrentUpdate is returned.
	Advance(ctx context.Context, userID, themeID int64, expectedIndex *int, at time.Time) (*domain.Progress, error)

	// Reset zeroes the counters of the user's rows for the given themes and
	// returns how many rows changed. Missing rows are not created.
	Reset(ctx context.Context, userID int64, themeIDs []int64, at time.Time) (int64, error)

	// WithTx returns a ProgressStore bound to tx.
	WithTx(tx *sqlx.Tx) ProgressStore
}
