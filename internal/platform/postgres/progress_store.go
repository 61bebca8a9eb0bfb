package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
)

const progressColumns = `id, user_id, theme_id, current_sentence_index, completed_sentences, last_accessed`

// advanceQuery inserts a first completion or increments an existing row in
// one statement. $4 is an optional compare-and-swap on the cursor: when it
// is set and no longer matches, the conflict branch updates nothing and no
// row is returned.
const advanceQuery = `
INSERT INTO user_progress (user_id, theme_id, current_sentence_index, completed_sentences, last_accessed)
VALUES ($1, $2, 1, 1, $3)
ON CONFLICT (user_id, theme_id) DO UPDATE
SET current_sentence_index = user_progress.current_sentence_index + 1,
    completed_sentences    = user_progress.completed_sentences + 1,
    last_accessed          = EXCLUDED.last_accessed
WHERE $4::integer IS NULL OR user_progress.current_sentence_index = $4::integer
RETURNING ` + progressColumns

// PostgresProgressStore implements store.ProgressStore.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a progress store over db.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// Get implements store.ProgressStore.
func (s *PostgresProgressStore) Get(ctx context.Context, userID, themeID int64) (*domain.Progress, error) {
	var p domain.Progress
	err := s.db.GetContext(ctx, &p,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1 AND theme_id = $2`,
		userID, themeID)
	if err != nil {
		return nil, wrap("progress", "get", err, store.ErrProgressNotFound)
	}
	return &p, nil
}

// ListByUser implements store.ProgressStore.
func (s *PostgresProgressStore) ListByUser(ctx context.Context, userID int64) ([]domain.Progress, error) {
	rows := []domain.Progress{}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+progressColumns+` FROM user_progress WHERE user_id = $1 ORDER BY theme_id`, userID)
	if err != nil {
		return nil, wrap("progress", "list", err, nil)
	}
	return rows, nil
}

// Advance implements store.ProgressStore.
func (s *PostgresProgressStore) Advance(
	ctx context.Context,
	userID, themeID int64,
	expectedIndex *int,
	at time.Time,
) (*domain.Progress, error) {
	var p domain.Progress
	err := s.db.QueryRowxContext(ctx, advanceQuery, userID, themeID, at, expectedIndex).StructScan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug("progress advance lost a race",
			slog.Int64("user_id", userID),
			slog.Int64("theme_id", themeID))
		return nil, store.NewStoreError("progress", "advance", "cursor moved", store.ErrConcurrentUpdate)
	}
	if err != nil {
		return nil, wrap("progress", "advance", err, nil)
	}
	return &p, nil
}

// Reset implements store.ProgressStore.
func (s *PostgresProgressStore) Reset(ctx context.Context, userID int64, themeIDs []int64, at time.Time) (int64, error) {
	if len(themeIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(
		`UPDATE user_progress
		 SET current_sentence_index = 0, completed_sentences = 0, last_accessed = ?
		 WHERE user_id = ? AND theme_id IN (?)`,
		at, userID, themeIDs)
	if err != nil {
		return 0, store.NewStoreError("progress", "reset", "failed to build query", err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return 0, wrap("progress", "reset", err, nil)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrap("progress", "reset", err, nil)
	}
	return n, nil
}

// WithTx implements store.ProgressStore.
func (s *PostgresProgressStore) WithTx(tx *sqlx.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}
