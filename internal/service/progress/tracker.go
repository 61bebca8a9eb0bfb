// Package progress records sentence completions and resets per-theme
// progress.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/store"
)

// Tracker mutates and reports per-user theme progress.
type Tracker interface {
	// RecordCompletion advances the user's cursor in the theme by one and
	// returns the updated row. A first completion creates the row with
	// index 1 and count 1.
	//
	// Returns service.ErrThemeNotFound, service.ErrSentenceNotFound or
	// service.ErrSentenceNotInTheme when the references are invalid. When
	// order is enforced it also returns service.ErrSentenceOutOfOrder,
	// service.ErrExhausted or service.ErrStaleProgress.
	RecordCompletion(ctx context.Context, userID, themeID, sentenceID int64) (*domain.Progress, error)

	// GetProgress returns service.ErrProgressNotFound before the first
	// completion. It never writes.
	GetProgress(ctx context.Context, userID, themeID int64) (*domain.Progress, error)

	// ListUserProgress returns every row of the user ordered by theme id.
	ListUserProgress(ctx context.Context, userID int64) ([]domain.Progress, error)

	// ResetProgress zeroes the theme's row and, for a root theme, the rows of
	// every descendant. It returns how many rows were reset.
	ResetProgress(ctx context.Context, userID, themeID int64) (int64, error)
}

// Option configures a Tracker.
type Option func(*tracker)

// WithEnforceOrder controls whether completions must cite the sentence at
// the user's cursor.
func WithEnforceOrder(enforce bool) Option {
	return func(t *tracker) {
		t.enforceOrder = enforce
	}
}

// WithClock sets the time source for last-accessed timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *tracker) {
		t.now = now
	}
}

type tracker struct {
	themes       store.ThemeStore
	sentences    store.SentenceStore
	progress     store.ProgressStore
	tx           store.Transactor
	logger       *slog.Logger
	enforceOrder bool
	now          func() time.Time
}

// NewTracker creates a Tracker. Order is enforced unless disabled with
// WithEnforceOrder(false).
func NewTracker(
	themes store.ThemeStore,
	sentences store.SentenceStore,
	progress store.ProgressStore,
	tx store.Transactor,
	logger *slog.Logger,
	opts ...Option,
) Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &tracker{
		themes:       themes,
		sentences:    sentences,
		progress:     progress,
		tx:           tx,
		logger:       logger.With("component", "progress_tracker"),
		enforceOrder: true,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *tracker) RecordCompletion(
	ctx context.Context,
	userID, themeID, sentenceID int64,
) (*domain.Progress, error) {
	if _, err := t.themes.GetByID(ctx, themeID); err != nil {
		return nil, fmt.Errorf("failed to load theme: %w", err)
	}
	sentence, err := t.sentences.GetByID(ctx, sentenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence: %w", err)
	}
	if sentence.ThemeID != themeID {
		return nil, service.ErrSentenceNotInTheme
	}

	var expected *int
	if t.enforceOrder {
		cursor, err := t.checkOrder(ctx, userID, themeID, sentenceID)
		if err != nil {
			return nil, err
		}
		expected = cursor
	}

	updated, err := t.progress.Advance(ctx, userID, themeID, expected, t.now())
	if err != nil {
		if errors.Is(err, store.ErrConcurrentUpdate) {
			t.logger.Debug("progress changed concurrently",
				"user_id", userID, "theme_id", themeID, "sentence_id", sentenceID)
			return nil, service.ErrStaleProgress
		}
		t.logger.Error("failed to advance progress", "error", err, "user_id", userID, "theme_id", themeID)
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	t.logger.Debug("completion recorded",
		"user_id", userID,
		"theme_id", themeID,
		"sentence_id", sentenceID,
		"current_sentence_index", updated.CurrentSentenceIndex,
		"completed_sentences", updated.CompletedSentences)
	return updated, nil
}

// checkOrder verifies sentenceID sits at the user's cursor and returns the
// cursor the update must still observe. With no row yet the cursor is 0, so
// a competing first completion that inserts the row first makes the
// conditional update miss.
func (t *tracker) checkOrder(ctx context.Context, userID, themeID, sentenceID int64) (*int, error) {
	current, err := t.progress.Get(ctx, userID, themeID)
	if err != nil && !errors.Is(err, store.ErrProgressNotFound) {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	sentences, err := t.sentences.ListByTheme(ctx, themeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentences: %w", err)
	}

	cursor := current.Cursor()
	if cursor >= len(sentences) {
		return nil, service.ErrExhausted
	}
	if sentences[cursor].ID != sentenceID {
		return nil, service.ErrSentenceOutOfOrder
	}
	return &cursor, nil
}

func (t *tracker) GetProgress(ctx context.Context, userID, themeID int64) (*domain.Progress, error) {
	p, err := t.progress.Get(ctx, userID, themeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return p, nil
}

func (t *tracker) ListUserProgress(ctx context.Context, userID int64) ([]domain.Progress, error) {
	rows, err := t.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return rows, nil
}

func (t *tracker) ResetProgress(ctx context.Context, userID, themeID int64) (int64, error) {
	var reset int64
	err := t.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		all, err := t.themes.WithTx(tx).List(ctx)
		if err != nil {
			return err
		}
		tree := domain.NewThemeTree(all)
		theme, ok := tree.Get(themeID)
		if !ok {
			return service.ErrThemeNotFound
		}

		ids := []int64{themeID}
		if theme.IsRoot() {
			ids = append(ids, tree.DescendantIDs(themeID)...)
		}

		reset, err = t.progress.WithTx(tx).Reset(ctx, userID, ids, t.now())
		return err
	})
	if err != nil {
		if !errors.Is(err, service.ErrThemeNotFound) {
			t.logger.Error("failed to reset progress", "error", err, "user_id", userID, "theme_id", themeID)
		}
		return 0, fmt.Errorf("failed to reset progress: %w", err)
	}

	t.logger.Info("progress reset", "user_id", userID, "theme_id", themeID, "rows", reset)
	return reset, nil
}
