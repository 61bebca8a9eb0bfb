package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
)

// ThemeService manages the theme hierarchy.
type ThemeService interface {
	// ListRootThemes returns the themes without a parent in id order, each
	// with its sentence count and the user's completed count.
	ListRootThemes(ctx context.Context, userID int64) ([]domain.ThemeSummary, error)

	// ListSubthemes returns every descendant of themeID depth-first, children
	// in id order. Completed counts are filled only when userID is non-nil.
	// Returns ErrThemeNotFound when the theme does not exist.
	ListSubthemes(ctx context.Context, themeID int64, userID *int64) ([]domain.ThemeSummary, error)

	// CreateTheme inserts a theme. A duplicate (name, parent) pair yields
	// store.ErrThemeExists and a missing parent ErrThemeNotFound.
	CreateTheme(ctx context.Context, name string, description *string, parentID *int64) (*domain.Theme, error)

	// GetTheme retrieves a theme by id.
	GetTheme(ctx context.Context, themeID int64) (*domain.Theme, error)
}

type themeServiceImpl struct {
	themes   store.ThemeStore
	progress store.ProgressStore
	tx       store.Transactor
	logger   *slog.Logger
}

// NewThemeService creates a new ThemeService.
func NewThemeService(
	themes store.ThemeStore,
	progress store.ProgressStore,
	tx store.Transactor,
	logger *slog.Logger,
) ThemeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &themeServiceImpl{
		themes:   themes,
		progress: progress,
		tx:       tx,
		logger:   logger.With("component", "theme_service"),
	}
}

func (s *themeServiceImpl) ListRootThemes(ctx context.Context, userID int64) ([]domain.ThemeSummary, error) {
	all, err := s.themes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	tree := domain.NewThemeTree(all)
	return s.summarize(ctx, tree.Roots(), &userID)
}

func (s *themeServiceImpl) ListSubthemes(
	ctx context.Context,
	themeID int64,
	userID *int64,
) ([]domain.ThemeSummary, error) {
	all, err := s.themes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	tree := domain.NewThemeTree(all)
	if _, ok := tree.Get(themeID); !ok {
		return nil, ErrThemeNotFound
	}
	return s.summarize(ctx, tree.Descendants(themeID), userID)
}

// summarize attaches sentence totals and, for a user, completed counts.
func (s *themeServiceImpl) summarize(
	ctx context.Context,
	themes []domain.Theme,
	userID *int64,
) ([]domain.ThemeSummary, error) {
	counts, err := s.themes.SentenceCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sentences: %w", err)
	}

	completed := map[int64]int{}
	if userID != nil {
		rows, err := s.progress.ListByUser(ctx, *userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
		for _, p := range rows {
			completed[p.ThemeID] = p.CompletedSentences
		}
	}

	out := make([]domain.ThemeSummary, 0, len(themes))
	for _, t := range themes {
		out = append(out, domain.ThemeSummary{
			Theme:              t,
			TotalSentences:     counts[t.ID],
			CompletedSentences: completed[t.ID],
		})
	}
	return out, nil
}

func (s *themeServiceImpl) CreateTheme(
	ctx context.Context,
	name string,
	description *string,
	parentID *int64,
) (*domain.Theme, error) {
	theme, err := domain.NewTheme(name, description, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create theme: %w", err)
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		return s.themes.WithTx(tx).Create(ctx, theme)
	})
	if err != nil {
		if store.IsDuplicateError(err) || store.IsNotFoundError(err) {
			s.logger.Debug("theme rejected by storage", "error", err, "name", theme.Name)
		} else {
			s.logger.Error("failed to save theme", "error", err, "name", theme.Name)
		}
		return nil, fmt.Errorf("failed to create theme: %w", err)
	}

	s.logger.Info("theme created", "theme_id", theme.ID, "parent_id", theme.ParentID)
	return theme, nil
}

func (s *themeServiceImpl) GetTheme(ctx context.Context, themeID int64) (*domain.Theme, error) {
	theme, err := s.themes.GetByID(ctx, themeID)
	if err != nil {
		if !errors.Is(err, store.ErrThemeNotFound) {
			s.logger.Error("failed to retrieve theme", "error", err, "theme_id", themeID)
		}
		return nil, fmt.Errorf("failed to retrieve theme: %w", err)
	}
	return theme, nil
}
