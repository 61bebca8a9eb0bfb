package postgres

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
)

const themeColumns = `id, name, description, parent_theme_id, created_at, updated_at`

// PostgresThemeStore implements store.ThemeStore.
type PostgresThemeStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresThemeStore creates a theme store over db.
func NewPostgresThemeStore(db store.DBTX, logger *slog.Logger) *PostgresThemeStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresThemeStore{
		db:     db,
		logger: logger.With(slog.String("component", "theme_store")),
	}
}

var _ store.ThemeStore = (*PostgresThemeStore)(nil)

// Create implements store.ThemeStore. Parent existence and (name, parent)
// uniqueness are left to the schema constraints.
func (s *PostgresThemeStore) Create(ctx context.Context, theme *domain.Theme) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO themes (name, description, parent_theme_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		theme.Name, theme.Description, theme.ParentID, theme.CreatedAt, theme.UpdatedAt,
	).Scan(&theme.ID)
	if err != nil {
		s.logger.Debug("failed to insert theme",
			slog.String("name", theme.Name),
			slog.String("error", err.Error()))
		return wrap("theme", "create", err, nil)
	}
	return nil
}

// GetByID implements store.ThemeStore.
func (s *PostgresThemeStore) GetByID(ctx context.Context, id int64) (*domain.Theme, error) {
	var theme domain.Theme
	err := s.db.GetContext(ctx, &theme, `SELECT `+themeColumns+` FROM themes WHERE id = $1`, id)
	if err != nil {
		return nil, wrap("theme", "get", err, store.ErrThemeNotFound)
	}
	return &theme, nil
}

// FindByName implements store.ThemeStore.
func (s *PostgresThemeStore) FindByName(ctx context.Context, name string, parentID *int64) (*domain.Theme, error) {
	var theme domain.Theme
	err := s.db.GetContext(ctx, &theme,
		`SELECT `+themeColumns+` FROM themes
		 WHERE name = $1 AND parent_theme_id IS NOT DISTINCT FROM $2`,
		name, parentID)
	if err != nil {
		return nil, wrap("theme", "find_by_name", err, store.ErrThemeNotFound)
	}
	return &theme, nil
}

// List implements store.ThemeStore.
func (s *PostgresThemeStore) List(ctx context.Context) ([]domain.Theme, error) {
	themes := []domain.Theme{}
	if err := s.db.SelectContext(ctx, &themes, `SELECT `+themeColumns+` FROM themes ORDER BY id`); err != nil {
		return nil, wrap("theme", "list", err, nil)
	}
	return themes, nil
}

// SentenceCounts implements store.ThemeStore.
func (s *PostgresThemeStore) SentenceCounts(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		ThemeID int64 `db:"theme_id"`
		Total   int   `db:"total"`
	}
	err := s.db.SelectContext(ctx, &rows,
		`SELECT theme_id, COUNT(*) AS total FROM sentences GROUP BY theme_id`)
	if err != nil {
		return nil, wrap("theme", "sentence_counts", err, nil)
	}

	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.ThemeID] = r.Total
	}
	return counts, nil
}

// WithTx implements store.ThemeStore.
func (s *PostgresThemeStore) WithTx(tx *sqlx.Tx) store.ThemeStore {
	return &PostgresThemeStore{db: tx, logger: s.logger}
}
