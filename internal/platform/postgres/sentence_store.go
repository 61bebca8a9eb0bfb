package postgres

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/store"
)

const sentenceColumns = `id, text, tense, difficulty_level, theme_id, order_in_theme`

// PostgresSentenceStore implements store.SentenceStore.
type PostgresSentenceStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSentenceStore creates a sentence store over db.
func NewPostgresSentenceStore(db store.DBTX, logger *slog.Logger) *PostgresSentenceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSentenceStore{
		db:     db,
		logger: logger.With(slog.String("component", "sentence_store")),
	}
}

var _ store.SentenceStore = (*PostgresSentenceStore)(nil)

// Create implements store.SentenceStore.
func (s *PostgresSentenceStore) Create(ctx context.Context, sentence *domain.Sentence) error {
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO sentences (text, tense, difficulty_level, theme_id, order_in_theme)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		sentence.Text, sentence.Tense, sentence.DifficultyLevel, sentence.ThemeID, sentence.OrderInTheme,
	).Scan(&sentence.ID)
	if err != nil {
		s.logger.Debug("failed to insert sentence",
			slog.Int64("theme_id", sentence.ThemeID),
			slog.Int("order_in_theme", sentence.OrderInTheme),
			slog.String("error", err.Error()))
		return wrap("sentence", "create", err, nil)
	}

	for i := range sentence.Options {
		opt := &sentence.Options[i]
		opt.SentenceID = sentence.ID
		err := s.db.QueryRowxContext(ctx,
			`INSERT INTO word_options (unique_id, word, is_correct, sentence_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			opt.UniqueID, opt.Word, opt.IsCorrect, opt.SentenceID,
		).Scan(&opt.ID)
		if err != nil {
			return wrap("word_option", "create", err, nil)
		}
	}

	s.logger.Debug("sentence created",
		slog.Int64("sentence_id", sentence.ID),
		slog.Int("options", len(sentence.Options)))
	return nil
}

// GetByID implements store.SentenceStore.
func (s *PostgresSentenceStore) GetByID(ctx context.Context, id int64) (*domain.Sentence, error) {
	var sentence domain.Sentence
	err := s.db.GetContext(ctx, &sentence, `SELECT `+sentenceColumns+` FROM sentences WHERE id = $1`, id)
	if err != nil {
		return nil, wrap("sentence", "get", err, store.ErrSentenceNotFound)
	}

	sentences := []domain.Sentence{sentence}
	if err := s.attachOptions(ctx, sentences); err != nil {
		return nil, err
	}
	return &sentences[0], nil
}

// ListByTheme implements store.SentenceStore.
func (s *PostgresSentenceStore) ListByTheme(ctx context.Context, themeID int64) ([]domain.Sentence, error) {
	sentences := []domain.Sentence{}
	err := s.db.SelectContext(ctx, &sentences,
		`SELECT `+sentenceColumns+` FROM sentences WHERE theme_id = $1 ORDER BY order_in_theme`, themeID)
	if err != nil {
		return nil, wrap("sentence", "list_by_theme", err, nil)
	}
	if err := s.attachOptions(ctx, sentences); err != nil {
		return nil, err
	}
	return sentences, nil
}

// ListIDs implements store.SentenceStore.
func (s *PostgresSentenceStore) ListIDs(ctx context.Context) ([]int64, error) {
	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM sentences ORDER BY id`); err != nil {
		return nil, wrap("sentence", "list_ids", err, nil)
	}
	return ids, nil
}

// MaxOrder implements store.SentenceStore.
func (s *PostgresSentenceStore) MaxOrder(ctx context.Context, themeID int64) (int, error) {
	var maxOrder int
	err := s.db.GetContext(ctx, &maxOrder,
		`SELECT COALESCE(MAX(order_in_theme), -1) FROM sentences WHERE theme_id = $1`, themeID)
	if err != nil {
		return 0, wrap("sentence", "max_order", err, nil)
	}
	return maxOrder, nil
}

// TextExists implements store.SentenceStore.
func (s *PostgresSentenceStore) TextExists(ctx context.Context, themeID int64, text string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM sentences WHERE theme_id = $1 AND text = $2)`, themeID, text)
	if err != nil {
		return false, wrap("sentence", "text_exists", err, nil)
	}
	return exists, nil
}

// WithTx implements store.SentenceStore.
func (s *PostgresSentenceStore) WithTx(tx *sqlx.Tx) store.SentenceStore {
	return &PostgresSentenceStore{db: tx, logger: s.logger}
}

// attachOptions loads the word options of all sentences in one query and
// assigns them in insertion order.
func (s *PostgresSentenceStore) attachOptions(ctx context.Context, sentences []domain.Sentence) error {
	if len(sentences) == 0 {
		return nil
	}

	ids := make([]int64, len(sentences))
	for i, sent := range sentences {
		ids[i] = sent.ID
	}

	query, args, err := sqlx.In(
		`SELECT id, unique_id, word, is_correct, sentence_id
		 FROM word_options WHERE sentence_id IN (?) ORDER BY sentence_id, id`, ids)
	if err != nil {
		return store.NewStoreError("word_option", "list", "failed to build query", err)
	}

	var options []domain.WordOption
	if err := s.db.SelectContext(ctx, &options, s.db.Rebind(query), args...); err != nil {
		return wrap("word_option", "list", err, nil)
	}

	bySentence := make(map[int64][]domain.WordOption, len(sentences))
	for _, o := range options {
		bySentence[o.SentenceID] = append(bySentence[o.SentenceID], o)
	}
	for i := range sentences {
		sentences[i].Options = bySentence[sentences[i].ID]
		if sentences[i].Options == nil {
			sentences[i].Options = []domain.WordOption{}
		}
	}
	return nil
}
