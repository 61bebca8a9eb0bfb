package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/importer"
	"github.com/phrazzld/grammar-api/internal/store"
)

// OptionInput is a candidate word for a new sentence.
type OptionInput struct {
	Word      string
	IsCorrect bool
}

// CreateSentenceInput describes a sentence to create. A nil OrderInTheme
// appends the sentence after the theme's last one.
type CreateSentenceInput struct {
	Text            string
	Tense           string
	DifficultyLevel int
	ThemeID         int64
	OrderInTheme    *int
	Options         []OptionInput
}

// ImportReport summarizes an import run.
type ImportReport struct {
	ThemesCreated    int      `json:"themes_created"`
	SentencesCreated int      `json:"sentences_created"`
	SentencesSkipped int      `json:"sentences_skipped"`
	Rejected         []string `json:"rejected,omitempty"`
}

// SentenceService creates sentences individually or in bulk.
type SentenceService interface {
	// CreateSentence validates and stores a sentence with its options.
	// Returns ErrThemeNotFound for a missing theme and
	// store.ErrSentenceOrderTaken when the position is in use.
	CreateSentence(ctx context.Context, in CreateSentenceInput) (*domain.Sentence, error)

	// Import stores parsed entries. Themes and subthemes are reused by
	// (name, parent) or created; sentences whose text already exists in the
	// theme are skipped; new sentences are appended after the current last
	// position. Each entry is committed in its own transaction.
	Import(ctx context.Context, entries []importer.ThemeEntry) (*ImportReport, error)
}

type sentenceServiceImpl struct {
	themes    store.ThemeStore
	sentences store.SentenceStore
	tx        store.Transactor
	logger    *slog.Logger
}

// NewSentenceService creates a new SentenceService.
func NewSentenceService(
	themes store.ThemeStore,
	sentences store.SentenceStore,
	tx store.Transactor,
	logger *slog.Logger,
) SentenceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &sentenceServiceImpl{
		themes:    themes,
		sentences: sentences,
		tx:        tx,
		logger:    logger.With("component", "sentence_service"),
	}
}

func (s *sentenceServiceImpl) CreateSentence(
	ctx context.Context,
	in CreateSentenceInput,
) (*domain.Sentence, error) {
	options := make([]domain.WordOption, 0, len(in.Options))
	for _, o := range in.Options {
		options = append(options, domain.NewWordOption(o.Word, o.IsCorrect))
	}

	var sentence *domain.Sentence
	err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		sentences := s.sentences.WithTx(tx)

		order := 0
		if in.OrderInTheme != nil {
			order = *in.OrderInTheme
		} else {
			last, err := sentences.MaxOrder(ctx, in.ThemeID)
			if err != nil {
				return err
			}
			order = last + 1
		}

		var err error
		sentence, err = domain.NewSentence(in.Text, in.Tense, in.DifficultyLevel, in.ThemeID, order, options)
		if err != nil {
			return err
		}
		return sentences.Create(ctx, sentence)
	})
	if err != nil {
		if domain.IsValidationError(err) || store.IsDuplicateError(err) || store.IsNotFoundError(err) {
			s.logger.Debug("sentence rejected", "error", err, "theme_id", in.ThemeID)
		} else {
			s.logger.Error("failed to save sentence", "error", err, "theme_id", in.ThemeID)
		}
		return nil, fmt.Errorf("failed to create sentence: %w", err)
	}

	s.logger.Info("sentence created",
		"sentence_id", sentence.ID,
		"theme_id", sentence.ThemeID,
		"order_in_theme", sentence.OrderInTheme)
	return sentence, nil
}

func (s *sentenceServiceImpl) Import(ctx context.Context, entries []importer.ThemeEntry) (*ImportReport, error) {
	report := &ImportReport{}
	for i, entry := range entries {
		err := s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
			return s.importEntry(ctx, tx, entry, report)
		})
		if err != nil {
			s.logger.Error("import aborted", "error", err, "entry", i, "theme", entry.Theme)
			return report, fmt.Errorf("failed to import entry %d (%s): %w", i, entry.Theme, err)
		}
	}

	s.logger.Info("import finished",
		"themes_created", report.ThemesCreated,
		"sentences_created", report.SentencesCreated,
		"sentences_skipped", report.SentencesSkipped,
		"rejected", len(report.Rejected))
	return report, nil
}

// importEntry runs inside a transaction. Counters are only added to report
// once the entry is fully written, so an aborted entry leaves it unchanged.
func (s *sentenceServiceImpl) importEntry(
	ctx context.Context,
	tx *sqlx.Tx,
	entry importer.ThemeEntry,
	report *ImportReport,
) error {
	themes := s.themes.WithTx(tx)
	sentences := s.sentences.WithTx(tx)
	var partial ImportReport

	description := &entry.Description
	if entry.Subtheme != "" {
		description = nil
	}
	theme, created, err := getOrCreateTheme(ctx, themes, entry.Theme, description, nil)
	if err != nil {
		return err
	}
	if created {
		partial.ThemesCreated++
	}
	if entry.Subtheme != "" {
		theme, created, err = getOrCreateTheme(ctx, themes, entry.Subtheme, &entry.Description, &theme.ID)
		if err != nil {
			return err
		}
		if created {
			partial.ThemesCreated++
		}
	}

	last, err := sentences.MaxOrder(ctx, theme.ID)
	if err != nil {
		return err
	}
	next := last + 1

	for _, item := range entry.Sentences {
		text := strings.TrimSpace(item.Sentence)
		exists, err := sentences.TextExists(ctx, theme.ID, text)
		if err != nil {
			return err
		}
		if exists {
			partial.SentencesSkipped++
			continue
		}

		options := make([]domain.WordOption, 0, len(item.WordOptions))
		for _, o := range item.WordOptions {
			options = append(options, domain.NewWordOption(o.Word, o.IsCorrect))
		}
		sentence, err := domain.NewSentence(text, item.Tense, item.DifficultyLevel, theme.ID, next, options)
		if err != nil {
			partial.Rejected = append(partial.Rejected, fmt.Sprintf("%s/%q: %v", theme.Name, text, err))
			continue
		}
		if err := sentences.Create(ctx, sentence); err != nil {
			return err
		}
		next++
		partial.SentencesCreated++
	}

	report.ThemesCreated += partial.ThemesCreated
	report.SentencesCreated += partial.SentencesCreated
	report.SentencesSkipped += partial.SentencesSkipped
	report.Rejected = append(report.Rejected, partial.Rejected...)
	return nil
}

func getOrCreateTheme(
	ctx context.Context,
	themes store.ThemeStore,
	name string,
	description *string,
	parentID *int64,
) (*domain.Theme, bool, error) {
	name = strings.TrimSpace(name)
	existing, err := themes.FindByName(ctx, name, parentID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrThemeNotFound) {
		return nil, false, err
	}

	theme, err := domain.NewTheme(name, description, parentID)
	if err != nil {
		return nil, false, err
	}
	if err := themes.Create(ctx, theme); err != nil {
		return nil, false, err
	}
	return theme, true, nil
}
