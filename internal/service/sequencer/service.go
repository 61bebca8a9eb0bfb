// Package sequencer selects which sentence a learner sees next. It holds no
// per-user state: the cursor is read from the stored progress row on every
// call.
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/phrazzld/grammar-api/internal/domain"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/store"
)

// Service delivers sentences in theme order or at random.
type Service interface {
	// OrderedSentences returns the theme's sentences in ascending
	// order-in-theme with options in stored order. An empty theme yields an
	// empty slice. Returns service.ErrThemeNotFound for a missing theme.
	OrderedSentences(ctx context.Context, themeID int64) ([]domain.Sentence, error)

	// NextSentence returns the sentence at the user's cursor. Returns
	// service.ErrNoSentences for an empty theme and service.ErrExhausted
	// once every sentence has been completed.
	NextSentence(ctx context.Context, userID, themeID int64) (*domain.Sentence, error)

	// RandomSentence picks uniformly from every sentence in every theme and
	// shuffles its options. Returns service.ErrNoSentences for an empty pool.
	RandomSentence(ctx context.Context) (*domain.Sentence, error)

	// VerifyAnswer checks an answer given as an option id or a word. It does
	// not touch progress.
	VerifyAnswer(ctx context.Context, sentenceID int64, answer string) (*Verdict, error)
}

// Verdict is the outcome of checking an answer.
type Verdict struct {
	Correct         bool   `json:"correct"`
	CorrectWord     string `json:"correct_word"`
	CorrectOptionID string `json:"correct_option_id"`
}

// Option configures the service.
type Option func(*serviceImpl)

// WithRand sets the randomness source used by RandomSentence.
func WithRand(r *rand.Rand) Option {
	return func(s *serviceImpl) {
		s.rng = r
	}
}

type serviceImpl struct {
	themes    store.ThemeStore
	sentences store.SentenceStore
	progress  store.ProgressStore
	logger    *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a new sequencer Service.
func NewService(
	themes store.ThemeStore,
	sentences store.SentenceStore,
	progress store.ProgressStore,
	logger *slog.Logger,
	opts ...Option,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &serviceImpl{
		themes:    themes,
		sentences: sentences,
		progress:  progress,
		logger:    logger.With("component", "sequencer"),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *serviceImpl) OrderedSentences(ctx context.Context, themeID int64) ([]domain.Sentence, error) {
	if _, err := s.themes.GetByID(ctx, themeID); err != nil {
		return nil, fmt.Errorf("failed to load theme: %w", err)
	}
	sentences, err := s.sentences.ListByTheme(ctx, themeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentences: %w", err)
	}
	return sentences, nil
}

func (s *serviceImpl) NextSentence(ctx context.Context, userID, themeID int64) (*domain.Sentence, error) {
	sentences, err := s.OrderedSentences(ctx, themeID)
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, service.ErrNoSentences
	}

	progress, err := s.progress.Get(ctx, userID, themeID)
	if err != nil && !errors.Is(err, store.ErrProgressNotFound) {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	cursor := progress.Cursor()
	if cursor >= len(sentences) {
		s.logger.Debug("theme exhausted", "user_id", userID, "theme_id", themeID, "cursor", cursor)
		return nil, service.ErrExhausted
	}
	return &sentences[cursor], nil
}

func (s *serviceImpl) RandomSentence(ctx context.Context) (*domain.Sentence, error) {
	ids, err := s.sentences.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sentences: %w", err)
	}
	if len(ids) == 0 {
		return nil, service.ErrNoSentences
	}

	s.mu.Lock()
	id := ids[s.rng.IntN(len(ids))]
	s.mu.Unlock()

	sentence, err := s.sentences.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence: %w", err)
	}

	s.mu.Lock()
	s.rng.Shuffle(len(sentence.Options), func(i, j int) {
		sentence.Options[i], sentence.Options[j] = sentence.Options[j], sentence.Options[i]
	})
	s.mu.Unlock()

	return sentence, nil
}

func (s *serviceImpl) VerifyAnswer(ctx context.Context, sentenceID int64, answer string) (*Verdict, error) {
	sentence, err := s.sentences.GetByID(ctx, sentenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence: %w", err)
	}

	correct, ok := sentence.CorrectOption()
	if !ok {
		return nil, service.NewServiceError("sequencer", "verify_answer", "sentence has no correct option", nil)
	}
	return &Verdict{
		Correct:         sentence.IsCorrectAnswer(answer),
		CorrectWord:     correct.Word,
		CorrectOptionID: correct.UniqueID.String(),
	}, nil
}
