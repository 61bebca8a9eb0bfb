package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Sentence validation errors.
var (
	ErrSentenceTextEmpty     = errors.New("sentence text cannot be empty")
	ErrSentenceNoBlank       = errors.New("sentence text must contain a blank marker")
	ErrSentenceTenseEmpty    = errors.New("sentence tense cannot be empty")
	ErrSentenceDifficulty    = errors.New("difficulty level must be at least 1")
	ErrSentenceOrderNegative = errors.New("order in theme cannot be negative")
	ErrSentenceNoOptions     = errors.New("sentence must have at least one word option")
	ErrSentenceCorrectCount  = errors.New("sentence must have exactly one correct word option")
	ErrWordOptionEmpty       = errors.New("word option cannot be empty")
)

// blankMarker matches the gap a learner fills in: three or more underscores.
var blankMarker = regexp.MustCompile(`_{3,}`)

// HasBlank reports whether text contains a blank marker.
func HasBlank(text string) bool {
	return blankMarker.MatchString(text)
}

// Sentence is a fill-in-the-blank practice item at a fixed position within
// its theme.
type Sentence struct {
	ID              int64        `json:"id"               db:"id"`
	Text            string       `json:"text"             db:"text"`
	Tense           string       `json:"tense"            db:"tense"`
	DifficultyLevel int          `json:"difficulty_level" db:"difficulty_level"`
	ThemeID         int64        `json:"theme_id"         db:"theme_id"`
	OrderInTheme    int          `json:"order_in_theme"   db:"order_in_theme"`
	Options         []WordOption `json:"word_options"     db:"-"`
}

// WordOption is one candidate answer for a sentence. UniqueID identifies the
// option to clients independently of the row id.
type WordOption struct {
	ID         int64     `json:"-"         db:"id"`
	UniqueID   uuid.UUID `json:"id"        db:"unique_id"`
	Word       string    `json:"word"      db:"word"`
	IsCorrect  bool      `json:"-"         db:"is_correct"`
	SentenceID int64     `json:"-"         db:"sentence_id"`
}

// NewWordOption creates an option with a fresh unique id.
func NewWordOption(word string, isCorrect bool) WordOption {
	return WordOption{
		UniqueID:  uuid.New(),
		Word:      strings.TrimSpace(word),
		IsCorrect: isCorrect,
	}
}

// NewSentence creates a validated, not yet persisted Sentence.
func NewSentence(text, tense string, difficulty int, themeID int64, order int, options []WordOption) (*Sentence, error) {
	s := &Sentence{
		Text:            strings.TrimSpace(text),
		Tense:           strings.TrimSpace(tense),
		DifficultyLevel: difficulty,
		ThemeID:         themeID,
		OrderInTheme:    order,
		Options:         options,
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks the sentence and its options.
func (s *Sentence) Validate() error {
	switch {
	case s.Text == "":
		return NewValidationError("text", "is required", ErrSentenceTextEmpty)
	case !HasBlank(s.Text):
		return NewValidationError("text", "has no blank", ErrSentenceNoBlank)
	case s.Tense == "":
		return NewValidationError("tense", "is required", ErrSentenceTenseEmpty)
	case s.DifficultyLevel < 1:
		return NewValidationError("difficulty_level", "is out of range", ErrSentenceDifficulty)
	case s.ThemeID <= 0:
		return NewValidationError("theme_id", "must be positive", ErrInvalidID)
	case s.OrderInTheme < 0:
		return NewValidationError("order_in_theme", "is out of range", ErrSentenceOrderNegative)
	case len(s.Options) == 0:
		return NewValidationError("word_options", "are required", ErrSentenceNoOptions)
	}

	correct := 0
	for _, o := range s.Options {
		if strings.TrimSpace(o.Word) == "" {
			return NewValidationError("word_options", "contain an empty word", ErrWordOptionEmpty)
		}
		if o.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return NewValidationError("word_options", "need one correct answer", ErrSentenceCorrectCount)
	}
	return nil
}

// CorrectOption returns the option marked correct.
func (s *Sentence) CorrectOption() (WordOption, bool) {
	for _, o := range s.Options {
		if o.IsCorrect {
			return o, true
		}
	}
	return WordOption{}, false
}

// IsCorrectAnswer reports whether answer selects the correct option. The
// answer may be an option's unique id or the word itself; words compare
// case-insensitively after trimming.
func (s *Sentence) IsCorrectAnswer(answer string) bool {
	correct, ok := s.CorrectOption()
	if !ok {
		return false
	}
	answer = strings.TrimSpace(answer)
	if id, err := uuid.Parse(answer); err == nil {
		return id == correct.UniqueID
	}
	return strings.EqualFold(answer, correct.Word)
}
