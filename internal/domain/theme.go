package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxThemeNameLength bounds theme names.
const MaxThemeNameLength = 200

// Theme validation errors.
var (
	ErrThemeNameEmpty   = errors.New("theme name cannot be empty")
	ErrThemeNameTooLong = errors.New("theme name is too long")
	ErrThemeParentSelf  = errors.New("theme cannot be its own parent")
)

// Theme is a named topic or sub-topic. Themes form a tree through ParentID;
// a theme without a parent is a root theme.
type Theme struct {
	ID          int64     `json:"id"                    db:"id"`
	Name        string    `json:"name"                  db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	ParentID    *int64    `json:"parent_theme_id"       db:"parent_theme_id"`
	CreatedAt   time.Time `json:"created_at"            db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"            db:"updated_at"`
}

// NewTheme creates a validated, not yet persisted Theme.
func NewTheme(name string, description *string, parentID *int64) (*Theme, error) {
	now := time.Now().UTC()
	theme := &Theme{
		Name:        strings.TrimSpace(name),
		Description: trimOptional(description),
		ParentID:    parentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := theme.Validate(); err != nil {
		return nil, err
	}

	return theme, nil
}

// Validate checks if the Theme has valid data.
func (t *Theme) Validate() error {
	if t.Name == "" {
		return NewValidationError("name", "is required", ErrThemeNameEmpty)
	}
	if utf8.RuneCountInString(t.Name) > MaxThemeNameLength {
		return NewValidationError("name", "is too long", ErrThemeNameTooLong)
	}
	if t.ParentID != nil {
		if *t.ParentID <= 0 {
			return NewValidationError("parent_theme_id", "must be positive", ErrInvalidID)
		}
		if t.ID != 0 && *t.ParentID == t.ID {
			return NewValidationError("parent_theme_id", "must differ from id", ErrThemeParentSelf)
		}
	}
	return nil
}

// IsRoot reports whether the theme has no parent.
func (t *Theme) IsRoot() bool {
	return t.ParentID == nil
}

// ThemeSummary is a theme annotated with its sentence count and the
// querying user's completed count.
type ThemeSummary struct {
	Theme
	TotalSentences     int `json:"total_sentences"`
	CompletedSentences int `json:"completed_sentences"`
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
