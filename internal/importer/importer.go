// Package importer reads bulk sentence files. Entries are grouped by theme
// and optional subtheme; persisting them is the sentence service's job.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for file extensions other than .json and
// .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// ErrMissingTheme is returned when an entry has no theme name.
var ErrMissingTheme = errors.New("import entry has no theme")

// ThemeEntry is a group of sentences destined for one theme, or for one
// subtheme of a root theme when Subtheme is set.
type ThemeEntry struct {
	Theme       string          `json:"theme"`
	Subtheme    string          `json:"subtheme,omitempty"`
	Description string          `json:"description,omitempty"`
	Sentences   []SentenceEntry `json:"sentences"`
}

// SentenceEntry is one sentence with its candidate words.
type SentenceEntry struct {
	Sentence        string        `json:"sentence"`
	Tense           string        `json:"tense"`
	DifficultyLevel int           `json:"difficulty_level"`
	WordOptions     []OptionEntry `json:"word_options"`
}

// OptionEntry is one candidate word.
type OptionEntry struct {
	Word      string `json:"word"`
	IsCorrect bool   `json:"is_correct"`
}

// Format identifies an import file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Parse decodes r in the given format.
func Parse(r io.Reader, format Format) ([]ThemeEntry, error) {
	var (
		entries []ThemeEntry
		err     error
	)
	switch format {
	case FormatJSON:
		entries, err = ParseJSON(r)
	case FormatXLSX:
		entries, err = ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Theme) == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrMissingTheme)
		}
	}
	return entries, nil
}

// ParseFile opens path and parses it according to its extension.
func ParseFile(path string) ([]ThemeEntry, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f, format)
}
