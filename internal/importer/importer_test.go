package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleJSON = `[
  {
    "theme": "Przypadki",
    "subtheme": "Dopełniacz",
    "description": "Genitive case",
    "sentences": [
      {
        "sentence": "Nie mam ___.",
        "tense": "present",
        "difficulty_level": 1,
        "word_options": [
          {"word": "kota", "is_correct": true},
          {"word": "kot", "is_correct": false}
        ]
      }
    ]
  }
]`

func TestParseJSON(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleJSON), FormatJSON)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "Przypadki", e.Theme)
	assert.Equal(t, "Dopełniacz", e.Subtheme)
	assert.Equal(t, "Genitive case", e.Description)
	require.Len(t, e.Sentences, 1)
	assert.Equal(t, "Nie mam ___.", e.Sentences[0].Sentence)
	assert.Equal(t, []OptionEntry{{Word: "kota", IsCorrect: true}, {Word: "kot"}}, e.Sentences[0].WordOptions)
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "malformed", input: `[{"theme":`},
		{name: "unknown field", input: `[{"theme":"A","colour":"red"}]`},
		{name: "missing theme", input: `[{"sentences":[]}]`, want: ErrMissingTheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), FormatJSON)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestParseXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"theme", "subtheme", "sentence", "tense", "difficulty", "options"},
		{"Czasowniki", "Teraźniejszy", "Ja ___ po polsku.", "present", 1, "*mówię; mówisz; mówi"},
		{"Przypadki", "", "To jest ___.", "present", 2, "dom;*domu"},
		{"Czasowniki", "Teraźniejszy", "Ty ___ szybko.", "present", "", "biegnę;*biegniesz"},
	})

	entries, err := ParseXLSX(buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Czasowniki", entries[0].Theme)
	assert.Equal(t, "Teraźniejszy", entries[0].Subtheme)
	require.Len(t, entries[0].Sentences, 2)
	assert.Equal(t, []OptionEntry{
		{Word: "mówię", IsCorrect: true},
		{Word: "mówisz"},
		{Word: "mówi"},
	}, entries[0].Sentences[0].WordOptions)
	assert.Equal(t, 1, entries[0].Sentences[1].DifficultyLevel)

	assert.Equal(t, "Przypadki", entries[1].Theme)
	assert.Empty(t, entries[1].Subtheme)
	assert.Equal(t, 2, entries[1].Sentences[0].DifficultyLevel)
}

func TestParseXLSX_InvalidDifficulty(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"theme", "subtheme", "sentence", "tense", "difficulty", "options"},
		{"Przypadki", "", "To jest ___.", "present", "hard", "*domu"},
	})

	_, err := ParseXLSX(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "sentences.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o600))
	entries, err := ParseFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = ParseFile(filepath.Join(dir, "sentences.csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
