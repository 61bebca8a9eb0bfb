package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Spreadsheet columns, one sentence per row after the header.
const (
	colTheme = iota
	colSubtheme
	colSentence
	colTense
	colDifficulty
	colOptions
	columnCount
)

const (
	optionSeparator = ";"
	correctMarker   = "*"
)

// ParseXLSX reads the first sheet of a workbook. Rows sharing a theme and
// subtheme are grouped into one entry in first-seen order. Options are
// separated by ";" and the correct one is prefixed with "*".
func ParseXLSX(r io.Reader) ([]ThemeEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var entries []ThemeEntry
	index := map[[2]string]int{}
	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		cells := make([]string, columnCount)
		for c := 0; c < columnCount && c < len(row); c++ {
			cells[c] = strings.TrimSpace(row[c])
		}

		sentence, err := parseRow(cells)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		key := [2]string{cells[colTheme], cells[colSubtheme]}
		pos, ok := index[key]
		if !ok {
			pos = len(entries)
			index[key] = pos
			entries = append(entries, ThemeEntry{Theme: key[0], Subtheme: key[1]})
		}
		entries[pos].Sentences = append(entries[pos].Sentences, sentence)
	}
	return entries, nil
}

func parseRow(cells []string) (SentenceEntry, error) {
	if cells[colTheme] == "" {
		return SentenceEntry{}, ErrMissingTheme
	}
	difficulty := 1
	if cells[colDifficulty] != "" {
		d, err := strconv.Atoi(cells[colDifficulty])
		if err != nil {
			return SentenceEntry{}, fmt.Errorf("invalid difficulty %q", cells[colDifficulty])
		}
		difficulty = d
	}
	return SentenceEntry{
		Sentence:        cells[colSentence],
		Tense:           cells[colTense],
		DifficultyLevel: difficulty,
		WordOptions:     parseOptions(cells[colOptions]),
	}, nil
}

func parseOptions(cell string) []OptionEntry {
	var options []OptionEntry
	for _, part := range strings.Split(cell, optionSeparator) {
		word := strings.TrimSpace(part)
		correct := strings.HasPrefix(word, correctMarker)
		word = strings.TrimSpace(strings.TrimPrefix(word, correctMarker))
		if word == "" {
			continue
		}
		options = append(options, OptionEntry{Word: word, IsCorrect: correct})
	}
	return options
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
