package domain

import "time"

// Progress is a user's cursor and completion count within one theme.
// CurrentSentenceIndex is a zero-based index into the theme's ordered
// sentences.
type Progress struct {
	ID                   int64     `json:"id"                     db:"id"`
	UserID               int64     `json:"user_id"                db:"user_id"`
	ThemeID              int64     `json:"theme_id"               db:"theme_id"`
	CurrentSentenceIndex int       `json:"current_sentence_index" db:"current_sentence_index"`
	CompletedSentences   int       `json:"completed_sentences"    db:"completed_sentences"`
	LastAccessed         time.Time `json:"last_accessed"          db:"last_accessed"`
}

// Cursor returns the index of the next sentence to serve, clamped to zero.
// A nil Progress means the user has not started the theme.
func (p *Progress) Cursor() int {
	if p == nil || p.CurrentSentenceIndex < 0 {
		return 0
	}
	return p.CurrentSentenceIndex
}
