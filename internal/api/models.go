package api

import (
	"time"

	"github.com/phrazzld/grammar-api/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	UserID       int64  `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateThemeRequest defines the payload for creating a theme.
type CreateThemeRequest struct {
	Name        string  `json:"name"            validate:"required,max=200"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parent_theme_id" validate:"omitempty,gt=0"`
}

// WordOptionRequest is one candidate word of a new sentence.
type WordOptionRequest struct {
	Word      string `json:"word"       validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateSentenceRequest defines the payload for creating a sentence.
type CreateSentenceRequest struct {
	Text            string              `json:"text"             validate:"required"`
	Tense           string              `json:"tense"            validate:"required"`
	DifficultyLevel int                 `json:"difficulty_level" validate:"required,gte=1"`
	ThemeID         int64               `json:"theme_id"         validate:"required,gt=0"`
	OrderInTheme    *int                `json:"order_in_theme"   validate:"omitempty,gte=0"`
	WordOptions     []WordOptionRequest `json:"word_options"     validate:"required,min=1,dive"`
}

// VerifyAnswerRequest defines the payload for checking an answer. Answer is
// a word option id or the word itself.
type VerifyAnswerRequest struct {
	SentenceID int64  `json:"sentence_id" validate:"required,gt=0"`
	Answer     string `json:"answer"      validate:"required"`
}

// RecordCompletionRequest defines the payload for recording a completion.
type RecordCompletionRequest struct {
	ThemeID    int64 `json:"theme_id"    validate:"required,gt=0"`
	SentenceID int64 `json:"sentence_id" validate:"required,gt=0"`
}

// ThemeResponse is a theme with its counts.
type ThemeResponse struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description"`
	ParentID           *int64    `json:"parent_theme_id"`
	TotalSentences     int       `json:"total_sentences"`
	CompletedSentences int       `json:"completed_sentences"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// WordOptionResponse exposes an option without its correctness flag.
type WordOptionResponse struct {
	ID   string `json:"id"`
	Word string `json:"word"`
}

// SentenceResponse is a sentence with its options.
type SentenceResponse struct {
	ID              int64                `json:"id"`
	Text            string               `json:"text"`
	Tense           string               `json:"tense"`
	DifficultyLevel int                  `json:"difficulty_level"`
	ThemeID         int64                `json:"theme_id"`
	OrderInTheme    int                  `json:"order_in_theme"`
	WordOptions     []WordOptionResponse `json:"word_options"`
}

// ProgressResponse is a user's progress in one theme.
type ProgressResponse struct {
	ThemeID              int64     `json:"theme_id"`
	CurrentSentenceIndex int       `json:"current_sentence_index"`
	CompletedSentences   int       `json:"completed_sentences"`
	LastAccessed         time.Time `json:"last_accessed"`
}

// ResetProgressResponse reports how many progress rows were reset.
type ResetProgressResponse struct {
	ThemeID int64 `json:"theme_id"`
	Reset   int64 `json:"reset"`
}

func themeToResponse(t domain.Theme) ThemeResponse {
	return ThemeResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		ParentID:    t.ParentID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func summariesToResponse(summaries []domain.ThemeSummary) []ThemeResponse {
	out := make([]ThemeResponse, 0, len(summaries))
	for _, s := range summaries {
		resp := themeToResponse(s.Theme)
		resp.TotalSentences = s.TotalSentences
		resp.CompletedSentences = s.CompletedSentences
		out = append(out, resp)
	}
	return out
}

func sentenceToResponse(s *domain.Sentence) SentenceResponse {
	options := make([]WordOptionResponse, 0, len(s.Options))
	for _, o := range s.Options {
		options = append(options, WordOptionResponse{ID: o.UniqueID.String(), Word: o.Word})
	}
	return SentenceResponse{
		ID:              s.ID,
		Text:            s.Text,
		Tense:           s.Tense,
		DifficultyLevel: s.DifficultyLevel,
		ThemeID:         s.ThemeID,
		OrderInTheme:    s.OrderInTheme,
		WordOptions:     options,
	}
}

func progressToResponse(p *domain.Progress) ProgressResponse {
	return ProgressResponse{
		ThemeID:              p.ThemeID,
		CurrentSentenceIndex: p.CurrentSentenceIndex,
		CompletedSentences:   p.CompletedSentences,
		LastAccessed:         p.LastAccessed,
	}
}
