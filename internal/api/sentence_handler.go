package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/service/sequencer"
)

// SentenceHandler serves the theme-independent sentence endpoints.
type SentenceHandler struct {
	sentences service.SentenceService
	sequencer sequencer.Service
	logger    *slog.Logger
}

// NewSentenceHandler creates a new SentenceHandler.
func NewSentenceHandler(sentences service.SentenceService, seq sequencer.Service, logger *slog.Logger) *SentenceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SentenceHandler{
		sentences: sentences,
		sequencer: seq,
		logger:    logger.With(slog.String("component", "sentence_handler")),
	}
}

// Random handles GET /api/sentences/random.
func (h *SentenceHandler) Random(w http.ResponseWriter, r *http.Request) {
	sentence, err := h.sequencer.RandomSentence(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sentenceToResponse(sentence))
}

// Verify handles POST /api/sentences/verify.
func (h *SentenceHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyAnswerRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	verdict, err := h.sequencer.VerifyAnswer(r.Context(), req.SentenceID, req.Answer)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, verdict)
}

// Create handles POST /api/sentences.
func (h *SentenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	var req CreateSentenceRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	in := service.CreateSentenceInput{
		Text:            req.Text,
		Tense:           req.Tense,
		DifficultyLevel: req.DifficultyLevel,
		ThemeID:         req.ThemeID,
		OrderInTheme:    req.OrderInTheme,
	}
	for _, o := range req.WordOptions {
		in.Options = append(in.Options, service.OptionInput{Word: o.Word, IsCorrect: o.IsCorrect})
	}

	sentence, err := h.sentences.CreateSentence(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, sentenceToResponse(sentence))
}
