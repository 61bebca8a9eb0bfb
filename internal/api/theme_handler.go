package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/phrazzld/grammar-api/internal/service"
	"github.com/phrazzld/grammar-api/internal/service/progress"
	"github.com/phrazzld/grammar-api/internal/service/sequencer"
)

// ThemeHandler serves theme listings and per-theme quiz delivery.
type ThemeHandler struct {
	themes    service.ThemeService
	sequencer sequencer.Service
	tracker   progress.Tracker
	logger    *slog.Logger
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(
	themes service.ThemeService,
	seq sequencer.Service,
	tracker progress.Tracker,
	logger *slog.Logger,
) *ThemeHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ThemeHandler{
		themes:    themes,
		sequencer: seq,
		tracker:   tracker,
		logger:    logger.With(slog.String("component", "theme_handler")),
	}
}

// ListRootThemes handles GET /api/themes.
func (h *ThemeHandler) ListRootThemes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	roots, err := h.themes.ListRootThemes(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(roots))
}

// CreateTheme handles POST /api/themes.
func (h *ThemeHandler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}
	var req CreateThemeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	theme, err := h.themes.CreateTheme(r.Context(), req.Name, req.Description, req.ParentID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, themeToResponse(*theme))
}

// ListSubthemes handles GET /api/themes/{id}/subthemes.
func (h *ThemeHandler) ListSubthemes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	themeID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}
	subs, err := h.themes.ListSubthemes(r.Context(), themeID, &userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(subs))
}

// ListSentences handles GET /api/themes/{id}/sentences. An empty theme is
// reported as not found.
func (h *ThemeHandler) ListSentences(w http.ResponseWriter, r *http.Request) {
	themeID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}
	sentences, err := h.sequencer.OrderedSentences(r.Context(), themeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if len(sentences) == 0 {
		HandleAPIError(w, r, service.ErrNoSentences)
		return
	}

	out := make([]SentenceResponse, 0, len(sentences))
	for i := range sentences {
		out = append(out, sentenceToResponse(&sentences[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// NextSentence handles GET /api/themes/{id}/next-sentence.
func (h *ThemeHandler) NextSentence(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	themeID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}

	sentence, err := h.sequencer.NextSentence(r.Context(), userID, themeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	log.Debug("serving next sentence",
		slog.Int64("user_id", userID),
		slog.Int64("theme_id", themeID),
		slog.Int64("sentence_id", sentence.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, sentenceToResponse(sentence))
}

// GetProgress handles GET /api/themes/{id}/progress.
func (h *ThemeHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	themeID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.tracker.GetProgress(r.Context(), userID, themeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(p))
}

// ResetProgress handles POST /api/themes/{id}/progress/reset.
func (h *ThemeHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	themeID, ok := requirePathID(w, r, "id")
	if !ok {
		return
	}
	n, err := h.tracker.ResetProgress(r.Context(), userID, themeID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ResetProgressResponse{ThemeID: themeID, Reset: n})
}
