package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
	"github.com/phrazzld/grammar-api/internal/service/progress"
)

// ProgressHandler records completions and lists a user's progress.
type ProgressHandler struct {
	tracker progress.Tracker
	logger  *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(tracker progress.Tracker, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		tracker: tracker,
		logger:  logger.With(slog.String("component", "progress_handler")),
	}
}

// RecordCompletion handles POST /api/progress.
func (h *ProgressHandler) RecordCompletion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	var req RecordCompletionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	p, err := h.tracker.RecordCompletion(r.Context(), userID, req.ThemeID, req.SentenceID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	log.Debug("completion recorded",
		slog.Int64("user_id", userID),
		slog.Int64("theme_id", req.ThemeID),
		slog.Int("completed_sentences", p.CompletedSentences))
	shared.RespondWithJSON(w, r, http.StatusOK, progressToResponse(p))
}

// ListProgress handles GET /api/progress.
func (h *ProgressHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	rows, err := h.tracker.ListUserProgress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	out := make([]ProgressResponse, 0, len(rows))
	for i := range rows {
		out = append(out, progressToResponse(&rows[i]))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
