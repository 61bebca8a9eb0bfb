package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/grammar-api/internal/api/shared"
	"github.com/phrazzld/grammar-api/internal/platform/logger"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthHandler reports service liveness and database reachability.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealthHandler creates a HealthHandler. A nil db reports the database
// as "unconfigured".
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthHandler{
		db:      db,
		timeout: 2 * time.Second,
		logger:  logger.With(slog.String("component", "health_handler")),
	}
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "unconfigured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).
			Warn("database ping failed", slog.String("error", err.Error()))
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
			HealthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
