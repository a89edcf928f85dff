package api

import (
	"log/slog"
	"net/http"

	"github.com/lexsnap/lexsnap/internal/api/shared"
	"github.com/lexsnap/lexsnap/internal/service/review"
)

// ProgressHandler handles experience progression HTTP requests
type ProgressHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(reviewService review.ReviewService, logger *slog.Logger) *ProgressHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil for ProgressHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ProgressHandler")
	}

	return &ProgressHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProgress handles GET /progress requests.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	overview, err := h.reviewService.ProgressOverview(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to get progress", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, overviewToResponse(overview))
}
