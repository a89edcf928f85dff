// Package api provides HTTP handlers for the API.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lexsnap/lexsnap/internal/api/shared"
	"github.com/lexsnap/lexsnap/internal/domain"
	"github.com/lexsnap/lexsnap/internal/platform/logger"
	"github.com/lexsnap/lexsnap/internal/service/review"
)

// ReviewHandler handles collection and card review HTTP requests
type ReviewHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService review.ReviewService, logger *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil for ReviewHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "review_handler")),
	}
}

// CreateCollection handles POST /collections requests.
func (h *ReviewHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateCollectionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	collection, err := h.reviewService.CreateCollection(r.Context(), req.Label)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, collectionToResponse(collection))
}

// AddCard handles POST /collections/{id}/cards requests. Adding is
// idempotent: re-adding an existing item returns 200 with the current state
// instead of 201.
func (h *ReviewHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	collectionID, ok := h.collectionIDFromPath(w, r)
	if !ok {
		return
	}

	var req AddCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	state, created, err := h.reviewService.AddCard(r.Context(), collectionID, req.ItemID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
	}
	shared.RespondWithJSON(w, r, status, cardStateToResponse(state))
}

// GetNextCard handles GET /collections/{id}/cards/next requests.
// It responds 204 when no card is due.
func (h *ReviewHandler) GetNextCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	collectionID, ok := h.collectionIDFromPath(w, r)
	if !ok {
		return
	}

	state, err := h.reviewService.NextCard(r.Context(), collectionID)
	if errors.Is(err, review.ErrNoCardsDue) {
		log.Debug("no cards due", slog.String("collection_id", collectionID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		safeMessage := GetSafeErrorMessage(err)
		statusCode := MapErrorToStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get next review card"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardStateToResponse(state))
}

// SubmitReview handles POST /collections/{id}/cards/{item}/review requests.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	collectionID, ok := h.collectionIDFromPath(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item")
	if itemID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item ID is required")
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.reviewService.SubmitReview(
		r.Context(), collectionID, itemID, domain.Grade(req.Grade))
	if err != nil {
		safeMessage := GetSafeErrorMessage(err)
		statusCode := MapErrorToStatusCode(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to submit review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("review submitted",
		slog.String("collection_id", collectionID.String()),
		slog.String("item_id", itemID),
		slog.String("grade", req.Grade),
		slog.Int64("granted", result.Granted))
	shared.RespondWithJSON(w, r, http.StatusOK, reviewResultToResponse(result))
}

// Postpone handles POST /collections/{id}/cards/{item}/postpone requests.
func (h *ReviewHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	collectionID, ok := h.collectionIDFromPath(w, r)
	if !ok {
		return
	}

	itemID := chi.URLParam(r, "item")
	if itemID == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Item ID is required")
		return
	}

	var req PostponeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", err.Error()),
			slog.String("item_id", itemID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	state, err := h.reviewService.Postpone(r.Context(), collectionID, itemID, req.Days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardStateToResponse(state))
}

// DueCount handles GET /collections/{id}/due-count requests.
func (h *ReviewHandler) DueCount(w http.ResponseWriter, r *http.Request) {
	collectionID, ok := h.collectionIDFromPath(w, r)
	if !ok {
		return
	}

	count, err := h.reviewService.DueCount(r.Context(), collectionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to count due cards", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, DueCountResponse{DueCount: count})
}

// Summaries handles GET /summaries requests.
func (h *ReviewHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.reviewService.Summaries(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			http.StatusInternalServerError, "Failed to get collection summaries", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// collectionIDFromPath extracts and parses the collection ID URL parameter,
// writing the error response itself when the ID is missing or malformed.
func (h *ReviewHandler) collectionIDFromPath(
	w http.ResponseWriter,
	r *http.Request,
) (uuid.UUID, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	raw := chi.URLParam(r, "id")
	if raw == "" {
		log.Warn("collection ID not found in URL path")
		shared.RespondWithError(w, r, http.StatusBadRequest, "Collection ID is required")
		return uuid.Nil, false
	}

	collectionID, err := uuid.Parse(raw)
	if err != nil {
		log.Warn("invalid collection ID format", slog.String("collection_id", raw))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid collection ID format")
		return uuid.Nil, false
	}

	return collectionID, true
}
