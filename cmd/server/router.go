package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lexsnap/lexsnap/internal/api"
	apiMiddleware "github.com/lexsnap/lexsnap/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	progressHandler := api.NewProgressHandler(app.reviewService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Collection endpoints
		r.Post("/collections", reviewHandler.CreateCollection)
		r.Get("/collections/{id}/due-count", reviewHandler.DueCount)
		r.Get("/summaries", reviewHandler.Summaries)

		// Card review endpoints
		r.Post("/collections/{id}/cards", reviewHandler.AddCard)
		r.Get("/collections/{id}/cards/next", reviewHandler.GetNextCard)
		r.Post("/collections/{id}/cards/{item}/review", reviewHandler.SubmitReview)
		r.Post("/collections/{id}/cards/{item}/postpone", reviewHandler.Postpone)

		// Progression endpoint
		r.Get("/progress", progressHandler.GetProgress)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
