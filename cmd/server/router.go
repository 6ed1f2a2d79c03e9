package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/calebwray/enroll-api/internal/api"
	apimiddleware "github.com/calebwray/enroll-api/internal/api/middleware"
	"github.com/calebwray/enroll-api/internal/platform/metrics"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)
	r.Use(apimiddleware.Metrics(app.recorder))

	registrationHandler := api.NewRegistrationHandler(
		app.registrar,
		app.accountStore,
		app.jwtService,
	)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public, rate limited per client IP)
		r.Group(func(r chi.Router) {
			r.Use(app.rateLimiter.Limit)
			r.Post("/auth/register", registrationHandler.Register)
			r.Post("/auth/login", registrationHandler.Login)
			r.Post("/auth/check-username", registrationHandler.CheckUsername)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/accounts/{id}", registrationHandler.GetAccount)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Prometheus scrape endpoint
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	return r
}
