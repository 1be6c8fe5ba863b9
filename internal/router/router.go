// Package router sets up the HTTP routes and middleware chain for the
// Inkwell server.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// New creates the configured chi router. commentLimiter guards the
// submission endpoint; page reads are unlimited.
func New(public *handlers.Public, commentLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check.
	r.Get("/health", healthHandler)

	// Comment submission API.
	r.Route("/api", func(r chi.Router) {
		r.With(commentLimiter.Middleware).Post("/comments", public.CreateComment)
	})

	// Public pages.
	r.Get("/", public.Home)
	r.Get("/post/{slug}", public.Post)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
