package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"assistant-backend/internal/handlers"
	"assistant-backend/internal/middleware"
)

type Options struct {
	// ChatRateLimit enables a per-IP limiter on the chat route when > 0.
	ChatRateLimit  int
	ChatRateWindow time.Duration
	HistoryEnabled bool
}

func New(chatHandler *handlers.ChatHandler, opts Options) http.Handler {
	r := chi.NewRouter()

	// Global middleware. CORS runs first so pre-flight requests are
	// answered before routing.
	r.Use(middleware.CORS)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)

	// Liveness
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","message":"Gemini AI Chat Server"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.ChatRateLimit > 0 {
				limiter := middleware.NewRateLimiter(opts.ChatRateLimit, opts.ChatRateWindow)
				r.Use(limiter.Middleware)
			}
			r.Post("/chat", chatHandler.Chat)
		})

		r.Get("/models", chatHandler.ListModels)

		if opts.HistoryEnabled {
			r.Get("/history", chatHandler.History)
		}
	})

	return r
}
