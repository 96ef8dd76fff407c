package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the dashboard routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/clients", h.ListClients)

		r.Route("/clients/{client}", func(r chi.Router) {
			r.Get("/report", h.GetReport)
			r.Get("/summary", h.GetSummary)
			r.Get("/recommendations", h.GetRecommendations)
			r.Get("/history", h.GetHistory)
			r.Post("/analyze", h.Analyze)
		})
	})

	return r
}
