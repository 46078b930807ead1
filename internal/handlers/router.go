package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all routes onto a chi router.
func NewRouter(h *Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Schedule
		r.Get("/schedule", h.GetSchedule)
		r.Get("/games/{gameID}", h.GetGame)
		r.Get("/games/{gameID}/weather", h.GetGameWeather)

		// Predictions
		r.Post("/games/{gameID}/predict", h.PredictGame)
		r.Get("/games/{gameID}/prediction", h.GetPrediction)

		// Teams and venues
		r.Get("/teams/{teamID}/stats", h.GetTeamStats)
		r.Get("/venues/{venueID}/park-factors", h.GetParkFactors)

		// Ingestion
		r.Post("/ingest/schedule", h.IngestSchedule)
		r.Post("/ingest/team-stats", h.IngestTeamStats)
		r.Get("/ingest/jobs/{jobID}", h.GetIngestionJob)

		// System
		r.Post("/system/install", h.InstallDatabase)
	})

	return r
}
