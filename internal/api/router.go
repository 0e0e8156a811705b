// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/rqaguard/internal/middleware"
)

// NewRouter builds the HTTP handler for h.
func NewRouter(h *Handler, cfg MiddlewareConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cfg.corsHandler())

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cfg.rateLimiter())
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", h.Health)
		r.Get("/stats", h.Stats)
		r.Get("/blocked", h.Blocked)
		r.Get("/blocked/{addr}", h.BlockedEntity)
		r.Get("/logs", h.Logs)
		r.Post("/observations", h.IngestObservations)
		r.Get("/ws", h.WebSocket)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondErrorMessage(w, r, http.StatusNotFound, ErrCodeNotFound, "Endpoint not found")
	})
	return r
}
