// Package server exposes the stored analyses over a small JSON API.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the chi router with the middleware stack and all routes.
func NewRouter(store Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(PrometheusMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	h := NewHandler(store)

	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/players/{puuid}/analysis", h.GetAnalysis)
		r.Get("/players/{puuid}/matches", h.GetMatches)
		r.Get("/matches/{id}/events", h.GetMatchEvents)
	})

	return r
}

// NewServer creates the HTTP server with sane timeouts.
func NewServer(addr string, store Store, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewRouter(store, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
