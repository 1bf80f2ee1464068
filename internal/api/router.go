// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LeQKhai/MovieRec/internal/middleware"
)

// RouterConfig configures the HTTP surface.
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultRouterConfig returns router defaults. CORS origins are empty and
// must be configured explicitly.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CORSOrigins:       []string{},
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

// NewRouter assembles the chi router: global middleware, the versioned API
// routes, and the Prometheus scrape endpoint.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	if cfg.RateLimitRequests <= 0 {
		cfg.RateLimitRequests = 100
	}
	if cfg.RateLimitWindow <= 0 {
		cfg.RateLimitWindow = time.Minute
	}

	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.Limit(
			cfg.RateLimitRequests,
			cfg.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByRealIP),
		))
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", handler.Health)

		r.Route("/movies", func(r chi.Router) {
			r.Get("/", handler.Movies)
			r.Get("/{id}", handler.Movie)
			r.Get("/{id}/recommendations", handler.Recommendations)
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", handler.Genres)
			r.Get("/{genre}/top", handler.TopByGenre)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", handler.Tags)
			r.Get("/search", handler.TagSearch)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
