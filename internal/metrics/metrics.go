// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the recommendation service:
// - API endpoint latency and throughput
// - Recommendation engine latency per strategy
// - Tag search activity
// - TMDB poster lookups and circuit breaker state

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Recommendation Engine Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_recommendation_requests_total",
			Help: "Total number of recommendation requests by strategy and outcome",
		},
		[]string{"strategy", "outcome"}, // outcome: "ok", "empty", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommendation_duration_seconds",
			Help:    "Duration of recommendation scoring in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"strategy"},
	)

	EngineTrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_engine_train_duration_seconds",
			Help:    "Duration of engine training in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	CatalogMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_catalog_movies",
			Help: "Number of movies in the loaded catalog",
		},
	)

	CatalogRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_catalog_ratings",
			Help: "Number of rating rows in the loaded catalog",
		},
	)

	// Tag Search Metrics
	TagSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_tag_searches_total",
			Help: "Total number of tag searches by mode and outcome",
		},
		[]string{"mode", "outcome"}, // mode: "exact", "expanded"; outcome: "matched", "fallback", "empty"
	)

	// TMDB Metrics
	PosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_poster_lookups_total",
			Help: "Total number of TMDB poster lookups by result",
		},
		[]string{"result"}, // "hit", "miss", "error", "breaker_open", "disabled"
	)

	PosterLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_poster_lookup_duration_seconds",
			Help:    "Duration of TMDB poster lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TMDBBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_tmdb_breaker_state",
			Help: "TMDB circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one recommendation request
func RecordRecommendation(strategy, outcome string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(strategy, outcome).Inc()
	RecommendationDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// RecordTagSearch records one tag search
func RecordTagSearch(mode, outcome string) {
	TagSearches.WithLabelValues(mode, outcome).Inc()
}

// RecordPosterLookup records one TMDB poster lookup
func RecordPosterLookup(result string, duration time.Duration) {
	PosterLookups.WithLabelValues(result).Inc()
	PosterLookupDuration.Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
