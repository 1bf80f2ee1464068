// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package tmdb resolves movie poster URLs from The Movie Database. Poster
// art is decoration: every failure path resolves to an empty URL and the
// caller renders without a poster.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/LeQKhai/MovieRec/internal/metrics"
)

const (
	defaultBaseURL  = "https://api.themoviedb.org/3"
	defaultImageURL = "https://image.tmdb.org/t/p/w185"
	defaultTimeout  = 5 * time.Second
)

// Config configures the TMDB client.
type Config struct {
	// APIKey authenticates against TMDB. Empty disables lookups entirely.
	APIKey string `koanf:"api_key"`

	// BaseURL overrides the TMDB API endpoint, used in tests.
	BaseURL string `koanf:"base_url"`

	// ImageBaseURL prefixes returned poster paths.
	ImageBaseURL string `koanf:"image_base_url"`

	// Timeout bounds a single lookup.
	Timeout time.Duration `koanf:"timeout"`
}

// Client fetches poster URLs. It is safe for concurrent use.
type Client struct {
	cfg    Config
	http   *http.Client
	cb     *gobreaker.CircuitBreaker[string]
	logger zerolog.Logger
}

// NewClient creates a TMDB client. The circuit breaker opens after a 60%
// failure rate over at least 10 requests and recovers after 2 minutes, so a
// TMDB outage cannot slow every catalog page down to the request timeout.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = defaultImageURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	lg := logger.With().Str("component", "tmdb").Logger()

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "tmdb-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lg.Info().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("TMDB circuit breaker state change")
			metrics.TMDBBreakerState.Set(stateToFloat(to))
		},
	})

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		cb:     cb,
		logger: lg,
	}
}

// Enabled reports whether lookups are configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// movieDetails is the slice of the TMDB movie response we care about.
type movieDetails struct {
	PosterPath string `json:"poster_path"`
}

// PosterURL resolves the poster image URL for a TMDB movie ID. It returns
// the empty string when lookups are disabled, the movie has no poster, TMDB
// answers with a non-200 status, or the circuit breaker is open. It never
// returns an error to the caller.
func (c *Client) PosterURL(ctx context.Context, tmdbID int64) string {
	if !c.Enabled() {
		metrics.PosterLookups.WithLabelValues("disabled").Inc()
		return ""
	}

	start := time.Now()
	url, err := c.cb.Execute(func() (string, error) {
		return c.fetchPosterPath(ctx, tmdbID)
	})
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordPosterLookup("breaker_open", elapsed)
		return ""
	case err != nil:
		metrics.RecordPosterLookup("error", elapsed)
		c.logger.Debug().Err(err).Int64("tmdb_id", tmdbID).Msg("Poster lookup failed")
		return ""
	case url == "":
		metrics.RecordPosterLookup("miss", elapsed)
		return ""
	}
	metrics.RecordPosterLookup("hit", elapsed)
	return url
}

// fetchPosterPath performs the actual TMDB request. An empty string with nil
// error means the movie exists but has no poster.
func (c *Client) fetchPosterPath(ctx context.Context, tmdbID int64) (string, error) {
	url := fmt.Sprintf("%s/movie/%d?api_key=%s&language=en-US", c.cfg.BaseURL, tmdbID, c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("tmdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tmdb status %d", resp.StatusCode)
	}

	var details movieDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if details.PosterPath == "" {
		return "", nil
	}
	return c.cfg.ImageBaseURL + details.PosterPath, nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
