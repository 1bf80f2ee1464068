// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/LeQKhai/MovieRec/internal/catalog"
	"github.com/LeQKhai/MovieRec/internal/metrics"
	"github.com/LeQKhai/MovieRec/internal/vectorize"
)

// Engine routes recommendation requests to the registered scorers and merges
// their output for the hybrid strategy. It is safe for concurrent use once
// trained.
type Engine struct {
	config *Config
	logger zerolog.Logger

	collaborative Algorithm
	content       Algorithm

	trainMu   sync.RWMutex
	trained   bool
	trainedAt time.Time
}

// Config configures the engine.
type Config struct {
	// TopK is the default recommendation list length.
	TopK int
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() *Config {
	return &Config{TopK: 5}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	return nil
}

// NewEngine creates an engine around the two scorers.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, collaborative, content Algorithm, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if collaborative == nil || content == nil {
		return nil, fmt.Errorf("both scorers are required")
	}

	return &Engine{
		config:        cfg,
		logger:        logger.With().Str("component", "recommend").Logger(),
		collaborative: collaborative,
		content:       content,
	}, nil
}

// Train fits both scorers on the catalog snapshot and its fitted vector
// space. Training fully replaces any previous state.
func (e *Engine) Train(ctx context.Context, snap *catalog.Snapshot, model *vectorize.Model) error {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()

	start := time.Now()
	e.logger.Info().
		Int("movies", snap.Len()).
		Int("ratings", len(snap.Ratings())).
		Msg("Training recommendation engine")

	if err := e.collaborative.Train(ctx, snap, model); err != nil {
		return fmt.Errorf("train %s: %w", e.collaborative.Name(), err)
	}
	if err := e.content.Train(ctx, snap, model); err != nil {
		return fmt.Errorf("train %s: %w", e.content.Name(), err)
	}

	e.trained = true
	e.trainedAt = time.Now()

	elapsed := time.Since(start)
	metrics.EngineTrainDuration.Observe(elapsed.Seconds())
	metrics.CatalogMovies.Set(float64(snap.Len()))
	metrics.CatalogRatings.Set(float64(len(snap.Ratings())))
	e.logger.Info().
		Dur("duration", elapsed).
		Msg("Recommendation engine trained")
	return nil
}

// IsTrained reports whether Train has completed.
func (e *Engine) IsTrained() bool {
	e.trainMu.RLock()
	defer e.trainMu.RUnlock()
	return e.trained
}

// TrainedAt returns when the engine last finished training.
func (e *Engine) TrainedAt() time.Time {
	e.trainMu.RLock()
	defer e.trainMu.RUnlock()
	return e.trainedAt
}

// Recommend answers one recommendation request. A seed nobody can score
// yields an empty item list, never an error.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	if !e.IsTrained() {
		return nil, fmt.Errorf("engine is not trained")
	}

	k := req.K
	if k <= 0 {
		k = e.config.TopK
	}

	start := time.Now()
	var (
		items []ScoredMovie
		err   error
	)
	switch req.Strategy {
	case StrategyCollaborative:
		items, err = e.collaborative.Similar(ctx, req.SeedID, k)
	case StrategyContent:
		items, err = e.content.Similar(ctx, req.SeedID, k)
	case StrategyHybrid:
		items, err = e.hybrid(ctx, req.SeedID, k)
	default:
		return nil, fmt.Errorf("unknown strategy %d", req.Strategy)
	}

	elapsed := time.Since(start)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case len(items) == 0:
		outcome = "empty"
	}
	metrics.RecordRecommendation(req.Strategy.String(), outcome, elapsed)

	if err != nil {
		e.logger.Error().Err(err).
			Int("seed_id", req.SeedID).
			Str("strategy", req.Strategy.String()).
			Msg("Recommendation failed")
		return nil, err
	}

	e.logger.Debug().
		Int("seed_id", req.SeedID).
		Str("strategy", req.Strategy.String()).
		Int("count", len(items)).
		Dur("duration", elapsed).
		Msg("Recommendation served")

	if items == nil {
		items = []ScoredMovie{}
	}
	return &Response{
		Items: items,
		Metadata: ResponseMetadata{
			SeedID:    req.SeedID,
			Strategy:  req.Strategy.String(),
			LatencyMS: elapsed.Milliseconds(),
			Timestamp: time.Now().UTC(),
		},
	}, nil
}

// hybrid merges the two ranked lists by slot parity: even slots (0-indexed)
// draw collaborative result slot/2 when it exists, falling back to content
// result slot/2; odd slots draw content result slot/2. A slot whose source
// is exhausted on both counts is skipped, so the merged list can be shorter
// than k, and a content result can fill both an even and an odd slot.
func (e *Engine) hybrid(ctx context.Context, seedID, k int) ([]ScoredMovie, error) {
	collab, err := e.collaborative.Similar(ctx, seedID, k)
	if err != nil {
		return nil, err
	}
	content, err := e.content.Similar(ctx, seedID, k)
	if err != nil {
		return nil, err
	}

	merged := make([]ScoredMovie, 0, k)
	for slot := 0; slot < k; slot++ {
		idx := slot / 2
		switch {
		case slot%2 == 0 && idx < len(collab):
			merged = append(merged, collab[idx])
		case idx < len(content):
			merged = append(merged, content[idx])
		}
	}
	return merged, nil
}
