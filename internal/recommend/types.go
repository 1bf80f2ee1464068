// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/LeQKhai/MovieRec/internal/catalog"
	"github.com/LeQKhai/MovieRec/internal/vectorize"
)

// Strategy selects which scorer answers a recommendation request.
type Strategy int

const (
	// StrategyCollaborative ranks by the lift ratio of the seed's fans.
	StrategyCollaborative Strategy = iota
	// StrategyContent ranks by tag-text cosine similarity.
	StrategyContent
	// StrategyHybrid interleaves the two ranked lists.
	StrategyHybrid
)

// String returns the strategy name used in the API and in logs.
func (s Strategy) String() string {
	switch s {
	case StrategyCollaborative:
		return "collaborative"
	case StrategyContent:
		return "content"
	case StrategyHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "collaborative":
		return StrategyCollaborative, nil
	case "content":
		return StrategyContent, nil
	case "hybrid":
		return StrategyHybrid, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", name)
	}
}

// ScoredMovie is one ranked recommendation.
type ScoredMovie struct {
	Movie catalog.Movie `json:"movie"`
	Score float64       `json:"score"`
}

// Request asks for recommendations from one seed movie.
type Request struct {
	// SeedID is the movie the recommendations are based on.
	SeedID int `json:"seed_id"`

	// Strategy picks the scorer. Exactly one scorer serves a request;
	// hybrid internally consults both.
	Strategy Strategy `json:"strategy"`

	// K is the number of recommendations to return. Defaults to the
	// engine's configured TopK when zero.
	K int `json:"k,omitempty"`
}

// Response is an ordered recommendation list with timing metadata.
type Response struct {
	Items    []ScoredMovie    `json:"items"`
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata carries observability fields for a single request.
type ResponseMetadata struct {
	SeedID    int       `json:"seed_id"`
	Strategy  string    `json:"strategy"`
	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// Algorithm is the interface both scorers implement. Train fits the scorer
// on an immutable catalog snapshot (and, for content scoring, the fitted
// vector space); Similar ranks up to k movies for a seed. An unknown seed or
// an empty cohort yields an empty list, never an error.
type Algorithm interface {
	// Name returns the algorithm identifier ("collaborative", "content").
	Name() string

	// Train fits the scorer. The snapshot and model must not be mutated
	// afterwards; a new dataset load means a fresh Train call.
	Train(ctx context.Context, snap *catalog.Snapshot, model *vectorize.Model) error

	// Similar returns up to k movies ranked for the seed, best first.
	Similar(ctx context.Context, seedID, k int) ([]ScoredMovie, error)

	// IsTrained reports whether Train has completed.
	IsTrained() bool
}
