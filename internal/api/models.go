// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package api

import (
	"time"

	"github.com/LeQKhai/MovieRec/internal/catalog"
)

// APIResponse is the standardized response wrapper used by all endpoints.
//
// Success:
//
//	{"status": "ok", "data": {...}, "metadata": {"timestamp": "..."}}
//
// Error:
//
//	{"status": "error", "error": {"code": "NOT_FOUND", "message": "..."},
//	 "metadata": {"timestamp": "..."}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response observability fields.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is a structured error with a machine-readable code.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MovieView is a catalog movie as rendered by the API, optionally enriched
// with a poster URL.
type MovieView struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Genres    []string `json:"genres"`
	AvgRating float64  `json:"avg_rating,omitempty"`
	NumVotes  int      `json:"num_votes,omitempty"`
	TagText   string   `json:"tag_text,omitempty"`
	PosterURL string   `json:"poster_url,omitempty"`
}

// RecommendationView is one ranked recommendation.
type RecommendationView struct {
	MovieView
	Score float64 `json:"score"`
}

func movieView(m catalog.Movie) MovieView {
	v := MovieView{
		ID:     m.ID,
		Title:  m.Title,
		Genres: m.Genres,
	}
	if m.HasRatings {
		v.AvgRating = m.AvgRating
		v.NumVotes = m.NumVotes
	}
	return v
}
