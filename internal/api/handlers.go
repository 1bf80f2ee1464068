// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package api provides the HTTP surface of the recommendation service.
package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/LeQKhai/MovieRec/internal/catalog"
	"github.com/LeQKhai/MovieRec/internal/recommend"
	"github.com/LeQKhai/MovieRec/internal/tags"
	"github.com/LeQKhai/MovieRec/internal/tmdb"
)

const (
	defaultMovieLimit = 50
	maxMovieLimit     = 500
	defaultTopN       = 10
)

// Handler serves all API endpoints.
type Handler struct {
	snap        *catalog.Snapshot
	byTitle     []catalog.Movie
	engine      *recommend.Engine
	matcher     *tags.Matcher
	posters     *tmdb.Client
	tagMinCount int
	validate    *validator.Validate
	started     time.Time
}

// NewHandler creates the API handler. tagMinCount is the vocabulary cutoff
// used when a tags request carries no min_count parameter; values below one
// fall back to the package default.
func NewHandler(snap *catalog.Snapshot, engine *recommend.Engine, matcher *tags.Matcher, posters *tmdb.Client, tagMinCount int) *Handler {
	byTitle := make([]catalog.Movie, snap.Len())
	copy(byTitle, snap.Movies())
	sort.SliceStable(byTitle, func(i, j int) bool {
		return strings.ToLower(byTitle[i].Title) < strings.ToLower(byTitle[j].Title)
	})

	return &Handler{
		snap:        snap,
		byTitle:     byTitle,
		engine:      engine,
		matcher:     matcher,
		posters:     posters,
		tagMinCount: tagMinCount,
		validate:    validator.New(),
		started:     time.Now(),
	}
}

// Health reports service liveness and model state.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"trained":        h.engine.IsTrained(),
		"movies":         h.snap.Len(),
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	}, 0)
}

// Movies lists catalog movies in title order with optional title filtering
// and paging.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := queryInt(r, "limit", defaultMovieLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	if limit < 1 || limit > maxMovieLimit || offset < 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be 1-500 and offset non-negative", nil)
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	var views []MovieView
	total := 0
	for _, movie := range h.byTitle {
		if query != "" && !strings.Contains(strings.ToLower(movie.Title), query) {
			continue
		}
		if total >= offset && len(views) < limit {
			views = append(views, movieView(movie))
		}
		total++
	}
	if views == nil {
		views = []MovieView{}
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"movies": views,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}, time.Since(start))
}

// Movie returns a single catalog movie, enriched with its poster when
// lookups are configured.
func (h *Handler) Movie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := queryIntParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "movie id must be an integer", nil)
		return
	}

	movie, ok := h.snap.MovieByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "movie not found", nil)
		return
	}

	view := movieView(movie)
	view.TagText = movie.TagText
	if movie.HasTMDB {
		view.PosterURL = h.posters.PosterURL(r.Context(), movie.TMDBID)
	}

	respondData(w, http.StatusOK, view, time.Since(start))
}

// recommendQuery is the validated query surface of the recommendations
// endpoint.
type recommendQuery struct {
	Strategy string `validate:"omitempty,oneof=collaborative content hybrid"`
	K        int    `validate:"omitempty,min=1,max=50"`
}

// Recommendations answers GET /movies/{id}/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	id, err := queryIntParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "movie id must be an integer", nil)
		return
	}

	k, err := queryInt(r, "k", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	q := recommendQuery{
		Strategy: r.URL.Query().Get("strategy"),
		K:        k,
	}
	if err := h.validate.Struct(q); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "strategy must be collaborative, content, or hybrid; k must be 1-50", err)
		return
	}

	strategy := recommend.StrategyHybrid
	if q.Strategy != "" {
		strategy, _ = recommend.ParseStrategy(q.Strategy)
	}

	if _, ok := h.snap.MovieByID(id); !ok {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "movie not found", nil)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		SeedID:   id,
		Strategy: strategy,
		K:        q.K,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "ENGINE_ERROR", "recommendation failed", err)
		return
	}

	views := make([]RecommendationView, len(resp.Items))
	for i, item := range resp.Items {
		views[i] = RecommendationView{MovieView: movieView(item.Movie), Score: item.Score}
		if item.Movie.HasTMDB {
			views[i].PosterURL = h.posters.PosterURL(r.Context(), item.Movie.TMDBID)
		}
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"seed_id":         resp.Metadata.SeedID,
		"strategy":        resp.Metadata.Strategy,
		"recommendations": views,
	}, time.Duration(resp.Metadata.LatencyMS)*time.Millisecond)
}

// Genres lists the distinct genres in the catalog.
func (h *Handler) Genres(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondData(w, http.StatusOK, map[string]interface{}{
		"genres": h.snap.Genres(),
	}, time.Since(start))
}

// TopByGenre returns the most-voted movies of a genre.
func (h *Handler) TopByGenre(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	genre := chi.URLParam(r, "genre")
	if genre == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "genre is required", nil)
		return
	}
	n, err := queryInt(r, "limit", defaultTopN)
	if err != nil || n < 1 || n > 100 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be 1-100", nil)
		return
	}

	movies := h.snap.TopByGenre(genre, n)
	views := make([]MovieView, len(movies))
	for i, movie := range movies {
		views[i] = movieView(movie)
		if movie.HasTMDB {
			views[i].PosterURL = h.posters.PosterURL(r.Context(), movie.TMDBID)
		}
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"genre":  genre,
		"movies": views,
	}, time.Since(start))
}

// Tags returns the meaningful tag vocabulary.
func (h *Handler) Tags(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	minCount, err := queryInt(r, "min_count", h.tagMinCount)
	if err != nil || minCount < 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "min_count must be a non-negative integer", nil)
		return
	}

	vocab := h.matcher.MeaningfulTags(minCount)
	respondData(w, http.StatusOK, map[string]interface{}{
		"tags": vocab,
	}, time.Since(start))
}

// TagSearch finds movies by tag. With exact=true the query must match on
// word boundaries, falling back to substrings only when nothing matches;
// otherwise the query is expanded through the synonym table.
func (h *Handler) TagSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "q is required", nil)
		return
	}

	exact := r.URL.Query().Get("exact") == "true"

	var (
		matched  []catalog.Movie
		fallback bool
	)
	if exact {
		matched, fallback = h.matcher.FindExact(query)
	} else {
		matched = h.matcher.Find(query)
	}

	views := make([]MovieView, len(matched))
	for i, movie := range matched {
		views[i] = movieView(movie)
		views[i].TagText = movie.TagText
		if movie.HasTMDB {
			views[i].PosterURL = h.posters.PosterURL(r.Context(), movie.TMDBID)
		}
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"query":    query,
		"exact":    exact,
		"fallback": fallback,
		"movies":   views,
	}, time.Since(start))
}
