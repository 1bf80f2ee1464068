// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package catalog builds and serves the joined movie table and the rating
// event log. A Snapshot is assembled once from the loaded dataset tables and
// is immutable afterwards; the host owns it and passes it by reference into
// the recommendation engine and tag matcher. There is no ambient global
// cache: rebuilding means constructing a new Snapshot.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/LeQKhai/MovieRec/internal/dataset"
	"github.com/LeQKhai/MovieRec/internal/logging"
)

// Movie is one row of the joined movie table. AvgRating and NumVotes are
// derived from the rating log; HasRatings is false for movies nobody rated.
// TagText is the space-joined concatenation of all user tags in source row
// order, always a string and never "missing".
type Movie struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Genres     []string `json:"genres"`
	TagText    string   `json:"tag_text"`
	AvgRating  float64  `json:"avg_rating"`
	NumVotes   int      `json:"num_votes"`
	HasRatings bool     `json:"has_ratings"`
	TMDBID     int64    `json:"tmdb_id"`
	HasTMDB    bool     `json:"has_tmdb"`
}

// Rating is one immutable rating event.
type Rating struct {
	UserID  int
	MovieID int
	Value   float64
}

// Snapshot is the catalog at one dataset load: the joined movie table plus
// the read-only rating log. Safe for concurrent reads once built.
type Snapshot struct {
	movies  []Movie
	ratings []Rating
	index   map[int]int // movie ID -> first row index
	genres  []string    // sorted distinct genre names
}

// Build joins the dataset tables into a Snapshot:
//   - links left-join on movie ID (missing crosswalk keeps HasTMDB false)
//   - rating aggregates grouped by movie ID (mean, count)
//   - tag text grouped by movie ID, concatenated in source row order
func Build(tables *dataset.Tables) *Snapshot {
	start := time.Now()

	links := make(map[int]dataset.LinkRow, len(tables.Links))
	for _, l := range tables.Links {
		if _, ok := links[l.MovieID]; !ok {
			links[l.MovieID] = l
		}
	}

	type agg struct {
		sum   float64
		count int
	}
	aggs := make(map[int]*agg)
	for _, r := range tables.Ratings {
		a := aggs[r.MovieID]
		if a == nil {
			a = &agg{}
			aggs[r.MovieID] = a
		}
		a.sum += r.Rating
		a.count++
	}

	tagText := make(map[int]*strings.Builder)
	for _, t := range tables.Tags {
		b := tagText[t.MovieID]
		if b == nil {
			b = &strings.Builder{}
			tagText[t.MovieID] = b
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Tag)
	}

	snap := &Snapshot{
		movies: make([]Movie, 0, len(tables.Movies)),
		index:  make(map[int]int, len(tables.Movies)),
	}
	genreSet := make(map[string]struct{})

	for _, row := range tables.Movies {
		m := Movie{
			ID:     row.MovieID,
			Title:  row.Title,
			Genres: splitGenres(row.Genres),
		}
		if l, ok := links[row.MovieID]; ok && l.HasTMDB {
			m.TMDBID = l.TMDBID
			m.HasTMDB = true
		}
		if a, ok := aggs[row.MovieID]; ok && a.count > 0 {
			m.AvgRating = a.sum / float64(a.count)
			m.NumVotes = a.count
			m.HasRatings = true
		}
		if b, ok := tagText[row.MovieID]; ok {
			m.TagText = b.String()
		}
		for _, g := range m.Genres {
			genreSet[g] = struct{}{}
		}

		if _, ok := snap.index[m.ID]; !ok {
			snap.index[m.ID] = len(snap.movies)
		}
		snap.movies = append(snap.movies, m)
	}

	snap.ratings = make([]Rating, len(tables.Ratings))
	for i, r := range tables.Ratings {
		snap.ratings[i] = Rating{UserID: r.UserID, MovieID: r.MovieID, Value: r.Rating}
	}

	snap.genres = make([]string, 0, len(genreSet))
	for g := range genreSet {
		snap.genres = append(snap.genres, g)
	}
	sort.Strings(snap.genres)

	logging.Info().
		Str("component", "catalog").
		Int("movies", len(snap.movies)).
		Int("ratings", len(snap.ratings)).
		Int("genres", len(snap.genres)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("catalog snapshot built")

	return snap
}

func splitGenres(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "|")
	genres := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			genres = append(genres, p)
		}
	}
	return genres
}

// Movies returns the joined movie table in source row order. Callers must
// treat the slice as read-only.
func (s *Snapshot) Movies() []Movie {
	return s.movies
}

// Ratings returns the rating event log. Read-only.
func (s *Snapshot) Ratings() []Rating {
	return s.ratings
}

// Len returns the number of movie rows.
func (s *Snapshot) Len() int {
	return len(s.movies)
}

// MovieByID returns the movie with the given ID (first row wins for
// duplicate IDs) and whether it exists.
func (s *Snapshot) MovieByID(id int) (Movie, bool) {
	i, ok := s.index[id]
	if !ok {
		return Movie{}, false
	}
	return s.movies[i], true
}

// IndexOf returns the first row index of the given movie ID.
func (s *Snapshot) IndexOf(id int) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// At returns the movie at row index i.
func (s *Snapshot) At(i int) Movie {
	return s.movies[i]
}

// TagTexts returns every movie's tag text, positionally aligned with
// Movies(). This is the corpus the feature indexer is fitted on.
func (s *Snapshot) TagTexts() []string {
	docs := make([]string, len(s.movies))
	for i, m := range s.movies {
		docs[i] = m.TagText
	}
	return docs
}

// Genres returns the sorted distinct genre names across the catalog.
func (s *Snapshot) Genres() []string {
	return s.genres
}

// TopByGenre returns up to n movies whose genre list matches the query
// case-insensitively, ordered by vote count then average rating, both
// descending. Movies without ratings sort last.
func (s *Snapshot) TopByGenre(genre string, n int) []Movie {
	q := strings.ToLower(strings.TrimSpace(genre))
	if q == "" || n <= 0 {
		return nil
	}

	var matched []Movie
	for _, m := range s.movies {
		for _, g := range m.Genres {
			if strings.Contains(strings.ToLower(g), q) {
				matched = append(matched, m)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].NumVotes != matched[j].NumVotes {
			return matched[i].NumVotes > matched[j].NumVotes
		}
		return matched[i].AvgRating > matched[j].AvgRating
	})

	if len(matched) > n {
		matched = matched[:n]
	}
	return matched
}
