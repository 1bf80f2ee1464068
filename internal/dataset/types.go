// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package dataset loads the four MovieLens-shaped CSV tables the catalog is
// built from: movies, ratings, links and tags. Schema validation happens
// here, once, at the load boundary; every downstream consumer works with
// typed rows.
package dataset

import "fmt"

// MovieRow is one row of the movies table.
type MovieRow struct {
	MovieID int
	Title   string
	Genres  string
}

// RatingRow is one row of the ratings table. Duplicate (user, movie) pairs
// are kept as-is; aggregates downstream will double-count them.
type RatingRow struct {
	UserID  int
	MovieID int
	Rating  float64
}

// LinkRow maps a movie to its external TMDB identifier. HasTMDB is false for
// movies without a crosswalk entry or with an empty tmdbId cell.
type LinkRow struct {
	MovieID int
	TMDBID  int64
	HasTMDB bool
}

// TagRow is one user-supplied tag for a movie, already encoding-repaired.
type TagRow struct {
	UserID  int
	MovieID int
	Tag     string
}

// Tables holds the four loaded tables in source row order.
type Tables struct {
	Movies  []MovieRow
	Ratings []RatingRow
	Links   []LinkRow
	Tags    []TagRow
}

// SchemaError reports a required column missing from a table header.
// It is fatal at load time and never partially recovered.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset table %s: missing required column %q", e.Table, e.Column)
}

// Required column names per table.
var (
	movieColumns  = []string{"movieId", "title", "genres"}
	ratingColumns = []string{"userId", "movieId", "rating"}
	linkColumns   = []string{"movieId", "tmdbId"}
	tagColumns    = []string{"userId", "movieId", "tag"}
)
