// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package catalog

import (
	"math"
	"reflect"
	"testing"

	"github.com/LeQKhai/MovieRec/internal/dataset"
)

func testTables() *dataset.Tables {
	return &dataset.Tables{
		Movies: []dataset.MovieRow{
			{MovieID: 1, Title: "The Matrix (1999)", Genres: "Action|Sci-Fi"},
			{MovieID: 2, Title: "Inception", Genres: "Action|Thriller"},
			{MovieID: 3, Title: "Untagged", Genres: ""},
		},
		Ratings: []dataset.RatingRow{
			{UserID: 10, MovieID: 1, Rating: 5.0},
			{UserID: 11, MovieID: 1, Rating: 4.0},
			{UserID: 10, MovieID: 2, Rating: 3.0},
		},
		Links: []dataset.LinkRow{
			{MovieID: 1, TMDBID: 603, HasTMDB: true},
			{MovieID: 3, HasTMDB: false},
		},
		Tags: []dataset.TagRow{
			{UserID: 10, MovieID: 1, Tag: "sci-fi"},
			{UserID: 11, MovieID: 1, Tag: "dystopia"},
			{UserID: 10, MovieID: 2, Tag: "dreams"},
		},
	}
}

func TestBuildJoins(t *testing.T) {
	snap := Build(testTables())

	if snap.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", snap.Len())
	}

	m1, ok := snap.MovieByID(1)
	if !ok {
		t.Fatal("MovieByID(1) not found")
	}
	if !m1.HasTMDB || m1.TMDBID != 603 {
		t.Errorf("tmdb join: %+v", m1)
	}
	if !m1.HasRatings || m1.NumVotes != 2 || math.Abs(m1.AvgRating-4.5) > 1e-9 {
		t.Errorf("rating aggregates: %+v", m1)
	}
	if m1.TagText != "sci-fi dystopia" {
		t.Errorf("TagText = %q, want tags joined in row order", m1.TagText)
	}
	if !reflect.DeepEqual(m1.Genres, []string{"Action", "Sci-Fi"}) {
		t.Errorf("Genres = %v", m1.Genres)
	}
}

func TestBuildLeftJoinDefaults(t *testing.T) {
	snap := Build(testTables())

	m3, _ := snap.MovieByID(3)
	if m3.HasTMDB {
		t.Error("movie without crosswalk entry should have HasTMDB false")
	}
	if m3.HasRatings || m3.NumVotes != 0 {
		t.Errorf("movie with zero ratings: %+v", m3)
	}
	if m3.TagText != "" {
		t.Errorf("TagText = %q, want empty string, never missing", m3.TagText)
	}
}

func TestMovieByIDUnknown(t *testing.T) {
	snap := Build(testTables())
	if _, ok := snap.MovieByID(999); ok {
		t.Error("MovieByID(999) = ok, want not found")
	}
}

func TestTagTextsAlignment(t *testing.T) {
	snap := Build(testTables())
	docs := snap.TagTexts()
	want := []string{"sci-fi dystopia", "dreams", ""}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("TagTexts() = %v, want %v", docs, want)
	}
}

func TestGenres(t *testing.T) {
	snap := Build(testTables())
	want := []string{"Action", "Sci-Fi", "Thriller"}
	if !reflect.DeepEqual(snap.Genres(), want) {
		t.Errorf("Genres() = %v, want %v", snap.Genres(), want)
	}
}

func TestTopByGenre(t *testing.T) {
	snap := Build(testTables())

	top := snap.TopByGenre("action", 10)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	// Movie 1 has more votes than movie 2.
	if top[0].ID != 1 || top[1].ID != 2 {
		t.Errorf("order = [%d %d], want [1 2]", top[0].ID, top[1].ID)
	}

	if got := snap.TopByGenre("action", 1); len(got) != 1 {
		t.Errorf("limit not applied: len = %d", len(got))
	}
	if got := snap.TopByGenre("", 5); got != nil {
		t.Errorf("empty query should return nil, got %v", got)
	}
	if got := snap.TopByGenre("western", 5); len(got) != 0 {
		t.Errorf("unknown genre should match nothing, got %v", got)
	}
}

func TestDuplicateRatingsDoubleCount(t *testing.T) {
	tables := testTables()
	// Same (user, movie) pair twice: source log duplicates are not deduplicated.
	tables.Ratings = append(tables.Ratings, dataset.RatingRow{UserID: 10, MovieID: 2, Rating: 5.0})

	snap := Build(tables)
	m2, _ := snap.MovieByID(2)
	if m2.NumVotes != 2 {
		t.Errorf("NumVotes = %d, want 2 (duplicates double-count)", m2.NumVotes)
	}
	if math.Abs(m2.AvgRating-4.0) > 1e-9 {
		t.Errorf("AvgRating = %v, want 4.0", m2.AvgRating)
	}
}
