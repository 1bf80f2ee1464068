// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package algorithms

import (
	"context"
	"testing"

	"github.com/LeQKhai/MovieRec/internal/catalog"
	"github.com/LeQKhai/MovieRec/internal/dataset"
	"github.com/LeQKhai/MovieRec/internal/vectorize"
)

func taggedSnapshot(t *testing.T, movies []dataset.MovieRow, tags []dataset.TagRow) (*catalog.Snapshot, *vectorize.Model) {
	t.Helper()
	snap := catalog.Build(&dataset.Tables{Movies: movies, Tags: tags})
	return snap, vectorize.Fit(snap.TagTexts())
}

func trainContent(t *testing.T, movies []dataset.MovieRow, tags []dataset.TagRow) *Content {
	t.Helper()
	snap, model := taggedSnapshot(t, movies, tags)
	alg := NewContent()
	if err := alg.Train(context.Background(), snap, model); err != nil {
		t.Fatalf("Train: %v", err)
	}
	return alg
}

func TestContentSimilarRanksSharedTagsFirst(t *testing.T) {
	movies := []dataset.MovieRow{
		{MovieID: 1, Title: "Star Battles (1977)", Genres: "Sci-Fi"},
		{MovieID: 2, Title: "Galaxy Quest (1999)", Genres: "Sci-Fi"},
		{MovieID: 3, Title: "Garden Romance (2004)", Genres: "Romance"},
		{MovieID: 4, Title: "Space Cooking (2010)", Genres: "Comedy"},
	}
	tags := []dataset.TagRow{
		{UserID: 1, MovieID: 1, Tag: "space war epic"},
		{UserID: 2, MovieID: 2, Tag: "space war spoof"},
		{UserID: 3, MovieID: 3, Tag: "quiet love story"},
		{UserID: 4, MovieID: 4, Tag: "space kitchen"},
	}

	alg := trainContent(t, movies, tags)

	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results, want 3", len(got))
	}
	// Movie 2 shares the "space war" bigram with the seed and must beat
	// movie 4, which only shares the unigram "space".
	if got[0].Movie.ID != 2 {
		t.Errorf("top result = movie %d, want 2", got[0].Movie.ID)
	}
	if got[1].Movie.ID != 4 {
		t.Errorf("second result = movie %d, want 4", got[1].Movie.ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not descending at %d: %v then %v", i, got[i-1].Score, got[i].Score)
		}
	}
}

func TestContentSimilarNeverReturnsSeed(t *testing.T) {
	movies := []dataset.MovieRow{
		{MovieID: 1, Title: "Self (2000)", Genres: "Drama"},
		{MovieID: 2, Title: "Other (2001)", Genres: "Drama"},
	}
	tags := []dataset.TagRow{
		{UserID: 1, MovieID: 1, Tag: "identical twin tags"},
		{UserID: 1, MovieID: 2, Tag: "identical twin tags"},
	}

	alg := trainContent(t, movies, tags)

	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	for _, sm := range got {
		if sm.Movie.ID == 1 {
			t.Error("seed movie appeared in its own result")
		}
	}
	if len(got) != 1 || got[0].Movie.ID != 2 {
		t.Fatalf("got %v, want only movie 2", got)
	}
	if got[0].Score < 0.999 {
		t.Errorf("identical tag text scored %v, want ~1", got[0].Score)
	}
}

func TestContentZeroVectorSeedFallsBackToCorpusOrder(t *testing.T) {
	movies := []dataset.MovieRow{
		{MovieID: 10, Title: "Untagged (1990)", Genres: "Drama"},
		{MovieID: 11, Title: "First (1991)", Genres: "Drama"},
		{MovieID: 12, Title: "Second (1992)", Genres: "Drama"},
		{MovieID: 13, Title: "Third (1993)", Genres: "Drama"},
	}
	tags := []dataset.TagRow{
		{UserID: 1, MovieID: 11, Tag: "alpha"},
		{UserID: 1, MovieID: 12, Tag: "beta"},
		{UserID: 1, MovieID: 13, Tag: "gamma"},
	}

	alg := trainContent(t, movies, tags)

	// The seed has no tag text, so every similarity is zero and the result
	// is the remaining corpus in row order.
	got, err := alg.Similar(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Movie.ID != 11 || got[1].Movie.ID != 12 {
		t.Errorf("order = [%d %d], want [11 12]", got[0].Movie.ID, got[1].Movie.ID)
	}
	for _, sm := range got {
		if sm.Score != 0 {
			t.Errorf("movie %d scored %v, want 0", sm.Movie.ID, sm.Score)
		}
	}
}

func TestContentUnknownSeed(t *testing.T) {
	movies := []dataset.MovieRow{{MovieID: 1, Title: "Only (1999)", Genres: "Drama"}}
	alg := trainContent(t, movies, nil)

	got, err := alg.Similar(context.Background(), 42, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results for unknown seed, want 0", len(got))
	}
}

func TestContentUntrained(t *testing.T) {
	alg := NewContent()
	if alg.IsTrained() {
		t.Fatal("new scorer reports trained")
	}
	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if got != nil {
		t.Errorf("untrained scorer returned %v, want nil", got)
	}
}
