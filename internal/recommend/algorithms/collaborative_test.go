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
)

func snapshotFrom(t *testing.T, movies []dataset.MovieRow, ratings []dataset.RatingRow) *catalog.Snapshot {
	t.Helper()
	return catalog.Build(&dataset.Tables{Movies: movies, Ratings: ratings})
}

func TestCollaborativeSimilar(t *testing.T) {
	movies := []dataset.MovieRow{
		{MovieID: 1, Title: "Seed (1999)", Genres: "Action"},
		{MovieID: 2, Title: "Cohort Favorite (2000)", Genres: "Action"},
		{MovieID: 3, Title: "Broad Hit (2001)", Genres: "Comedy"},
		{MovieID: 4, Title: "Fringe Pick (2002)", Genres: "Drama"},
	}
	// Users 10 and 11 like the seed; both also like movie 2, user 10 likes
	// movie 3. Users 20..24 like movie 3 without liking the seed, which
	// dilutes its lift.
	ratings := []dataset.RatingRow{
		{UserID: 10, MovieID: 1, Rating: 5},
		{UserID: 11, MovieID: 1, Rating: 4.5},
		{UserID: 10, MovieID: 2, Rating: 5},
		{UserID: 11, MovieID: 2, Rating: 5},
		{UserID: 10, MovieID: 3, Rating: 4.5},
		{UserID: 20, MovieID: 3, Rating: 5},
		{UserID: 21, MovieID: 3, Rating: 5},
		{UserID: 22, MovieID: 3, Rating: 5},
		{UserID: 23, MovieID: 3, Rating: 4.5},
		{UserID: 24, MovieID: 3, Rating: 5},
		{UserID: 30, MovieID: 4, Rating: 3},
	}

	alg := NewCollaborative(DefaultCollaborativeConfig())
	if err := alg.Train(context.Background(), snapshotFrom(t, movies, ratings), nil); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if !alg.IsTrained() {
		t.Fatal("expected trained after Train")
	}

	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].Movie.ID != 2 {
		t.Errorf("top result = movie %d, want 2 (fully backed by the cohort)", got[0].Movie.ID)
	}
	if got[1].Movie.ID != 3 {
		t.Errorf("second result = movie %d, want 3", got[1].Movie.ID)
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not descending: %v then %v", got[0].Score, got[1].Score)
	}
	for _, sm := range got {
		if sm.Movie.ID == 1 {
			t.Error("seed movie leaked into its own recommendations")
		}
	}
}

func TestCollaborativeEmptyCohort(t *testing.T) {
	movies := []dataset.MovieRow{
		{MovieID: 1, Title: "Unloved (1999)", Genres: "Drama"},
		{MovieID: 2, Title: "Other (2000)", Genres: "Drama"},
	}
	// Nobody rates the seed above the like threshold.
	ratings := []dataset.RatingRow{
		{UserID: 10, MovieID: 1, Rating: 4},
		{UserID: 10, MovieID: 2, Rating: 5},
	}

	alg := NewCollaborative(DefaultCollaborativeConfig())
	if err := alg.Train(context.Background(), snapshotFrom(t, movies, ratings), nil); err != nil {
		t.Fatalf("Train: %v", err)
	}

	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results for seed with empty cohort, want 0", len(got))
	}
}

func TestCollaborativeUnknownSeed(t *testing.T) {
	alg := NewCollaborative(DefaultCollaborativeConfig())
	snap := snapshotFrom(t,
		[]dataset.MovieRow{{MovieID: 1, Title: "Only (1999)", Genres: "Drama"}},
		[]dataset.RatingRow{{UserID: 10, MovieID: 1, Rating: 5}},
	)
	if err := alg.Train(context.Background(), snap, nil); err != nil {
		t.Fatalf("Train: %v", err)
	}

	got, err := alg.Similar(context.Background(), 999, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d results for unknown seed, want 0", len(got))
	}
}

func TestCollaborativeMinSimilarFractionCutoff(t *testing.T) {
	movies := []dataset.MovieRow{
		{MovieID: 1, Title: "Seed (1999)", Genres: "Action"},
		{MovieID: 2, Title: "Popular (2000)", Genres: "Action"},
		{MovieID: 3, Title: "Marginal (2001)", Genres: "Action"},
	}
	// Ten users like the seed. All ten like movie 2, only one likes
	// movie 3: 10% support does not strictly exceed the 10% cutoff.
	var ratings []dataset.RatingRow
	for u := 1; u <= 10; u++ {
		ratings = append(ratings,
			dataset.RatingRow{UserID: u, MovieID: 1, Rating: 5},
			dataset.RatingRow{UserID: u, MovieID: 2, Rating: 5},
		)
	}
	ratings = append(ratings, dataset.RatingRow{UserID: 1, MovieID: 3, Rating: 5})

	alg := NewCollaborative(DefaultCollaborativeConfig())
	if err := alg.Train(context.Background(), snapshotFrom(t, movies, ratings), nil); err != nil {
		t.Fatalf("Train: %v", err)
	}

	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Movie.ID != 2 {
		t.Errorf("got movie %d, want 2; movie 3 should fall under the support cutoff", got[0].Movie.ID)
	}
}

func TestCollaborativeDuplicateRatingRowsDoubleCount(t *testing.T) {
	movies := []dataset.MovieRow{
		{MovieID: 1, Title: "Seed (1999)", Genres: "Action"},
		{MovieID: 2, Title: "Twice Logged (2000)", Genres: "Action"},
		{MovieID: 3, Title: "Once Logged (2001)", Genres: "Action"},
	}
	// User 10's like of movie 2 appears twice in the log. The cohort is
	// {10, 11}, so movie 2 gets 2/2 cohort support against movie 3's 1/2,
	// while its all_fraction doubles too. The duplicated row must survive
	// into both counts rather than being deduplicated away.
	ratings := []dataset.RatingRow{
		{UserID: 10, MovieID: 1, Rating: 5},
		{UserID: 11, MovieID: 1, Rating: 5},
		{UserID: 10, MovieID: 2, Rating: 5},
		{UserID: 10, MovieID: 2, Rating: 5},
		{UserID: 11, MovieID: 3, Rating: 5},
	}

	alg := NewCollaborative(DefaultCollaborativeConfig())
	if err := alg.Train(context.Background(), snapshotFrom(t, movies, ratings), nil); err != nil {
		t.Fatalf("Train: %v", err)
	}

	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	// The audience for {1,2,3} is users {10,11}. Movie 2: similar 2/2=1.0,
	// all 2/2=1.0, lift 1.0. Movie 3: similar 1/2=0.5, all 1/2=0.5,
	// lift 1.0. Tied lifts keep first-appearance order: movie 2 first.
	if got[0].Movie.ID != 2 || got[1].Movie.ID != 3 {
		t.Errorf("order = [%d %d], want [2 3]", got[0].Movie.ID, got[1].Movie.ID)
	}
	if got[0].Score != got[1].Score {
		t.Errorf("scores %v and %v, want equal lifts", got[0].Score, got[1].Score)
	}
}

func TestCollaborativeUntrained(t *testing.T) {
	alg := NewCollaborative(DefaultCollaborativeConfig())
	got, err := alg.Similar(context.Background(), 1, 5)
	if err != nil {
		t.Fatalf("Similar: %v", err)
	}
	if got != nil {
		t.Errorf("untrained scorer returned %v, want nil", got)
	}
}
