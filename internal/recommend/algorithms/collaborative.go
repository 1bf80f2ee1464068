// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package algorithms

import (
	"context"
	"sort"

	"github.com/LeQKhai/MovieRec/internal/catalog"
	"github.com/LeQKhai/MovieRec/internal/recommend"
	"github.com/LeQKhai/MovieRec/internal/vectorize"
)

// Collaborative implements neighbor-based scoring from the rating log.
//
// For a seed movie it finds the cohort of users who liked the seed, collects
// everything that cohort liked, and scores each candidate by a lift ratio:
//
//	score(m) = similar_fraction(m) / all_fraction(m)
//
// where similar_fraction is how often the cohort liked m and all_fraction is
// how often a broader audience (everyone who liked any candidate) liked m.
// Movies strongly over-represented among the seed's fans rank first.
type Collaborative struct {
	BaseAlgorithm
	cfg CollaborativeConfig

	snap *catalog.Snapshot

	// likedByMovie maps a movie to the user IDs of its liking ratings, in
	// log order. Duplicate log rows stay duplicated: the source log is
	// taken verbatim and aggregates double-count.
	likedByMovie map[int][]int

	// likedByUser maps a user to the movie IDs of their liking ratings,
	// in log order.
	likedByUser map[int][]int
}

// CollaborativeConfig contains configuration for the collaborative scorer.
type CollaborativeConfig struct {
	// LikeThreshold is the rating value a "like" must strictly exceed.
	LikeThreshold float64

	// MinSimilarFraction is the cohort-fraction cutoff a candidate must
	// strictly exceed to stay in the running.
	MinSimilarFraction float64
}

// DefaultCollaborativeConfig returns the standard thresholds: a like is a
// rating above 4, and candidates need more than 10% cohort support.
func DefaultCollaborativeConfig() CollaborativeConfig {
	return CollaborativeConfig{
		LikeThreshold:      4.0,
		MinSimilarFraction: 0.1,
	}
}

// NewCollaborative creates the collaborative scorer.
func NewCollaborative(cfg CollaborativeConfig) *Collaborative {
	if cfg.LikeThreshold == 0 {
		cfg.LikeThreshold = 4.0
	}
	if cfg.MinSimilarFraction == 0 {
		cfg.MinSimilarFraction = 0.1
	}
	return &Collaborative{
		BaseAlgorithm: NewBaseAlgorithm("collaborative"),
		cfg:           cfg,
	}
}

// Train indexes the liking ratings by movie and by user. The vector space
// model is unused by this scorer.
func (c *Collaborative) Train(ctx context.Context, snap *catalog.Snapshot, _ *vectorize.Model) error {
	c.acquireTrainLock()
	defer c.releaseTrainLock()

	if contextCancelled(ctx) {
		return ctx.Err()
	}

	c.snap = snap
	c.likedByMovie = make(map[int][]int)
	c.likedByUser = make(map[int][]int)

	for _, r := range snap.Ratings() {
		if r.Value > c.cfg.LikeThreshold {
			c.likedByMovie[r.MovieID] = append(c.likedByMovie[r.MovieID], r.UserID)
			c.likedByUser[r.UserID] = append(c.likedByUser[r.UserID], r.MovieID)
		}
	}

	c.markTrained()
	return nil
}

// Similar ranks up to k movies for the seed. An unknown seed, an empty
// cohort, or an empty candidate set all yield an empty list with nil error.
func (c *Collaborative) Similar(ctx context.Context, seedID, k int) ([]recommend.ScoredMovie, error) {
	c.acquireScoreLock()
	defer c.releaseScoreLock()

	if !c.trained || k <= 0 {
		return nil, nil
	}

	// Step 1: the cohort of distinct users who liked the seed.
	cohort := distinct(c.likedByMovie[seedID])
	if len(cohort) == 0 {
		return nil, nil
	}

	// Step 2: everything the cohort liked, with the fraction of the cohort
	// behind each candidate. Candidate order is first appearance in the
	// cohort's like lists, which keeps tie-breaks stable.
	candidates, cohortLikes := cohortCandidates(cohort, c.likedByUser)

	kept := candidates[:0]
	similarFraction := make(map[int]float64, len(candidates))
	for _, movieID := range candidates {
		if contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		frac := float64(cohortLikes[movieID]) / float64(len(cohort))
		if frac > c.cfg.MinSimilarFraction {
			kept = append(kept, movieID)
			similarFraction[movieID] = frac
		}
	}
	if len(kept) == 0 {
		return nil, nil
	}

	// Step 3: the broader audience is every distinct user who liked any
	// kept candidate; all_fraction is each candidate's share of it.
	audienceSize := c.audienceSize(kept)
	if audienceSize == 0 {
		return nil, nil
	}

	// Step 4: lift ratio.
	scored := make([]recommend.ScoredMovie, 0, len(kept))
	for _, movieID := range kept {
		if movieID == seedID {
			continue
		}
		allFraction := float64(len(c.likedByMovie[movieID])) / float64(audienceSize)
		if allFraction == 0 {
			continue
		}
		movie, ok := c.snap.MovieByID(movieID)
		if !ok {
			// Rating rows for movies missing from the movie table drop
			// out of the join.
			continue
		}
		scored = append(scored, recommend.ScoredMovie{
			Movie: movie,
			Score: similarFraction[movieID] / allFraction,
		})
	}

	// Step 5: descending by score, ties keep candidate order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// cohortCandidates walks the cohort's like lists, returning candidate movie
// IDs in first-appearance order and the per-movie count of cohort likes
// (log rows, so duplicates count twice).
func cohortCandidates(cohort []int, likedByUser map[int][]int) ([]int, map[int]int) {
	var order []int
	counts := make(map[int]int)
	for _, userID := range cohort {
		for _, movieID := range likedByUser[userID] {
			if counts[movieID] == 0 {
				order = append(order, movieID)
			}
			counts[movieID]++
		}
	}
	return order, counts
}

// audienceSize counts distinct users who liked any of the given movies.
func (c *Collaborative) audienceSize(movieIDs []int) int {
	users := make(map[int]struct{})
	for _, movieID := range movieIDs {
		for _, userID := range c.likedByMovie[movieID] {
			users[userID] = struct{}{}
		}
	}
	return len(users)
}

// distinct removes duplicates preserving first-appearance order.
func distinct(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
