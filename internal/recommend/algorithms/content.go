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

// Content implements content-based scoring over the TF-IDF vector space
// fitted on movie tag text. Similarity between two movies is the cosine of
// their tag vectors; the vectors are l2-normalized at fit time, so this is a
// plain dot product.
type Content struct {
	BaseAlgorithm

	snap  *catalog.Snapshot
	model *vectorize.Model
}

// NewContent creates the content scorer.
func NewContent() *Content {
	return &Content{
		BaseAlgorithm: NewBaseAlgorithm("content"),
	}
}

// Train stores the snapshot and fitted vector space. Vectors are positionally
// aligned with the snapshot's movie rows.
func (c *Content) Train(ctx context.Context, snap *catalog.Snapshot, model *vectorize.Model) error {
	c.acquireTrainLock()
	defer c.releaseTrainLock()

	if contextCancelled(ctx) {
		return ctx.Err()
	}

	c.snap = snap
	c.model = model
	c.markTrained()
	return nil
}

// Similar ranks up to k movies by cosine similarity to the seed's vector.
// The seed row itself is excluded by position, not by identifier: a true
// duplicate row of the seed movie can appear in the result. A seed with no
// tag text has a zero vector, every similarity is 0, and the result is the
// first k rows in corpus order.
func (c *Content) Similar(ctx context.Context, seedID, k int) ([]recommend.ScoredMovie, error) {
	c.acquireScoreLock()
	defer c.releaseScoreLock()

	if !c.trained || k <= 0 {
		return nil, nil
	}

	seedIdx, ok := c.snap.IndexOf(seedID)
	if !ok {
		return nil, nil
	}
	seedVec := c.model.Vectors[seedIdx]

	type rowSim struct {
		row int
		sim float64
	}
	sims := make([]rowSim, 0, c.snap.Len()-1)
	for row := 0; row < c.snap.Len(); row++ {
		if row == seedIdx {
			continue
		}
		if row%1024 == 0 && contextCancelled(ctx) {
			return nil, ctx.Err()
		}
		sims = append(sims, rowSim{row: row, sim: vectorize.Dot(seedVec, c.model.Vectors[row])})
	}

	// Descending similarity; ties keep corpus order.
	sort.SliceStable(sims, func(i, j int) bool {
		return sims[i].sim > sims[j].sim
	})

	if len(sims) > k {
		sims = sims[:k]
	}
	scored := make([]recommend.ScoredMovie, len(sims))
	for i, rs := range sims {
		scored[i] = recommend.ScoredMovie{Movie: c.snap.At(rs.row), Score: rs.sim}
	}
	return scored, nil
}
