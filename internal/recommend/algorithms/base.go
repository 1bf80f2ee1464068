// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package algorithms implements the two recommendation scorers: the
// collaborative lift-ratio scorer over the rating log and the content scorer
// over the TF-IDF vector space. Both implement recommend.Algorithm.
//
// Training acquires an exclusive lock while scoring uses a shared lock, so
// scorers are safe for concurrent read-only requests once trained.
package algorithms

import (
	"context"
	"sync"

	"github.com/LeQKhai/MovieRec/internal/recommend"
)

// BaseAlgorithm provides the shared train/predict locking and trained state.
type BaseAlgorithm struct {
	name    string
	trained bool
	mu      sync.RWMutex
}

// NewBaseAlgorithm creates a base with the given name.
func NewBaseAlgorithm(name string) BaseAlgorithm {
	return BaseAlgorithm{name: name}
}

// Name returns the algorithm identifier.
func (b *BaseAlgorithm) Name() string {
	return b.name
}

// IsTrained reports whether the scorer has been trained.
func (b *BaseAlgorithm) IsTrained() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.trained
}

// markTrained records completion. Caller must hold the train lock.
func (b *BaseAlgorithm) markTrained() {
	b.trained = true
}

func (b *BaseAlgorithm) acquireTrainLock()   { b.mu.Lock() }
func (b *BaseAlgorithm) releaseTrainLock()   { b.mu.Unlock() }
func (b *BaseAlgorithm) acquireScoreLock()   { b.mu.RLock() }
func (b *BaseAlgorithm) releaseScoreLock()   { b.mu.RUnlock() }

// contextCancelled checks whether ctx has been canceled without blocking.
func contextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Ensure both scorers implement the interface.
var (
	_ recommend.Algorithm = (*Collaborative)(nil)
	_ recommend.Algorithm = (*Content)(nil)
)
