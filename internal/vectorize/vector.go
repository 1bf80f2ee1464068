// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package vectorize

import "math"

// Vector is a sparse weighted-term vector. Indices are vocabulary positions
// in strictly increasing order; Values holds the weight at each index.
type Vector struct {
	Indices []int
	Values  []float64
}

// IsZero reports whether the vector has no non-zero components.
func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Dot computes the dot product of two sparse vectors with a merge walk.
func Dot(a, b Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Cosine computes cosine similarity between two vectors. Vectors produced by
// the vectorizer are already l2-normalized, so for those this equals Dot.
// Cosine stays correct for unnormalized input and returns 0 when either
// vector is zero.
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	return Dot(a, b) / (na * nb)
}

// normalize scales the vector to unit length in place. Zero vectors are
// left untouched.
func (v Vector) normalize() {
	n := v.Norm()
	if n == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= n
	}
}
