// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package vectorize implements the TF-IDF feature indexer over movie tag
// text. A single vocabulary is fitted across the whole corpus using unigrams
// and bigrams; each document becomes one l2-normalized sparse vector,
// positionally aligned with the input. Fitting is a pure function of the
// input documents: there is no incremental update path, a changed corpus
// means a full refit.
package vectorize

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern matches runs of two or more word characters, the same
// token definition scikit-learn's TfidfVectorizer defaults to.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Model is a fitted vector space: the shared vocabulary, per-term inverse
// document frequencies, and one vector per input document.
type Model struct {
	// Vocabulary maps each term (unigram or space-joined bigram) to its
	// vector index. Terms are assigned indices in sorted order, which makes
	// fitting deterministic.
	Vocabulary map[string]int

	// IDF holds the smoothed inverse document frequency per vocabulary
	// index: ln((1+n)/(1+df)) + 1.
	IDF []float64

	// Vectors holds one l2-normalized sparse vector per document,
	// positionally aligned with the fitted corpus. Documents with no
	// tokens get a zero vector.
	Vectors []Vector
}

// Dim returns the vocabulary size.
func (m *Model) Dim() int {
	return len(m.Vocabulary)
}

// Fit builds the vector space over the given documents. Empty documents are
// tolerated and produce zero vectors; an empty corpus produces an empty
// model. Fitting the same corpus twice yields identical models.
func Fit(docs []string) *Model {
	termDocs := make([][]string, len(docs))
	df := make(map[string]int)

	for i, doc := range docs {
		terms := ngrams(tokenize(doc))
		termDocs[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	m := &Model{
		Vocabulary: make(map[string]int, len(vocab)),
		IDF:        make([]float64, len(vocab)),
		Vectors:    make([]Vector, len(docs)),
	}
	n := float64(len(docs))
	for i, t := range vocab {
		m.Vocabulary[t] = i
		m.IDF[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	for i, terms := range termDocs {
		m.Vectors[i] = m.vectorize(terms)
	}

	return m
}

// vectorize turns a document's term list into an l2-normalized sparse vector.
func (m *Model) vectorize(terms []string) Vector {
	if len(terms) == 0 {
		return Vector{}
	}

	tf := make(map[int]float64, len(terms))
	for _, t := range terms {
		if idx, ok := m.Vocabulary[t]; ok {
			tf[idx]++
		}
	}
	if len(tf) == 0 {
		return Vector{}
	}

	v := Vector{
		Indices: make([]int, 0, len(tf)),
		Values:  make([]float64, 0, len(tf)),
	}
	for idx := range tf {
		v.Indices = append(v.Indices, idx)
	}
	sort.Ints(v.Indices)
	for _, idx := range v.Indices {
		v.Values = append(v.Values, tf[idx]*m.IDF[idx])
	}
	v.normalize()
	return v
}

// tokenize lowercases the document and extracts word tokens.
func tokenize(doc string) []string {
	return tokenPattern.FindAllString(strings.ToLower(doc), -1)
}

// ngrams expands a token list into unigrams plus contiguous bigrams.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
