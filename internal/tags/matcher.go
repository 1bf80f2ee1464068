// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package tags implements tag-based movie discovery: exact and
// synonym-expanded search over per-movie tag text, and extraction of the
// meaningful tag vocabulary used to drive the search UI.
package tags

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/LeQKhai/MovieRec/internal/catalog"
	"github.com/LeQKhai/MovieRec/internal/metrics"
)

// MaxResults caps the ranked match list returned by a search.
const MaxResults = 10

// DefaultSynonyms returns the built-in synonym table used when the
// configuration does not override it. Keys are canonical tags; a query
// matching either side of an entry is expanded to the whole entry.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"war":     {"warfare", "military", "battle"},
		"comedy":  {"funny", "humor"},
		"sci-fi":  {"scifi", "science fiction", "futuristic"},
		"romance": {"love", "relationship"},
		"action":  {"fight", "adventure"},
		"drama":   {"emotional", "serious"},
	}
}

// Matcher searches the catalog's tag text. It is read-only after
// construction and safe for concurrent use.
type Matcher struct {
	snap     *catalog.Snapshot
	synonyms map[string][]string
	logger   zerolog.Logger
}

// NewMatcher creates a matcher over the snapshot. A nil synonym table means
// DefaultSynonyms.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMatcher(snap *catalog.Snapshot, synonyms map[string][]string, logger zerolog.Logger) *Matcher {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Matcher{
		snap:     snap,
		synonyms: synonyms,
		logger:   logger.With().Str("component", "tags").Logger(),
	}
}

// FindExact searches for the query as a whole word in each movie's tag text.
// When no movie matches on word boundaries it falls back to a plain
// substring search, and only then. The returned flag reports whether the
// fallback produced the results.
func (m *Matcher) FindExact(query string) ([]catalog.Movie, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		metrics.RecordTagSearch("exact", "empty")
		return nil, false
	}

	wordPattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(query) + `\b`)
	matched := m.collect(func(tagText string) bool {
		return wordPattern.MatchString(tagText)
	})

	fallback := false
	if len(matched) == 0 {
		fallback = true
		matched = m.collect(func(tagText string) bool {
			return strings.Contains(strings.ToLower(tagText), query)
		})
	}

	outcome := "matched"
	switch {
	case len(matched) == 0:
		outcome = "empty"
	case fallback:
		outcome = "fallback"
	}
	metrics.RecordTagSearch("exact", outcome)
	m.logger.Debug().
		Str("query", query).
		Bool("fallback", fallback).
		Int("matches", len(matched)).
		Msg("Exact tag search")

	return rank(matched), fallback
}

// Find searches for the query expanded through the synonym table: a query
// equal to a canonical tag picks up its synonyms, and a query equal to a
// synonym picks up the canonical tag and its siblings. All terms are plain
// case-insensitive substrings.
func (m *Matcher) Find(query string) []catalog.Movie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		metrics.RecordTagSearch("expanded", "empty")
		return nil
	}

	terms := m.expand(query)
	matched := m.collect(func(tagText string) bool {
		lower := strings.ToLower(tagText)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
		return false
	})

	outcome := "matched"
	if len(matched) == 0 {
		outcome = "empty"
	}
	metrics.RecordTagSearch("expanded", outcome)
	m.logger.Debug().
		Str("query", query).
		Strs("terms", terms).
		Int("matches", len(matched)).
		Msg("Expanded tag search")

	return rank(matched)
}

// expand returns the query plus its synonym family. The first entry that
// contains the query wins; expansion never recurses.
func (m *Matcher) expand(query string) []string {
	terms := []string{query}
	// Canonical keys are walked in sorted order so expansion is
	// deterministic when a word appears in more than one entry.
	keys := make([]string, 0, len(m.synonyms))
	for key := range m.synonyms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		synonyms := m.synonyms[key]
		if query == key {
			terms = append(terms, synonyms...)
			return terms
		}
		for _, syn := range synonyms {
			if query != syn {
				continue
			}
			terms = append(terms, key)
			for _, other := range synonyms {
				if other != syn {
					terms = append(terms, other)
				}
			}
			return terms
		}
	}
	return terms
}

// collect returns every movie whose tag text satisfies the predicate.
// Movies without tag text never match.
func (m *Matcher) collect(match func(string) bool) []catalog.Movie {
	var out []catalog.Movie
	for i := 0; i < m.snap.Len(); i++ {
		movie := m.snap.At(i)
		if movie.TagText == "" {
			continue
		}
		if match(movie.TagText) {
			out = append(out, movie)
		}
	}
	return out
}

// rank orders matches by average rating then vote count, both descending,
// with unrated movies after all rated ones, and caps the list at MaxResults.
func rank(matched []catalog.Movie) []catalog.Movie {
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.HasRatings != b.HasRatings {
			return a.HasRatings
		}
		if a.AvgRating != b.AvgRating {
			return a.AvgRating > b.AvgRating
		}
		return a.NumVotes > b.NumVotes
	})
	if len(matched) > MaxResults {
		matched = matched[:MaxResults]
	}
	return matched
}
