// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package tags

import (
	"sort"
	"strings"
)

const (
	// DefaultMinCount is the corpus frequency a tag needs to count as
	// meaningful.
	DefaultMinCount = 5

	// maxMeaningful caps the extracted vocabulary.
	maxMeaningful = 50

	// maxPerGroup caps tags sharing a head word.
	maxPerGroup = 3
)

// TagCount is one vocabulary entry with its corpus frequency.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// MeaningfulTags extracts the tag vocabulary for the search UI: whitespace
// tokens of every movie's tag text, lowercased, with stopwords, short
// tokens, pure numbers, and rare tokens dropped. Tags sharing a head word
// (the last whitespace word) keep only their three most frequent members.
// The result is ordered by frequency, ties alphabetical, capped at 50.
//
// A minCount below one falls back to DefaultMinCount.
func (m *Matcher) MeaningfulTags(minCount int) []TagCount {
	if minCount < 1 {
		minCount = DefaultMinCount
	}

	counts := make(map[string]int)
	for _, tagText := range m.snap.TagTexts() {
		for _, token := range strings.Fields(tagText) {
			counts[strings.ToLower(token)]++
		}
	}

	stop := stopwords()
	meaningful := make(map[string]int, len(counts))
	for tag, count := range counts {
		if _, isStop := stop[tag]; isStop {
			continue
		}
		if len(tag) < 3 || isDigits(tag) || count < minCount {
			continue
		}
		meaningful[tag] = count
	}

	// Group by head word and keep the top members per group.
	groups := make(map[string][]string)
	for tag := range meaningful {
		words := strings.Fields(tag)
		head := words[len(words)-1]
		groups[head] = append(groups[head], tag)
	}

	var final []TagCount
	for _, members := range groups {
		sort.Slice(members, func(i, j int) bool {
			if meaningful[members[i]] != meaningful[members[j]] {
				return meaningful[members[i]] > meaningful[members[j]]
			}
			return members[i] < members[j]
		})
		if len(members) > maxPerGroup {
			members = members[:maxPerGroup]
		}
		for _, tag := range members {
			final = append(final, TagCount{Tag: tag, Count: meaningful[tag]})
		}
	}

	sort.Slice(final, func(i, j int) bool {
		if final[i].Count != final[j].Count {
			return final[i].Count > final[j].Count
		}
		return final[i].Tag < final[j].Tag
	})
	if len(final) > maxMeaningful {
		final = final[:maxMeaningful]
	}
	return final
}

// isDigits reports whether s is entirely ASCII digits.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
