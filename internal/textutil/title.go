// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

// Package textutil provides text cleanup applied to catalog rows at load
// time: movie title article normalization and tag encoding repair.
package textutil

import (
	"fmt"
	"regexp"
	"strings"
)

// MovieLens stores leading articles after a comma: "Matrix, The (1999)".
var (
	titleWithYear    = regexp.MustCompile(`^(.+), The \((\d{4})\)$`)
	titleWithoutYear = regexp.MustCompile(`^(.+), The$`)
)

// FixTitle converts trailing-article titles to leading-article form:
// "Matrix, The (1999)" becomes "The Matrix (1999)" and "Matrix, The"
// becomes "The Matrix". Non-matching titles are returned unchanged.
func FixTitle(title string) string {
	if m := titleWithYear.FindStringSubmatch(title); m != nil {
		return fmt.Sprintf("The %s (%s)", strings.TrimSpace(m[1]), m[2])
	}
	if m := titleWithoutYear.FindStringSubmatch(title); m != nil {
		return "The " + strings.TrimSpace(m[1])
	}
	return title
}
