// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// RepairText cleans user-supplied tag text: undo the common UTF-8-read-as-
// Windows-1252 mojibake, drop every character outside basic Latin and the
// Latin-1 Supplement / Latin Extended-A letter ranges, and trim whitespace.
// Empty input maps to the empty string.
func RepairText(text string) string {
	if text == "" {
		return ""
	}

	fixed := fixMojibake(text)

	var b strings.Builder
	b.Grow(len(fixed))
	for _, r := range fixed {
		if r <= 0x7F || (r >= 0x00C0 && r <= 0x017F) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// fixMojibake reverses UTF-8 text that was decoded as Windows-1252 (or
// Latin-1) somewhere upstream: re-encode the runes to their single-byte form
// and reinterpret the bytes as UTF-8. The repair is applied only when the
// round trip produces valid UTF-8 with at least one multi-byte sequence,
// otherwise the input is returned untouched. Runs up to two passes to handle
// doubly-encoded text.
func fixMojibake(s string) string {
	for i := 0; i < 2; i++ {
		repaired, ok := reencodeOnce(s)
		if !ok || repaired == s {
			return s
		}
		s = repaired
	}
	return s
}

func reencodeOnce(s string) (string, bool) {
	// Pure ASCII cannot be mojibake.
	hasHigh := false
	for _, r := range s {
		if r > 0x7F {
			hasHigh = true
			break
		}
	}
	if !hasHigh {
		return s, false
	}

	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte(s))
	if err != nil {
		raw, err = charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return s, false
		}
	}

	if !utf8.Valid(raw) {
		return s, false
	}
	decoded := string(raw)
	if utf8.RuneCountInString(decoded) == len(raw) {
		// No multi-byte sequences: the bytes were genuine single-byte text.
		return s, false
	}
	return decoded, true
}
