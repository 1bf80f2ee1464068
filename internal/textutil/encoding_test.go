// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package textutil

import "testing"

func TestRepairText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain ascii", "space opera", "space opera"},
		{"trims whitespace", "  noir  ", "noir"},
		// "café" stored as UTF-8 but decoded as Windows-1252 upstream.
		{"mojibake repaired", "cafÃ©", "café"},
		{"accented latin kept", "amélie", "amélie"},
		{"cjk stripped", "wuxia 武侠", "wuxia"},
		{"emoji stripped", "fun \U0001f600 movie", "fun  movie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepairText(tt.in); got != tt.want {
				t.Errorf("RepairText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
