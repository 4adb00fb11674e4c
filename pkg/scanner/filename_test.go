// Songdex
// Copyright (c) 2026 The Songdex Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Songdex.
//
// Songdex is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Songdex is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Songdex.  If not, see <http://www.gnu.org/licenses/>.

package scanner

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		filename   string
		wantTitle  string
		wantArtist string
	}{
		{"artist and title", "Beatles - Let It Be.pdf", "Let It Be", "Beatles"},
		{"title only", "Amazing Grace.pdf", "Amazing Grace", ""},
		{"en dash separator", "Beatles – Let It Be.pdf", "Let It Be", "Beatles"},
		{"hyphen wins over en dash", "AC - DC – Back in Black.pdf", "DC – Back in Black", "AC"},
		{"first separator only", "Simon - Garfunkel - Sound of Silence.pdf",
			"Garfunkel - Sound of Silence", "Simon"},
		{"uppercase extension", "Beatles - Let It Be.PDF", "Let It Be", "Beatles"},
		{"copy marker stripped", "Beatles - Let It Be Kopie.pdf", "Let It Be", "Beatles"},
		{"repeated copy marker", "Amazing Grace Kopie Kopie.pdf", "Amazing Grace", ""},
		{"hyphen without spaces is no separator", "Mary-Lou.pdf", "Mary-Lou", ""},
		{"empty left side", " - Let It Be.pdf", "- Let It Be", ""},
		{"empty right side", "Beatles - .pdf", "Beatles -", ""},
		{"surrounding whitespace", "  Amazing Grace.pdf  ", "Amazing Grace", ""},
		{"no extension", "Amazing Grace", "Amazing Grace", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			title, artist := ParseFilename(tt.filename)
			assert.Equal(t, tt.wantTitle, title, "title")
			assert.Equal(t, tt.wantArtist, artist, "artist")
		})
	}
}

// TestPropertyParseFilenameRoundTrip verifies that joining a generated
// artist and title with the separator parses back to the same pair.
func TestPropertyParseFilenameRoundTrip(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		// Pieces free of separators, leading/trailing spaces and dots.
		piece := rapid.StringMatching(`[A-Za-zÀ-ž0-9][A-Za-zÀ-ž0-9 ']{0,20}[A-Za-zÀ-ž0-9]`).
			Filter(func(s string) bool {
				return !strings.Contains(s, " - ") && !strings.Contains(s, " – ") &&
					!strings.HasSuffix(s, " Kopie")
			})

		artist := piece.Draw(t, "artist")
		title := piece.Draw(t, "title")

		gotTitle, gotArtist := ParseFilename(artist + " - " + title + ".pdf")
		if gotTitle != title || gotArtist != artist {
			t.Fatalf("parse(%q - %q) = (%q, %q)", artist, title, gotTitle, gotArtist)
		}
	})
}

// TestPropertyParseFilenameNeverEmpty verifies a parsed title is never
// empty for any non-empty input stem.
func TestPropertyParseFilenameNeverEmpty(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		stem := rapid.StringMatching(`[A-Za-z][A-Za-z0-9 -]{0,30}`).Draw(t, "stem")
		title, _ := ParseFilename(stem + ".pdf")
		if strings.TrimSpace(stem) != "" && title == "" {
			t.Fatalf("parse(%q) produced empty title", stem)
		}
	})
}
