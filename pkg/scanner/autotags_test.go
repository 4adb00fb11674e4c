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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/songdex/songdex-core/pkg/database"
)

func TestInferTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		relPath string
		want    []database.Tag
	}{
		{
			"electric guitar folder",
			"01 e-gitarre/Deep Purple - Smoke on the Water.pdf",
			[]database.Tag{{Category: "instrument", Value: "E-Gitarre"}},
		},
		{
			"acoustic fallback",
			"00 gitarre/Fingerstyle/Greensleeves.pdf",
			[]database.Tag{{Category: "instrument", Value: "Akustik-Gitarre"}},
		},
		{
			"explicit instrument suppresses acoustic fallback",
			"00 gitarre/ukulele/Somewhere.pdf",
			[]database.Tag{{Category: "instrument", Value: "Ukulele"}},
		},
		{
			"one pattern two categories",
			"Kinderlieder/Hoppe hoppe Reiter.pdf",
			[]database.Tag{
				{Category: "schwierigkeit", Value: "Anfänger"},
				{Category: "stil", Value: "Kinderlieder"},
			},
		},
		{
			"case variants deduplicate",
			"E-Gitarre/e-gitarre/Song.pdf",
			[]database.Tag{{Category: "instrument", Value: "E-Gitarre"}},
		},
		{
			"multiple categories stack",
			"00 gitarre/Blues/Zupfen/Crossroads.pdf",
			[]database.Tag{
				{Category: "technik", Value: "Fingerpicking"},
				{Category: "stil", Value: "Blues"},
				{Category: "instrument", Value: "Akustik-Gitarre"},
			},
		},
		{
			"no rules no tags",
			"misc/Unknown.pdf",
			[]database.Tag{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ElementsMatch(t, tt.want, InferTags(tt.relPath))
		})
	}
}

func TestInferTagsFirstMatchWins(t *testing.T) {
	t.Parallel()

	// Bossa and Samba map to the same tag; only one instance comes back.
	tags := InferTags("Bossa/Samba/Girl from Ipanema.pdf")
	count := 0
	for _, tag := range tags {
		if tag.Category == "stil" && tag.Value == "Bossa Nova" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
