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

	"github.com/songdex/songdex-core/pkg/database"
)

type autoTagRule struct {
	pattern  string
	category string
	value    string
}

// autoTagRules maps path substrings to tags. Patterns are case-sensitive;
// casing variants are listed as separate rows. New rules are added by
// appending rows, the matching algorithm stays a plain substring check.
var autoTagRules = []autoTagRule{
	{"E-Gitarre", "instrument", "E-Gitarre"},
	{"e-gitarre", "instrument", "E-Gitarre"},
	{"1. E-Gitarre", "instrument", "E-Gitarre"},
	{"Zupfen", "technik", "Fingerpicking"},
	{"zupfen", "technik", "Fingerpicking"},
	{"Anfaenger", "schwierigkeit", "Anfänger"},
	{"Kinderlieder", "schwierigkeit", "Anfänger"},
	{"Kinderlieder", "stil", "Kinderlieder"},
	{"Moderne Popsongs", "stil", "Pop"},
	{"Mundart", "stil", "Mundart"},
	{"Weihnachtssongs", "stil", "Weihnachten"},
	{"Christmas", "stil", "Weihnachten"},
	{"Worship", "stil", "Worship"},
	{"Blues", "stil", "Blues"},
	{"Jazz", "stil", "Jazz"},
	{"Solos", "technik", "Solo"},
	{"7. Solos", "technik", "Solo"},
	{"Klassisch", "stil", "Klassik"},
	{"ukulele", "instrument", "Ukulele"},
	{"01 ukulele", "instrument", "Ukulele"},
	{"The Beatles", "artist", "The Beatles"},
	{"Bossa", "stil", "Bossa Nova"},
	{"Samba", "stil", "Bossa Nova"},
}

const (
	acousticMarker    = "00 gitarre"
	defaultInstrument = "Akustik-Gitarre"
)

// InferTags maps substrings of a relative path to tags, deduplicated by
// (category, value) with the first match winning. Paths under the acoustic
// guitar subtree that produced no instrument tag get the default instrument.
func InferTags(relPath string) []database.Tag {
	tags := make([]database.Tag, 0)
	seen := make(map[database.Tag]struct{})

	for _, rule := range autoTagRules {
		if !strings.Contains(relPath, rule.pattern) {
			continue
		}
		tag := database.Tag{Category: rule.category, Value: rule.value}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	if strings.Contains(relPath, acousticMarker) {
		hasInstrument := false
		for _, tag := range tags {
			if tag.Category == "instrument" {
				hasInstrument = true
				break
			}
		}
		if !hasInstrument {
			tags = append(tags, database.Tag{Category: "instrument", Value: defaultInstrument})
		}
	}

	return tags
}
