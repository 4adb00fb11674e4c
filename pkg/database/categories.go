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

package database

// CategoryOrder is the preferred display ordering of tag categories.
// Categories not listed here sort after the known ones, alphabetically.
var CategoryOrder = []string{
	"instrument",
	"schwierigkeit",
	"stil",
	"technik",
	"artist",
	"stimmung",
	"kapo",
}

var categoryLabels = map[string]string{
	"instrument":    "Instrument",
	"schwierigkeit": "Schwierigkeit",
	"stil":          "Stil",
	"technik":       "Technik",
	"artist":        "Artist",
	"stimmung":      "Stimmung",
	"kapo":          "Kapo",
}

// CategoryRank returns the position of a category in CategoryOrder, or
// len(CategoryOrder) for unknown categories.
func CategoryRank(category string) int {
	for i, c := range CategoryOrder {
		if c == category {
			return i
		}
	}
	return len(CategoryOrder)
}

// CategoryLabel returns the display label for a category. Unknown categories
// are returned as-is.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}
