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

// SortMode selects the result ordering of a song query. It is a display
// parameter only and is never persisted.
type SortMode int

const (
	// SortTitle orders lexicographically by title.
	SortTitle SortMode = iota
	// SortArtist orders by artist with missing artists last, then title.
	SortArtist
	// SortRecent orders by creation time, newest first.
	SortRecent
	// SortUntagged orders by ascending total tag count, then title.
	SortUntagged
)

func (m SortMode) String() string {
	switch m {
	case SortArtist:
		return "artist"
	case SortRecent:
		return "recent"
	case SortUntagged:
		return "untagged"
	case SortTitle:
		return "title"
	default:
		return "title"
	}
}

// AllSortModes lists every sort mode in display order.
func AllSortModes() []SortMode {
	return []SortMode{SortTitle, SortArtist, SortRecent, SortUntagged}
}

// ParseSortMode maps a sort mode name to its SortMode. Unknown names fall
// back to SortTitle.
func ParseSortMode(s string) SortMode {
	switch s {
	case "artist":
		return SortArtist
	case "recent":
		return SortRecent
	case "untagged":
		return SortUntagged
	default:
		return SortTitle
	}
}
