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

// Package database holds the row structs and query types shared between the
// storage layer and its callers.
package database

/*
 * Structs for SQL records
 */

// Song is one indexed sheet file. RelPath is relative to the music root,
// stored in NFC form, and unique across all songs.
type Song struct {
	Title     string
	Artist    string // empty when unknown
	RelPath   string
	Filename  string
	AudioPath string // relative to the music root, empty when none matched
	Tags      []TagInfo
	DBID      int64
	CreatedAt int64 // unix seconds
	UpdatedAt int64
	HasAudio  bool
}

// Tag is one distinct (category, value) pair in use.
type Tag struct {
	Category string
	Value    string
	DBID     int64
}

// TagInfo is a tag as attached to a specific song.
type TagInfo struct {
	Category      string
	Value         string
	DBID          int64
	AutoGenerated bool
}

// TagEntry is a tag with its usage count, for grouped tag listings.
type TagEntry struct {
	Value string
	DBID  int64
	Count int64
}

// TagGroup is all in-use tags of one category.
type TagGroup struct {
	Category string
	Tags     []TagEntry
}

type Stats struct {
	TotalSongs     int64
	SongsWithAudio int64
	UntaggedSongs  int64
}

// SongQuery describes one filtered, sorted view over the index.
//
// TagIDs are grouped by category and apply AND across categories, OR within
// a category: a song qualifies only if, for every category with at least one
// selected tag, it links to at least one selected tag of that category.
type SongQuery struct {
	Search       string
	TagIDs       []int64
	Sort         SortMode
	HasAudioOnly bool
	UntaggedOnly bool
}
