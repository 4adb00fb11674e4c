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
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/songdex/songdex-core/pkg/database/songdb"
)

// AddFile indexes a single sheet file without a full rescan. Ineligible
// paths and already-indexed files are ignored. Returns true if a new row
// was inserted.
func AddFile(ctx context.Context, db *songdb.SongDB, root, path string) (bool, error) {
	if !EligibleFile(root, path) {
		return false, nil
	}

	song, tags, ok := buildSong(root, path)
	if !ok {
		return false, nil
	}

	exists, err := db.SongExists(ctx, song.RelPath)
	if err != nil {
		return false, fmt.Errorf("failed to check song: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := db.InsertSongWithTags(ctx, song, tags); err != nil {
		return false, fmt.Errorf("failed to insert song: %w", err)
	}
	log.Debug().Msgf("indexed new song: %s", song.RelPath)

	return true, nil
}

// RemoveFile drops the index row for a single sheet file. Paths that were
// never indexed are a no-op. Returns true if a row was removed. Tags the
// removal orphaned are left for the next full scan to collect.
func RemoveFile(ctx context.Context, db *songdb.SongDB, root, path string) (bool, error) {
	rel, ok := relPath(root, path)
	if !ok {
		return false, nil
	}

	removed, err := db.DeleteSongByPath(ctx, rel)
	if err != nil {
		return false, fmt.Errorf("failed to delete song: %w", err)
	}
	if removed {
		log.Debug().Msgf("removed song: %s", rel)
	}
	return removed, nil
}
