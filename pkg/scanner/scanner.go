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
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/rs/zerolog/log"

	"github.com/songdex/songdex-core/pkg/database"
	"github.com/songdex/songdex-core/pkg/database/songdb"
)

// Result summarizes a reconciliation pass.
type Result struct {
	Added          int
	Kept           int
	Removed        int
	OrphansRemoved int64
}

// buildSong derives a song row and its auto tags from a sheet file path.
// Returns ok=false if the path cannot be made relative to root.
func buildSong(root, path string) (database.Song, []database.Tag, bool) {
	rel, ok := relPath(root, path)
	if !ok {
		return database.Song{}, nil, false
	}
	filename := filepath.Base(rel)
	title, artist := ParseFilename(filename)
	tags := InferTags(rel)
	audioPath, hasAudio := FindAudio(root, title)
	song := database.Song{
		Title:     title,
		Artist:    artist,
		RelPath:   rel,
		Filename:  filename,
		HasAudio:  hasAudio,
		AudioPath: audioPath,
	}
	return song, tags, true
}

// collectSheets walks the tree under root and returns the absolute path of
// every eligible sheet file. Metadata and hidden directories are pruned.
func collectSheets(root string) ([]string, error) {
	var mu sync.Mutex
	var paths []string

	conf := fastwalk.Config{Sort: fastwalk.SortLexical}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Debug().Err(err).Msgf("skipping unreadable entry: %s", path)
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := filepath.Base(path)
			if strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if name == MetaDirName && filepath.Dir(path) == root {
				return filepath.SkipDir
			}
			return nil
		}
		if !EligibleFile(root, path) {
			return nil
		}
		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk music dir: %w", err)
	}

	return paths, nil
}

// Scan reconciles the index with the tree under root. New sheet files are
// inserted with their auto tags, rows whose file has disappeared are removed,
// and tags left without any link are garbage collected. Rows for files that
// still exist are left untouched, so manual tags and edits survive rescans.
func Scan(ctx context.Context, db *songdb.SongDB, root string) (Result, error) {
	var res Result

	paths, err := collectSheets(root)
	if err != nil {
		return res, err
	}

	found := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		song, tags, ok := buildSong(root, path)
		if !ok {
			continue
		}
		found[song.RelPath] = struct{}{}

		exists, err := db.SongExists(ctx, song.RelPath)
		if err != nil {
			return res, fmt.Errorf("failed to check song: %w", err)
		}
		if exists {
			res.Kept++
			continue
		}

		if _, err := db.InsertSongWithTags(ctx, song, tags); err != nil {
			return res, fmt.Errorf("failed to insert song: %w", err)
		}
		log.Debug().Msgf("indexed new song: %s", song.RelPath)
		res.Added++
	}

	indexed, err := db.ListSongPaths(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list indexed songs: %w", err)
	}
	for _, song := range indexed {
		if _, ok := found[song.RelPath]; ok {
			continue
		}
		if err := db.DeleteSong(ctx, song.DBID); err != nil {
			return res, fmt.Errorf("failed to delete song: %w", err)
		}
		log.Debug().Msgf("removed missing song: %s", song.RelPath)
		res.Removed++
	}

	orphans, err := db.DeleteOrphanTags(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to delete orphan tags: %w", err)
	}
	res.OrphansRemoved = orphans

	log.Info().Msgf(
		"scan complete: %d added, %d kept, %d removed, %d orphan tags",
		res.Added, res.Kept, res.Removed, res.OrphansRemoved,
	)

	return res, nil
}
