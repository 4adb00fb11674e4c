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

// Package index is the front door to the song index: it owns the database
// handle, serializes every read and write behind one mutex, and drives the
// scanner and watcher.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/songdex/songdex-core/pkg/database"
	"github.com/songdex/songdex-core/pkg/database/songdb"
	"github.com/songdex/songdex-core/pkg/helpers/syncutil"
	"github.com/songdex/songdex-core/pkg/scanner"
	"github.com/songdex/songdex-core/pkg/watcher"
)

// Index serializes all access to the song database. Every operation takes
// the same mutex, so watcher updates, scans, and queries never interleave.
type Index struct {
	db      *songdb.SongDB
	watch   *watcher.Watcher
	changed chan struct{}
	root    string
	mu      syncutil.Mutex
}

// Open opens (creating and migrating if needed) the song database at
// dbPath and wraps it in an Index for the music tree rooted at root.
func Open(ctx context.Context, dbPath, root string) (*Index, error) {
	db, err := songdb.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	return New(db, root), nil
}

// New wraps an open database for the music tree rooted at root.
func New(db *songdb.SongDB, root string) *Index {
	return &Index{
		db:      db,
		root:    root,
		changed: make(chan struct{}, 1),
	}
}

// Changed signals after the index contents change. Signals are coalesced:
// consumers that are slow to read see at most one pending signal and should
// re-query rather than count.
func (i *Index) Changed() <-chan struct{} {
	return i.changed
}

func (i *Index) notifyChanged() {
	select {
	case i.changed <- struct{}{}:
	default:
	}
}

// Scan runs a full reconciliation pass against the music tree.
func (i *Index) Scan(ctx context.Context) (scanner.Result, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	res, err := scanner.Scan(ctx, i.db, i.root)
	if err != nil {
		return res, err
	}
	if res.Added > 0 || res.Removed > 0 {
		i.notifyChanged()
	}
	return res, nil
}

// StartWatch begins applying live filesystem changes to the index. It is
// an error to call it twice without an intervening Close.
func (i *Index) StartWatch() error {
	if i.watch != nil {
		return errors.New("watcher already started")
	}
	w, err := watcher.Start(i.root, func(path string) {
		i.ApplyChange(context.Background(), path)
	})
	if err != nil {
		return err
	}
	i.watch = w
	return nil
}

// Close stops the watcher, if started, and closes the database.
func (i *Index) Close() error {
	if i.watch != nil {
		if err := i.watch.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing watcher")
		}
		i.watch = nil
	}
	return i.db.Close()
}

// ApplyChange brings the index row for a single sheet path in line with
// the filesystem: existing files are indexed, missing ones are removed.
// Errors are logged rather than returned so one bad event cannot stop the
// watch pipeline.
func (i *Index) ApplyChange(ctx context.Context, path string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	var changed bool
	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		changed, err = scanner.AddFile(ctx, i.db, i.root, path)
	} else {
		changed, err = scanner.RemoveFile(ctx, i.db, i.root, path)
	}
	if err != nil {
		log.Error().Err(err).Msgf("failed to apply change: %s", path)
		return
	}
	if changed {
		i.notifyChanged()
	}
}

// Query returns the songs matching q, tags resolved, in q's sort order.
func (i *Index) Query(ctx context.Context, q database.SongQuery) ([]database.Song, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.db.SearchSongs(ctx, q)
}

// Song returns a single song by id with its tags resolved.
func (i *Index) Song(ctx context.Context, songID int64) (database.Song, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.db.FindSong(ctx, songID)
}

// AddManualTag links a user-chosen tag to a song, creating the tag row on
// first use. Linking a tag that is already linked is a no-op, and so is
// tagging a song that has since been removed from the index.
func (i *Index) AddManualTag(ctx context.Context, songID int64, category, value string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	_, err := i.db.FindSong(ctx, songID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to find song: %w", err)
	}

	tag, err := i.db.FindOrInsertTag(ctx, category, value)
	if err != nil {
		return fmt.Errorf("failed to find or insert tag: %w", err)
	}
	if err := i.db.InsertSongTag(ctx, songID, tag.DBID, false); err != nil {
		return fmt.Errorf("failed to link tag: %w", err)
	}

	i.notifyChanged()
	return nil
}

// RemoveTagLink unlinks a tag from a song, then drops the tag row itself
// if nothing else links to it.
func (i *Index) RemoveTagLink(ctx context.Context, songID, tagID int64) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.db.DeleteSongTag(ctx, songID, tagID); err != nil {
		return fmt.Errorf("failed to unlink tag: %w", err)
	}
	if err := i.db.DeleteTagIfUnused(ctx, tagID); err != nil {
		return fmt.Errorf("failed to delete unused tag: %w", err)
	}

	i.notifyChanged()
	return nil
}

// UpdateSongMetadata overwrites a song's title and artist. An empty artist
// clears the field.
func (i *Index) UpdateSongMetadata(ctx context.Context, songID int64, title, artist string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if err := i.db.UpdateSongMetadata(ctx, songID, title, artist); err != nil {
		return err
	}
	i.notifyChanged()
	return nil
}

// ListTagGroups returns every tag grouped by category, for building filter
// pickers.
func (i *Index) ListTagGroups(ctx context.Context) ([]database.TagGroup, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.db.TagGroups(ctx)
}

// Vacuum compacts the database file. Worth running after large removals.
func (i *Index) Vacuum() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.db.Vacuum()
}

// Stats returns index-wide counts.
func (i *Index) Stats(ctx context.Context) (database.Stats, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.db.Stats(ctx)
}
