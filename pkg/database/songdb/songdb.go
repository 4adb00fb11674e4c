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

// Package songdb is the SQLite store for the song index. It owns the Songs,
// Tags and SongTags tables and is the single source of truth for the index;
// callers serialize access through the index facade.
package songdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
	"github.com/songdex/songdex-core/pkg/database"
)

var ErrNullSQL = errors.New("SongDB is not connected")

// Foreign keys must stay enabled, cascade deletes depend on them.
const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000&_foreign_keys=ON"

type SongDB struct {
	sql    *sql.DB
	clock  clockwork.Clock
	dbPath string
}

// Open opens (creating and migrating if needed) the song index database at
// dbPath.
func Open(ctx context.Context, dbPath string) (*SongDB, error) {
	return OpenWithClock(ctx, dbPath, clockwork.NewRealClock())
}

// OpenWithClock is Open with an injected clock, used to control row
// timestamps in tests.
func OpenWithClock(ctx context.Context, dbPath string, clock clockwork.Clock) (*SongDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for database: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &SongDB{sql: sqlInstance, clock: clock, dbPath: dbPath}
	if err := db.MigrateUp(); err != nil {
		_ = sqlInstance.Close()
		return nil, err
	}

	// Confirm the database is actually reachable before handing it out.
	if err := sqlInstance.PingContext(ctx); err != nil {
		_ = sqlInstance.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func (db *SongDB) Path() string {
	return db.dbPath
}

func (db *SongDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *SongDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	_, err := db.sql.Exec("vacuum")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func (db *SongDB) Close() error {
	if db.sql == nil {
		return nil
	}
	return db.sql.Close()
}

/*
 * Songs
 */

// FindSong returns the song with the given id. The song's tag list is not
// resolved.
func (db *SongDB) FindSong(ctx context.Context, songID int64) (database.Song, error) {
	if db.sql == nil {
		return database.Song{}, ErrNullSQL
	}
	return sqlFindSong(ctx, db.sql, songID)
}

// FindSongByPath returns the song with the given relative path. The song's
// tag list is not resolved.
func (db *SongDB) FindSongByPath(ctx context.Context, relPath string) (database.Song, error) {
	if db.sql == nil {
		return database.Song{}, ErrNullSQL
	}
	return sqlFindSongByPath(ctx, db.sql, relPath)
}

// SongExists reports whether a song with the given relative path is indexed.
func (db *SongDB) SongExists(ctx context.Context, relPath string) (bool, error) {
	if db.sql == nil {
		return false, ErrNullSQL
	}
	_, err := sqlFindSongByPath(ctx, db.sql, relPath)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InsertSongWithTags inserts a new song row plus its auto-generated tag
// links in a single transaction. Tag rows are created on first use. A failed
// insert leaves no dangling links behind.
func (db *SongDB) InsertSongWithTags(
	ctx context.Context, song database.Song, tags []database.Tag,
) (database.Song, error) {
	if db.sql == nil {
		return song, ErrNullSQL
	}
	now := db.clock.Now().Unix()
	return sqlInsertSongWithTags(ctx, db.sql, song, tags, now)
}

// ListSongPaths returns the id and relative path of every indexed song.
func (db *SongDB) ListSongPaths(ctx context.Context) ([]database.Song, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlListSongPaths(ctx, db.sql)
}

// DeleteSong removes a song row, cascading to its tag links. Deleting an id
// that no longer exists is a no-op.
func (db *SongDB) DeleteSong(ctx context.Context, songID int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeleteSong(ctx, db.sql, songID)
}

// DeleteSongByPath removes the song with the given relative path, cascading
// to its tag links. Returns false if no row matched.
func (db *SongDB) DeleteSongByPath(ctx context.Context, relPath string) (bool, error) {
	if db.sql == nil {
		return false, ErrNullSQL
	}
	return sqlDeleteSongByPath(ctx, db.sql, relPath)
}

// UpdateSongMetadata replaces a song's title and artist. An empty artist
// clears the stored artist. Unknown ids are a no-op.
func (db *SongDB) UpdateSongMetadata(ctx context.Context, songID int64, title, artist string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	now := db.clock.Now().Unix()
	return sqlUpdateSongMetadata(ctx, db.sql, songID, title, artist, now)
}

/*
 * Tags
 */

func (db *SongDB) FindTag(ctx context.Context, category, value string) (database.Tag, error) {
	if db.sql == nil {
		return database.Tag{}, ErrNullSQL
	}
	return sqlFindTag(ctx, db.sql, category, value)
}

func (db *SongDB) InsertTag(ctx context.Context, category, value string) (database.Tag, error) {
	if db.sql == nil {
		return database.Tag{}, ErrNullSQL
	}
	return sqlInsertTag(ctx, db.sql, category, value)
}

func (db *SongDB) FindOrInsertTag(ctx context.Context, category, value string) (database.Tag, error) {
	tag, err := db.FindTag(ctx, category, value)
	if errors.Is(err, sql.ErrNoRows) {
		tag, err = db.InsertTag(ctx, category, value)
	}
	return tag, err
}

// DeleteOrphanTags removes every tag with no remaining song links and
// returns the number of tags removed.
func (db *SongDB) DeleteOrphanTags(ctx context.Context) (int64, error) {
	if db.sql == nil {
		return 0, ErrNullSQL
	}
	return sqlDeleteOrphanTags(ctx, db.sql)
}

// DeleteTagIfUnused removes the given tag only if no song links to it.
func (db *SongDB) DeleteTagIfUnused(ctx context.Context, tagID int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeleteTagIfUnused(ctx, db.sql, tagID)
}

/*
 * Song-tag links
 */

// InsertSongTag links a song to a tag. Linking an already-linked pair is a
// no-op; the auto flag of an existing link is never changed.
func (db *SongDB) InsertSongTag(ctx context.Context, songID, tagID int64, autoGenerated bool) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlInsertSongTag(ctx, db.sql, songID, tagID, autoGenerated)
}

func (db *SongDB) DeleteSongTag(ctx context.Context, songID, tagID int64) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeleteSongTag(ctx, db.sql, songID, tagID)
}

// SongTags returns a song's resolved tag list, ordered by category then
// value.
func (db *SongDB) SongTags(ctx context.Context, songID int64) ([]database.TagInfo, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlSongTags(ctx, db.sql, songID)
}

/*
 * Queries
 */

// SearchSongs evaluates a filtered, sorted view over the index. Every
// returned song carries its resolved tag list.
func (db *SongDB) SearchSongs(ctx context.Context, q database.SongQuery) ([]database.Song, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlSearchSongs(ctx, db.sql, q)
}

// TagGroups returns all in-use tags grouped by category with usage counts.
// Categories follow the preferred order, then alphabetically for unknown
// ones; within a category tags order by descending count then value.
func (db *SongDB) TagGroups(ctx context.Context) ([]database.TagGroup, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlTagGroups(ctx, db.sql)
}

func (db *SongDB) Stats(ctx context.Context) (database.Stats, error) {
	if db.sql == nil {
		return database.Stats{}, ErrNullSQL
	}
	return sqlStats(ctx, db.sql)
}
