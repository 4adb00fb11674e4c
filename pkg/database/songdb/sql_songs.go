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

package songdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/songdex/songdex-core/pkg/database"
)

const selectSongColumns = `
	SELECT DBID, Title, Artist, RelPath, Filename, HasAudio, AudioPath, CreatedAt, UpdatedAt
	FROM Songs`

func scanSongRow(row interface{ Scan(...any) error }) (database.Song, error) {
	var song database.Song
	var artist, audioPath sql.NullString
	err := row.Scan(
		&song.DBID,
		&song.Title,
		&artist,
		&song.RelPath,
		&song.Filename,
		&song.HasAudio,
		&audioPath,
		&song.CreatedAt,
		&song.UpdatedAt,
	)
	if err != nil {
		return song, err
	}
	song.Artist = artist.String
	song.AudioPath = audioPath.String
	return song, nil
}

func sqlFindSong(ctx context.Context, db *sql.DB, songID int64) (database.Song, error) {
	song, err := scanSongRow(db.QueryRowContext(ctx, selectSongColumns+` WHERE DBID = ?`, songID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return song, err
		}
		return song, fmt.Errorf("failed to scan song row: %w", err)
	}
	return song, nil
}

func sqlFindSongByPath(ctx context.Context, db *sql.DB, relPath string) (database.Song, error) {
	song, err := scanSongRow(db.QueryRowContext(ctx, selectSongColumns+` WHERE RelPath = ?`, relPath))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return song, err
		}
		return song, fmt.Errorf("failed to scan song row: %w", err)
	}
	return song, nil
}

//nolint:gocognit // transaction body is a straight line of inserts
func sqlInsertSongWithTags(
	ctx context.Context, db *sql.DB, song database.Song, tags []database.Tag, now int64,
) (database.Song, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return song, fmt.Errorf("failed to begin song insert transaction: %w", err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("failed to roll back song insert")
		}
	}()

	var artist any
	if song.Artist != "" {
		artist = song.Artist
	}
	var audioPath any
	if song.AudioPath != "" {
		audioPath = song.AudioPath
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO Songs (Title, Artist, RelPath, Filename, HasAudio, AudioPath, CreatedAt, UpdatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		song.Title, artist, song.RelPath, song.Filename, song.HasAudio, audioPath, now, now,
	)
	if err != nil {
		return song, fmt.Errorf("failed to insert song: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return song, fmt.Errorf("failed to get last insert ID for song: %w", err)
	}
	song.DBID = lastID
	song.CreatedAt = now
	song.UpdatedAt = now

	// Links created here are always inference-produced.
	for _, tag := range tags {
		var tagID int64
		err = tx.QueryRowContext(ctx,
			`SELECT DBID FROM Tags WHERE Category = ? AND Value = ?`,
			tag.Category, tag.Value,
		).Scan(&tagID)
		if errors.Is(err, sql.ErrNoRows) {
			tagRes, insErr := tx.ExecContext(ctx,
				`INSERT INTO Tags (Category, Value) VALUES (?, ?)`,
				tag.Category, tag.Value,
			)
			if insErr != nil {
				return song, fmt.Errorf("failed to insert tag: %w", insErr)
			}
			tagID, insErr = tagRes.LastInsertId()
			if insErr != nil {
				return song, fmt.Errorf("failed to get last insert ID for tag: %w", insErr)
			}
		} else if err != nil {
			return song, fmt.Errorf("failed to find tag: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO SongTags (SongDBID, TagDBID, AutoGenerated) VALUES (?, ?, 1)`,
			song.DBID, tagID,
		)
		if err != nil {
			return song, fmt.Errorf("failed to insert song tag link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return song, fmt.Errorf("failed to commit song insert: %w", err)
	}
	committed = true
	return song, nil
}

func sqlListSongPaths(ctx context.Context, db *sql.DB) ([]database.Song, error) {
	rows, err := db.QueryContext(ctx, `SELECT DBID, RelPath FROM Songs`)
	if err != nil {
		return nil, fmt.Errorf("failed to query song paths: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	songs := make([]database.Song, 0)
	for rows.Next() {
		var song database.Song
		if err := rows.Scan(&song.DBID, &song.RelPath); err != nil {
			return nil, fmt.Errorf("failed to scan song path: %w", err)
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func sqlDeleteSong(ctx context.Context, db *sql.DB, songID int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM Songs WHERE DBID = ?`, songID)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return nil
}

func sqlDeleteSongByPath(ctx context.Context, db *sql.DB, relPath string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM Songs WHERE RelPath = ?`, relPath)
	if err != nil {
		return false, fmt.Errorf("failed to delete song by path: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get deleted row count: %w", err)
	}
	return affected > 0, nil
}

func sqlUpdateSongMetadata(
	ctx context.Context, db *sql.DB, songID int64, title, artist string, now int64,
) error {
	var artistVal any
	if artist != "" {
		artistVal = artist
	}
	_, err := db.ExecContext(ctx,
		`UPDATE Songs SET Title = ?, Artist = ?, UpdatedAt = ? WHERE DBID = ?`,
		title, artistVal, now, songID,
	)
	if err != nil {
		return fmt.Errorf("failed to update song metadata: %w", err)
	}
	return nil
}
