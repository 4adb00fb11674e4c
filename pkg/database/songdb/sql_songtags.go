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
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/songdex/songdex-core/pkg/database"
)

func sqlInsertSongTag(ctx context.Context, db *sql.DB, songID, tagID int64, autoGenerated bool) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO SongTags (SongDBID, TagDBID, AutoGenerated) VALUES (?, ?, ?)`,
		songID, tagID, autoGenerated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song tag link: %w", err)
	}
	return nil
}

func sqlDeleteSongTag(ctx context.Context, db *sql.DB, songID, tagID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM SongTags WHERE SongDBID = ? AND TagDBID = ?`,
		songID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete song tag link: %w", err)
	}
	return nil
}

func sqlSongTags(ctx context.Context, db *sql.DB, songID int64) ([]database.TagInfo, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT Tags.DBID, Tags.Category, Tags.Value, SongTags.AutoGenerated
		FROM Tags
		JOIN SongTags ON Tags.DBID = SongTags.TagDBID
		WHERE SongTags.SongDBID = ?
		ORDER BY Tags.Category, Tags.Value`,
		songID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query song tags: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	tags := make([]database.TagInfo, 0)
	for rows.Next() {
		var tag database.TagInfo
		if err := rows.Scan(&tag.DBID, &tag.Category, &tag.Value, &tag.AutoGenerated); err != nil {
			return nil, fmt.Errorf("failed to scan song tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
