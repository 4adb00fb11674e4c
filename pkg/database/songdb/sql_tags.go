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
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/songdex/songdex-core/pkg/database"
)

func sqlFindTag(ctx context.Context, db *sql.DB, category, value string) (database.Tag, error) {
	var row database.Tag
	err := db.QueryRowContext(ctx,
		`SELECT DBID, Category, Value FROM Tags WHERE Category = ? AND Value = ? LIMIT 1`,
		category, value,
	).Scan(&row.DBID, &row.Category, &row.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, err
		}
		return row, fmt.Errorf("failed to scan tag row: %w", err)
	}
	return row, nil
}

func sqlInsertTag(ctx context.Context, db *sql.DB, category, value string) (database.Tag, error) {
	row := database.Tag{Category: category, Value: value}
	res, err := db.ExecContext(ctx,
		`INSERT INTO Tags (Category, Value) VALUES (?, ?)`,
		category, value,
	)
	if err != nil {
		return row, fmt.Errorf("failed to insert tag: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return row, fmt.Errorf("failed to get last insert ID for tag: %w", err)
	}
	row.DBID = lastID
	return row, nil
}

func sqlDeleteOrphanTags(ctx context.Context, db *sql.DB) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM Tags WHERE DBID NOT IN (SELECT DISTINCT TagDBID FROM SongTags)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan tags: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted tag count: %w", err)
	}
	return affected, nil
}

func sqlDeleteTagIfUnused(ctx context.Context, db *sql.DB, tagID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM Tags WHERE DBID = ? AND DBID NOT IN (SELECT DISTINCT TagDBID FROM SongTags)`,
		tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete unused tag: %w", err)
	}
	return nil
}

func sqlTagGroups(ctx context.Context, db *sql.DB) ([]database.TagGroup, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT Tags.DBID, Tags.Category, Tags.Value, COUNT(SongTags.SongDBID) AS Cnt
		FROM Tags
		LEFT JOIN SongTags ON Tags.DBID = SongTags.TagDBID
		GROUP BY Tags.DBID
		ORDER BY Cnt DESC, Tags.Value`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag groups: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	grouped := make(map[string][]database.TagEntry)
	for rows.Next() {
		var category string
		var entry database.TagEntry
		if err := rows.Scan(&entry.DBID, &category, &entry.Value, &entry.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag group row: %w", err)
		}
		grouped[category] = append(grouped[category], entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		ri, rj := database.CategoryRank(categories[i]), database.CategoryRank(categories[j])
		if ri != rj {
			return ri < rj
		}
		return categories[i] < categories[j]
	})

	groups := make([]database.TagGroup, 0, len(categories))
	for _, category := range categories {
		groups = append(groups, database.TagGroup{
			Category: category,
			Tags:     grouped[category],
		})
	}
	return groups, nil
}
