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
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/songdex/songdex-core/pkg/database"
)

// Fixed per-sort ORDER BY clauses. Missing artists sort after everything
// else; the untagged sort counts auto and manual links alike.
var sortClauses = map[database.SortMode]string{
	database.SortTitle:  `ORDER BY Title`,
	database.SortArtist: `ORDER BY COALESCE(Artist, 'zzz'), Title`,
	database.SortRecent: `ORDER BY CreatedAt DESC`,
	database.SortUntagged: `ORDER BY
		(SELECT COUNT(*) FROM SongTags WHERE SongDBID = Songs.DBID), Title`,
}

// sqlSearchSongs evaluates a song query in two phases: a base select with
// the fixed search/audio/untagged clauses, then the tag-category filter
// computed over per-category candidate sets. No SQL conditions are assembled
// from user data, only placeholder lists.
func sqlSearchSongs(ctx context.Context, db *sql.DB, q database.SongQuery) ([]database.Song, error) {
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if q.Search != "" {
		clauses = append(clauses,
			`(LOWER(Title) LIKE ? OR LOWER(COALESCE(Artist, '')) LIKE ? OR LOWER(Filename) LIKE ?)`)
		pattern := "%" + strings.ToLower(q.Search) + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if q.HasAudioOnly {
		clauses = append(clauses, `HasAudio = 1`)
	}
	if q.UntaggedOnly {
		// Auto-generated links do not count as "tagged" here.
		clauses = append(clauses,
			`DBID NOT IN (SELECT DISTINCT SongDBID FROM SongTags WHERE AutoGenerated = 0)`)
	}

	query := selectSongColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " " + sortClauses[q.Sort]

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	songs := make([]database.Song, 0)
	for rows.Next() {
		song, scanErr := scanSongRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan song row: %w", scanErr)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(q.TagIDs) > 0 {
		songs, err = filterByTagCategories(ctx, db, songs, q.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	for i := range songs {
		tags, tagsErr := sqlSongTags(ctx, db, songs[i].DBID)
		if tagsErr != nil {
			return nil, tagsErr
		}
		songs[i].Tags = tags
	}

	return songs, nil
}

// filterByTagCategories applies AND-across-categories / OR-within-category
// semantics: a song survives only if it hits at least one selected tag in
// every category that has a selected tag.
func filterByTagCategories(
	ctx context.Context, db *sql.DB, songs []database.Song, tagIDs []int64,
) ([]database.Song, error) {
	required, err := sqlSelectedTagCategories(ctx, db, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(required) == 0 {
		// None of the selected tags exist anymore; nothing to restrict on.
		return songs, nil
	}

	hits, err := sqlSongCategoryHits(ctx, db, tagIDs)
	if err != nil {
		return nil, err
	}

	filtered := songs[:0]
	for _, song := range songs {
		songHits := hits[song.DBID]
		covered := true
		for category := range required {
			if _, ok := songHits[category]; !ok {
				covered = false
				break
			}
		}
		if covered {
			filtered = append(filtered, song)
		}
	}
	return filtered, nil
}

// sqlSelectedTagCategories returns the set of categories among the selected
// tag ids. Ids that no longer exist contribute nothing.
func sqlSelectedTagCategories(
	ctx context.Context, db *sql.DB, tagIDs []int64,
) (map[string]struct{}, error) {
	args := make([]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		args = append(args, id)
	}

	query := `SELECT DISTINCT Category FROM Tags WHERE DBID IN (` +
		prepareVariadic("?", ",", len(tagIDs)) + `)`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query selected tag categories: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	categories := make(map[string]struct{})
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan tag category: %w", err)
		}
		categories[category] = struct{}{}
	}
	return categories, rows.Err()
}

// sqlSongCategoryHits returns, per song, the set of categories in which the
// song links to at least one of the selected tags.
func sqlSongCategoryHits(
	ctx context.Context, db *sql.DB, tagIDs []int64,
) (map[int64]map[string]struct{}, error) {
	args := make([]any, 0, len(tagIDs))
	for _, id := range tagIDs {
		args = append(args, id)
	}

	query := `
		SELECT SongTags.SongDBID, Tags.Category
		FROM SongTags
		JOIN Tags ON SongTags.TagDBID = Tags.DBID
		WHERE SongTags.TagDBID IN (` + prepareVariadic("?", ",", len(tagIDs)) + `)`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query song category hits: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close rows")
		}
	}()

	hits := make(map[int64]map[string]struct{})
	for rows.Next() {
		var songID int64
		var category string
		if err := rows.Scan(&songID, &category); err != nil {
			return nil, fmt.Errorf("failed to scan song category hit: %w", err)
		}
		if hits[songID] == nil {
			hits[songID] = make(map[string]struct{})
		}
		hits[songID][category] = struct{}{}
	}
	return hits, rows.Err()
}
