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

	"github.com/songdex/songdex-core/pkg/database"
)

// sqlStats collects the badge counts. UntaggedSongs counts songs with no
// links at all, auto-generated or not; the untagged query filter uses a
// narrower definition on purpose.
func sqlStats(ctx context.Context, db *sql.DB) (database.Stats, error) {
	var stats database.Stats

	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Songs`).Scan(&stats.TotalSongs)
	if err != nil {
		return stats, fmt.Errorf("failed to count songs: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM Songs WHERE HasAudio = 1`,
	).Scan(&stats.SongsWithAudio)
	if err != nil {
		return stats, fmt.Errorf("failed to count songs with audio: %w", err)
	}

	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM Songs WHERE DBID NOT IN (SELECT DISTINCT SongDBID FROM SongTags)`,
	).Scan(&stats.UntaggedSongs)
	if err != nil {
		return stats, fmt.Errorf("failed to count untagged songs: %w", err)
	}

	return stats, nil
}
