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

// Package helpers holds shared test setup for the database and filesystem
// layers.
package helpers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/songdex/songdex-core/pkg/database/songdb"
)

// NewTestSongDB opens a migrated song database in a temp directory. The
// file-backed database keeps cascade deletes and WAL behavior identical to
// production. Cleanup runs automatically when the test ends.
func NewTestSongDB(t *testing.T) *songdb.SongDB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "songdb_test.db")
	db, err := songdb.Open(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db
}

// NewTestSongDBWithClock is NewTestSongDB with a fake clock, for tests that
// assert on row timestamps or recency ordering.
func NewTestSongDBWithClock(t *testing.T, start time.Time) (*songdb.SongDB, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(start)
	dbPath := filepath.Join(t.TempDir(), "songdb_test.db")
	db, err := songdb.OpenWithClock(context.Background(), dbPath, clock)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return db, clock
}
