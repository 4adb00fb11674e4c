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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songdex/songdex-core/pkg/database"
	"github.com/songdex/songdex-core/pkg/testing/helpers"
)

func setupMusicRoot(t *testing.T) string {
	t.Helper()
	fsh, root := helpers.NewTempDirFS(t)
	require.NoError(t, fsh.CreateTree(helpers.BasicMusicTree()))
	return root
}

func TestScanIndexesEligibleSheets(t *testing.T) {
	t.Parallel()
	db := helpers.NewTestSongDB(t)
	root := setupMusicRoot(t)
	ctx := context.Background()

	res, err := Scan(ctx, db, root)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Added)
	assert.Equal(t, 0, res.Kept)
	assert.Equal(t, 0, res.Removed)

	// Filename parsing, audio matching and auto tags all applied.
	letItBe, err := db.FindSongByPath(ctx,
		filepath.Join("00 gitarre", "0. Songs", "1. Easy", "Beatles - Let It Be.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "Let It Be", letItBe.Title)
	assert.Equal(t, "Beatles", letItBe.Artist)
	assert.True(t, letItBe.HasAudio)
	assert.Equal(t,
		filepath.Join("00 gitarre", "0. Songs", "2. Audios", "Let It Be (backing).mp3"),
		letItBe.AudioPath)

	smoke, err := db.FindSongByPath(ctx,
		filepath.Join("01 e-gitarre", "Deep Purple - Smoke on the Water.pdf"))
	require.NoError(t, err)
	assert.False(t, smoke.HasAudio)
	tags, err := db.SongTags(ctx, smoke.DBID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "E-Gitarre", tags[0].Value)
	assert.True(t, tags[0].AutoGenerated)

	// Hidden dirs, the metadata dir and non-sheet files never make it in.
	for _, rel := range []string{
		filepath.Join(".sync", "Hidden Song.pdf"),
		filepath.Join("songindex", "songindex.db"),
		"notes.txt",
	} {
		exists, existsErr := db.SongExists(ctx, rel)
		require.NoError(t, existsErr)
		assert.False(t, exists, rel)
	}
}

func TestScanIsIdempotent(t *testing.T) {
	t.Parallel()
	db := helpers.NewTestSongDB(t)
	root := setupMusicRoot(t)
	ctx := context.Background()

	_, err := Scan(ctx, db, root)
	require.NoError(t, err)

	res, err := Scan(ctx, db, root)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 4, res.Kept)
	assert.Equal(t, 0, res.Removed)
}

func TestScanRemovesMissingSongs(t *testing.T) {
	t.Parallel()
	db := helpers.NewTestSongDB(t)
	root := setupMusicRoot(t)
	ctx := context.Background()

	_, err := Scan(ctx, db, root)
	require.NoError(t, err)

	require.NoError(t, os.Remove(
		filepath.Join(root, "01 e-gitarre", "Deep Purple - Smoke on the Water.pdf")))

	res, err := Scan(ctx, db, root)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 3, res.Kept)
	assert.Equal(t, 1, res.Removed)
	// The E-Gitarre tag had one user, so it is garbage collected.
	assert.Equal(t, int64(1), res.OrphansRemoved)
}

func TestScanPreservesManualEdits(t *testing.T) {
	t.Parallel()
	db := helpers.NewTestSongDB(t)
	root := setupMusicRoot(t)
	ctx := context.Background()

	_, err := Scan(ctx, db, root)
	require.NoError(t, err)

	rel := filepath.Join("00 gitarre", "0. Songs", "1. Easy", "Amazing Grace.pdf")
	song, err := db.FindSongByPath(ctx, rel)
	require.NoError(t, err)

	tag, err := db.FindOrInsertTag(ctx, "stimmung", "ruhig")
	require.NoError(t, err)
	require.NoError(t, db.InsertSongTag(ctx, song.DBID, tag.DBID, false))
	require.NoError(t, db.UpdateSongMetadata(ctx, song.DBID, "Amazing Grace", "Traditional"))

	_, err = Scan(ctx, db, root)
	require.NoError(t, err)

	after, err := db.FindSongByPath(ctx, rel)
	require.NoError(t, err)
	assert.Equal(t, song.DBID, after.DBID)
	assert.Equal(t, "Traditional", after.Artist)

	tags, err := db.SongTags(ctx, after.DBID)
	require.NoError(t, err)
	manual := 0
	for _, ti := range tags {
		if !ti.AutoGenerated {
			manual++
		}
	}
	assert.Equal(t, 1, manual)
}

func TestAddFile(t *testing.T) {
	t.Parallel()
	db := helpers.NewTestSongDB(t)
	root := setupMusicRoot(t)
	ctx := context.Background()

	path := filepath.Join(root, "01 e-gitarre", "Deep Purple - Smoke on the Water.pdf")

	added, err := AddFile(ctx, db, root, path)
	require.NoError(t, err)
	assert.True(t, added)

	// Adding the same file again is a no-op.
	added, err = AddFile(ctx, db, root, path)
	require.NoError(t, err)
	assert.False(t, added)

	// Ineligible paths are silently ignored.
	added, err = AddFile(ctx, db, root, filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.False(t, added)
	added, err = AddFile(ctx, db, root, filepath.Join(root, ".sync", "Hidden Song.pdf"))
	require.NoError(t, err)
	assert.False(t, added)
}

func TestRemoveFile(t *testing.T) {
	t.Parallel()
	db := helpers.NewTestSongDB(t)
	root := setupMusicRoot(t)
	ctx := context.Background()

	path := filepath.Join(root, "01 e-gitarre", "Deep Purple - Smoke on the Water.pdf")
	_, err := AddFile(ctx, db, root, path)
	require.NoError(t, err)

	removed, err := RemoveFile(ctx, db, root, path)
	require.NoError(t, err)
	assert.True(t, removed)

	// Orphaned tags wait for the next full scan's collection pass.
	_, err = db.FindTag(ctx, "instrument", "E-Gitarre")
	require.NoError(t, err)
	orphans, err := db.DeleteOrphanTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), orphans)

	removed, err = RemoveFile(ctx, db, root, path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestScanResolvedQueryEndToEnd(t *testing.T) {
	t.Parallel()
	db := helpers.NewTestSongDB(t)
	root := setupMusicRoot(t)
	ctx := context.Background()

	_, err := Scan(ctx, db, root)
	require.NoError(t, err)

	acoustic, err := db.FindTag(ctx, "instrument", "Akustik-Gitarre")
	require.NoError(t, err)

	songs, err := db.SearchSongs(ctx, database.SongQuery{TagIDs: []int64{acoustic.DBID}})
	require.NoError(t, err)
	assert.Len(t, songs, 3)
}
