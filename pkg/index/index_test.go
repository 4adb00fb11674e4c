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

package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songdex/songdex-core/pkg/database"
	"github.com/songdex/songdex-core/pkg/testing/helpers"
)

func setupIndex(t *testing.T) (*Index, string) {
	t.Helper()
	fsh, root := helpers.NewTempDirFS(t)
	require.NoError(t, fsh.CreateTree(helpers.BasicMusicTree()))

	idx := New(helpers.NewTestSongDB(t), root)
	return idx, root
}

func drainChanged(idx *Index) {
	select {
	case <-idx.Changed():
	default:
	}
}

func TestScanSignalsChanged(t *testing.T) {
	t.Parallel()
	idx, _ := setupIndex(t)
	ctx := context.Background()

	res, err := idx.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Added)

	select {
	case <-idx.Changed():
	default:
		t.Fatal("expected a change signal after the first scan")
	}

	// A no-op rescan does not signal.
	_, err = idx.Scan(ctx)
	require.NoError(t, err)
	select {
	case <-idx.Changed():
		t.Fatal("unexpected change signal after a no-op scan")
	default:
	}
}

func TestApplyChangeMatchesRescan(t *testing.T) {
	t.Parallel()
	idx, root := setupIndex(t)
	ctx := context.Background()

	_, err := idx.Scan(ctx)
	require.NoError(t, err)
	drainChanged(idx)

	// A file appears: applying the single change must land the index in
	// the same state a full rescan would.
	path := filepath.Join(root, "01 e-gitarre", "New Riff.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
	idx.ApplyChange(ctx, path)

	res, err := idx.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 5, res.Kept)
	assert.Equal(t, 0, res.Removed)

	// And the same for a disappearance.
	require.NoError(t, os.Remove(path))
	idx.ApplyChange(ctx, path)

	res, err = idx.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)
	assert.Equal(t, 4, res.Kept)
	assert.Equal(t, 0, res.Removed)
}

func TestChangedSignalsCoalesce(t *testing.T) {
	t.Parallel()
	idx, root := setupIndex(t)
	ctx := context.Background()

	_, err := idx.Scan(ctx)
	require.NoError(t, err)

	// Multiple changes without a reader leave exactly one pending signal.
	for _, name := range []string{"A.pdf", "B.pdf", "C.pdf"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
		idx.ApplyChange(ctx, path)
	}

	<-idx.Changed()
	select {
	case <-idx.Changed():
		t.Fatal("change signals must coalesce to one")
	default:
	}
}

func TestManualTagLifecycle(t *testing.T) {
	t.Parallel()
	idx, _ := setupIndex(t)
	ctx := context.Background()

	_, err := idx.Scan(ctx)
	require.NoError(t, err)

	songs, err := idx.Query(ctx, database.SongQuery{Search: "Amazing Grace"})
	require.NoError(t, err)
	require.Len(t, songs, 1)
	song := songs[0]

	require.NoError(t, idx.AddManualTag(ctx, song.DBID, "stimmung", "ruhig"))

	// The new tag shows up grouped and linked as manual.
	groups, err := idx.ListTagGroups(ctx)
	require.NoError(t, err)
	var tagID int64
	for _, group := range groups {
		if group.Category != "stimmung" {
			continue
		}
		require.Len(t, group.Tags, 1)
		assert.Equal(t, "ruhig", group.Tags[0].Value)
		tagID = group.Tags[0].DBID
	}
	require.NotZero(t, tagID)

	found, err := idx.Song(ctx, song.DBID)
	require.NoError(t, err)
	assert.Equal(t, song.DBID, found.DBID)

	// Unlinking the only user removes the tag row too.
	require.NoError(t, idx.RemoveTagLink(ctx, song.DBID, tagID))
	groups, err = idx.ListTagGroups(ctx)
	require.NoError(t, err)
	for _, group := range groups {
		assert.NotEqual(t, "stimmung", group.Category)
	}
}

func TestAddManualTagToMissingSongIsNoOp(t *testing.T) {
	t.Parallel()
	idx, _ := setupIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.AddManualTag(ctx, 99999, "stimmung", "ruhig"))

	groups, err := idx.ListTagGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestUpdateSongMetadata(t *testing.T) {
	t.Parallel()
	idx, _ := setupIndex(t)
	ctx := context.Background()

	_, err := idx.Scan(ctx)
	require.NoError(t, err)
	drainChanged(idx)

	songs, err := idx.Query(ctx, database.SongQuery{Search: "Greensleeves"})
	require.NoError(t, err)
	require.Len(t, songs, 1)

	require.NoError(t, idx.UpdateSongMetadata(ctx, songs[0].DBID, "Greensleeves", "Traditional"))

	found, err := idx.Song(ctx, songs[0].DBID)
	require.NoError(t, err)
	assert.Equal(t, "Traditional", found.Artist)

	select {
	case <-idx.Changed():
	default:
		t.Fatal("expected a change signal after a metadata edit")
	}
}

func TestWatchAppliesFilesystemChanges(t *testing.T) {
	t.Parallel()
	idx, root := setupIndex(t)
	ctx := context.Background()

	_, err := idx.Scan(ctx)
	require.NoError(t, err)

	require.NoError(t, idx.StartWatch())
	t.Cleanup(func() {
		require.NoError(t, idx.Close())
	})

	path := filepath.Join(root, "00 gitarre", "Fingerstyle", "Scarborough Fair.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))

	require.Eventually(t, func() bool {
		songs, queryErr := idx.Query(ctx, database.SongQuery{Search: "Scarborough"})
		return queryErr == nil && len(songs) == 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		songs, queryErr := idx.Query(ctx, database.SongQuery{Search: "Scarborough"})
		return queryErr == nil && len(songs) == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStats(t *testing.T) {
	t.Parallel()
	idx, _ := setupIndex(t)
	ctx := context.Background()

	_, err := idx.Scan(ctx)
	require.NoError(t, err)

	stats, err := idx.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalSongs)
	assert.Equal(t, int64(1), stats.SongsWithAudio)
	// Every scanned song got at least one auto tag, none is fully untagged.
	assert.Equal(t, int64(0), stats.UntaggedSongs)
}
