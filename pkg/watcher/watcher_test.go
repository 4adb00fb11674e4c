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

package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder collects applied paths from the watcher callback.
type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) apply(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) seen(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.paths {
		if p == path {
			return true
		}
	}
	return false
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func startWatcher(t *testing.T, root string) *recorder {
	t.Helper()
	rec := &recorder{}
	w, err := Start(root, rec.apply)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, w.Close())
	})
	return rec
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))
}

func TestWatcherForwardsCreatedSheet(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root)

	path := filepath.Join(root, "New Song.pdf")
	writeFile(t, path)

	require.Eventually(t, func() bool { return rec.seen(path) },
		5*time.Second, 10*time.Millisecond)
}

func TestWatcherForwardsRemovedSheet(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Old Song.pdf")
	writeFile(t, path)

	rec := startWatcher(t, root)
	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool { return rec.seen(path) },
		5*time.Second, 10*time.Millisecond)
}

func TestWatcherCoversNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root)

	// Directory created after the watch started, then populated.
	dir := filepath.Join(root, "02 ukulele")
	require.NoError(t, os.Mkdir(dir, 0o755))
	path := filepath.Join(dir, "Somewhere.pdf")
	writeFile(t, path)

	require.Eventually(t, func() bool { return rec.seen(path) },
		5*time.Second, 10*time.Millisecond)
}

func TestWatcherDropsIneligiblePaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "songindex"), 0o755))
	rec := startWatcher(t, root)

	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(root, "songindex", "inside.pdf"))

	// A sentinel eligible file proves the pipeline processed the others.
	sentinel := filepath.Join(root, "Sentinel.pdf")
	writeFile(t, sentinel)

	require.Eventually(t, func() bool { return rec.seen(sentinel) },
		5*time.Second, 10*time.Millisecond)
	for _, path := range rec.all() {
		assert.Equal(t, sentinel, path)
	}
}
