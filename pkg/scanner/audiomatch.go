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
	"io/fs"
	"path/filepath"
	"strings"
)

var audioExts = map[string]struct{}{
	".mp3": {},
	".wav": {},
	".m4a": {},
}

// audioDir returns the fixed companion-audio subtree beneath root.
func audioDir(root string) string {
	return filepath.Join(root, "00 gitarre", "0. Songs", "2. Audios")
}

// FindAudio looks for a companion audio file whose stem contains the song
// title (case-insensitive, NFC-normalized). The first match in traversal
// order wins; traversal order is filesystem-dependent. Returns the match
// relative to root, or ok=false if the audio subtree does not exist or
// nothing matched.
func FindAudio(root, title string) (string, bool) {
	dir := audioDir(root)
	titleLower := strings.ToLower(title)

	var match string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, a missing audio dir means no match.
			if path == dir {
				return filepath.SkipAll
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := audioExts[ext]; !ok {
			return nil
		}
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if !strings.Contains(strings.ToLower(NormalizePath(stem)), titleLower) {
			return nil
		}
		if rel, ok := relPath(root, path); ok {
			match = rel
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", false
	}

	return match, match != ""
}
