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

package helpers

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// FSHelper builds music trees for tests. Backed by afero so the same
// structures can target an in-memory filesystem or a real temp dir (the
// scanner and watcher walk the OS filesystem, so their tests use BasePathFs
// over a t.TempDir()).
type FSHelper struct {
	Fs afero.Fs
}

// NewMemoryFS returns a helper over an in-memory filesystem.
func NewMemoryFS() *FSHelper {
	return &FSHelper{Fs: afero.NewMemMapFs()}
}

// NewTempDirFS returns a helper rooted at a fresh temp dir on the real
// filesystem, plus the dir itself for passing to the scanner as root.
func NewTempDirFS(t *testing.T) (*FSHelper, string) {
	t.Helper()
	root := t.TempDir()
	return &FSHelper{Fs: afero.NewBasePathFs(afero.NewOsFs(), root)}, root
}

// CreateTree creates a nested directory structure. Map values are either
// string (file content), map[string]any (subdirectory), or nil (empty dir).
func (h *FSHelper) CreateTree(structure map[string]any) error {
	return h.createTreeRecursive("", structure)
}

func (h *FSHelper) createTreeRecursive(basePath string, structure map[string]any) error {
	for name, content := range structure {
		fullPath := filepath.Join(basePath, name)

		switch v := content.(type) {
		case string:
			if err := h.Fs.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
				return fmt.Errorf("failed to create directory for file %s: %w", fullPath, err)
			}
			if err := afero.WriteFile(h.Fs, fullPath, []byte(v), 0o644); err != nil {
				return fmt.Errorf("failed to write file %s: %w", fullPath, err)
			}
		case map[string]any:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", fullPath, err)
			}
			if err := h.createTreeRecursive(fullPath, v); err != nil {
				return err
			}
		case nil:
			if err := h.Fs.MkdirAll(fullPath, 0o755); err != nil {
				return fmt.Errorf("failed to create empty directory %s: %w", fullPath, err)
			}
		default:
			return fmt.Errorf("unsupported tree entry for %s: %T", fullPath, content)
		}
	}
	return nil
}

// WriteSheet creates a placeholder PDF file at path, parents included.
func (h *FSHelper) WriteSheet(path string) error {
	if err := h.Fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for sheet %s: %w", path, err)
	}
	if err := afero.WriteFile(h.Fs, path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", path, err)
	}
	return nil
}

// FileExists reports whether a file exists.
func (h *FSHelper) FileExists(path string) bool {
	exists, err := afero.Exists(h.Fs, path)
	return err == nil && exists
}

// BasicMusicTree returns a small tree covering the common cases: titled
// and artist-titled sheets, an auto-tagging folder, a companion audio
// file, a metadata dir, and noise that should be ignored.
func BasicMusicTree() map[string]any {
	return map[string]any{
		"00 gitarre": map[string]any{
			"0. Songs": map[string]any{
				"1. Easy": map[string]any{
					"Beatles - Let It Be.pdf": "%PDF-1.4\n",
					"Amazing Grace.pdf":       "%PDF-1.4\n",
				},
				"2. Audios": map[string]any{
					"Let It Be (backing).mp3": "audio",
				},
			},
			"Fingerstyle": map[string]any{
				"Greensleeves.pdf": "%PDF-1.4\n",
			},
		},
		"01 e-gitarre": map[string]any{
			"Deep Purple - Smoke on the Water.pdf": "%PDF-1.4\n",
		},
		"songindex": map[string]any{
			"songindex.db": "not a real database",
		},
		".sync": map[string]any{
			"Hidden Song.pdf": "%PDF-1.4\n",
		},
		"notes.txt": "not a sheet\n",
	}
}
