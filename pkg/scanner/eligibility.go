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
	"path/filepath"
	"strings"
)

const (
	// SheetExt is the one document extension the index covers.
	SheetExt = ".pdf"
	// MetaDirName is the root subdirectory holding index metadata; nothing
	// under it is ever indexed.
	MetaDirName = "songindex"
)

// EligibleFile reports whether an absolute path is index-eligible: the sheet
// extension, not under the metadata subdirectory, no hidden path segment.
// These rules are a contract between the full scan and the watch pipeline
// and must stay identical for both.
func EligibleFile(root, path string) bool {
	if !strings.EqualFold(filepath.Ext(path), SheetExt) {
		return false
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	segments := strings.Split(rel, string(filepath.Separator))
	if len(segments) == 0 || segments[0] == ".." {
		return false
	}
	if segments[0] == MetaDirName {
		return false
	}
	for _, segment := range segments {
		if strings.HasPrefix(segment, ".") {
			return false
		}
	}

	return true
}

// relPath returns the normalized path of an eligible file relative to root.
func relPath(root, path string) (string, bool) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", false
	}
	return NormalizePath(rel), true
}
