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

import "strings"

// copyMarker is the suffix macOS Finder appends to duplicated files.
const copyMarker = " Kopie"

// artistSeparators in check order: the plain hyphen wins over the en dash.
var artistSeparators = []string{" - ", " – "}

// ParseFilename splits a bare filename into title and artist. The extension
// and any trailing copy marker are stripped first. Only the first occurrence
// of a separator is used, so titles containing further hyphens are not
// mis-split. Artist is empty when no separator with two non-empty sides is
// found.
func ParseFilename(filename string) (title, artist string) {
	name := strings.TrimSpace(filename)
	for len(name) >= len(SheetExt) && strings.EqualFold(name[len(name)-len(SheetExt):], SheetExt) {
		name = name[:len(name)-len(SheetExt)]
	}
	for strings.HasSuffix(name, copyMarker) {
		name = strings.TrimSuffix(name, copyMarker)
	}
	name = strings.TrimSpace(name)

	for _, sep := range artistSeparators {
		idx := strings.Index(name, sep)
		if idx < 0 {
			continue
		}
		left := strings.TrimSpace(name[:idx])
		right := strings.TrimSpace(name[idx+len(sep):])
		if left != "" && right != "" {
			return right, left
		}
	}

	return name, ""
}
