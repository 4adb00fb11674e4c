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

import "golang.org/x/text/unicode/norm"

// NormalizePath returns s in Unicode NFC form. macOS reports filenames in
// NFD, so every path and filename must pass through here before it is
// stored, compared or used as a map key; otherwise visually identical paths
// in different forms break the RelPath uniqueness invariant. Invalid input
// is reconstructed best-effort, never rejected.
func NormalizePath(s string) string {
	return norm.NFC.String(s)
}
