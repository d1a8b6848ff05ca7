// This file is part of vzprune
//
// Copyright (C) 2026  The vzprune Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>

package pruner

import (
	"path/filepath"
	"strings"
)

// Companions resolves the file family of one archive, all in the
// archive's own directory:
//
//	vzdump-qemu-100-2025_01_01-01_00_00.vma.zst        the archive
//	vzdump-qemu-100-2025_01_01-01_00_00.log            vzdump's task log
//	vzdump-qemu-100-2025_01_01-01_00_00.vma.zst.notes  backup notes
//
// The log name is the archive name with the archive suffix stripped;
// if the suffix is absent the full name is used as the stem. The notes
// name is the full archive name with the notes suffix appended.
// Companions is pure; whether any of these exist is the caller's
// business.
func (p *Pruner) Companions(archivePath string) []string {
	dir := filepath.Dir(archivePath)
	name := filepath.Base(archivePath)
	stem := strings.TrimSuffix(name, p.archiveSuffix)

	return []string{
		archivePath,
		filepath.Join(dir, stem+p.logSuffix),
		filepath.Join(dir, name+p.notesSuffix),
	}
}
