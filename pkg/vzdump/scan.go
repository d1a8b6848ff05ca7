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

package vzdump

import (
	"errors"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Scan lists the immediate children of dir matching pattern and parses
// each name. Non-archive names are skipped without comment; unrelated
// files routinely share a dump directory. Names that match the scheme
// but carry a broken timestamp are skipped with a warning.
//
// The returned slice keeps the listing's lexical order; that order is
// the tie-break for equal timestamps further down the pipeline.
func Scan(fsys afero.Fs, dir, pattern string, logger *zap.Logger) ([]Archive, error) {
	matches, err := afero.Glob(fsys, filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	archives := make([]Archive, 0, len(matches))
	for _, path := range matches {
		a, err := ParseName(filepath.Base(path))
		if errors.Is(err, ErrNoMatch) {
			continue
		}
		if err != nil {
			logger.Warn("skipping archive with unparseable name",
				zap.String("file", path),
				zap.Error(err))
			continue
		}
		a.Path = path
		archives = append(archives, a)
	}
	return archives, nil
}
