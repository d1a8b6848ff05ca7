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

package buildinfo

// Set at build time via -ldflags.
var (
	Version   string
	GitCommit string
	BuildTime string
)

// VersionString returns the version, "dev" when unset.
func VersionString() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
