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

// Package retention decides which archives are old enough to go.
package retention

import (
	"errors"
	"sort"

	"github.com/vzdump-tools/vzprune/pkg/vzdump"
)

// ErrNegativeKeep indicates a retention count below zero. That is a
// configuration mistake, not a request to delete everything.
var ErrNegativeKeep = errors.New("retention count must not be negative")

// Group holds all archives of one guest, newest first.
type Group struct {
	VMID     int
	Archives []vzdump.Archive
}

// GroupByVM buckets archives per guest and orders each bucket by
// timestamp, newest first. The sort is stable: archives with equal
// timestamps keep their scan order relative to each other. Groups come
// back sorted by VMID ascending.
func GroupByVM(archives []vzdump.Archive) []Group {
	byVM := make(map[int][]vzdump.Archive)
	for _, a := range archives {
		byVM[a.VMID] = append(byVM[a.VMID], a)
	}

	groups := make([]Group, 0, len(byVM))
	for vmid, as := range byVM {
		sort.SliceStable(as, func(i, j int) bool {
			return as[i].Timestamp.After(as[j].Timestamp)
		})
		groups = append(groups, Group{VMID: vmid, Archives: as})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].VMID < groups[j].VMID
	})
	return groups
}

// Plan selects the archives to remove: for every guest, everything
// beyond the keep most recent. A guest with keep or fewer archives
// contributes nothing; keep == 0 selects everything. The selection
// lists guests by VMID ascending and, within a guest, newest first.
//
// Plan is pure; calling it twice over the same input yields the same
// selection.
func Plan(archives []vzdump.Archive, keep int) ([]vzdump.Archive, error) {
	if keep < 0 {
		return nil, ErrNegativeKeep
	}

	var selected []vzdump.Archive
	for _, g := range GroupByVM(archives) {
		if len(g.Archives) > keep {
			selected = append(selected, g.Archives[keep:]...)
		}
	}
	return selected, nil
}
