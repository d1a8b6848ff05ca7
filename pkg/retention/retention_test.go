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

package retention

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzdump-tools/vzprune/pkg/vzdump"
)

func archive(vmid int, day int) vzdump.Archive {
	ts := time.Date(2025, time.January, day, 1, 0, 0, 0, time.Local)
	return vzdump.Archive{
		Path:      fmt.Sprintf("/dump/vzdump-qemu-%d-2025_01_%02d-01_00_00.vma.zst", vmid, day),
		Kind:      "qemu",
		VMID:      vmid,
		Timestamp: ts,
	}
}

func TestPlanKeepsThreeMostRecent(t *testing.T) {
	// Five archives for one guest, scan order shuffled.
	in := []vzdump.Archive{
		archive(100, 3), archive(100, 1), archive(100, 5),
		archive(100, 2), archive(100, 4),
	}

	selected, err := Plan(in, 3)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	// The two oldest go, newest of the two first.
	assert.Equal(t, 2, selected[0].Timestamp.Day())
	assert.Equal(t, 1, selected[1].Timestamp.Day())
}

func TestPlanGroupAtOrBelowKeep(t *testing.T) {
	in := []vzdump.Archive{archive(100, 1), archive(100, 2), archive(100, 3)}

	selected, err := Plan(in, 3)
	require.NoError(t, err)
	assert.Empty(t, selected)

	selected, err = Plan(in, 5)
	require.NoError(t, err)
	assert.Empty(t, selected)
}

func TestPlanKeepZeroSelectsEverything(t *testing.T) {
	in := []vzdump.Archive{
		archive(100, 1), archive(100, 2),
		archive(200, 1), archive(200, 2), archive(200, 3),
	}

	selected, err := Plan(in, 0)
	require.NoError(t, err)
	assert.Len(t, selected, 5)
}

func TestPlanNegativeKeep(t *testing.T) {
	_, err := Plan([]vzdump.Archive{archive(100, 1)}, -1)
	assert.ErrorIs(t, err, ErrNegativeKeep)
}

func TestPlanSelectionCountPerGroup(t *testing.T) {
	var in []vzdump.Archive
	for day := 1; day <= 7; day++ {
		in = append(in, archive(100, day))
	}
	for day := 1; day <= 2; day++ {
		in = append(in, archive(200, day))
	}

	for keep := 0; keep <= 8; keep++ {
		selected, err := Plan(in, keep)
		require.NoError(t, err)

		want := 0
		if 7 > keep {
			want += 7 - keep
		}
		if 2 > keep {
			want += 2 - keep
		}
		assert.Len(t, selected, want, "keep=%d", keep)
	}
}

func TestPlanGuestsOrderedByVMID(t *testing.T) {
	in := []vzdump.Archive{
		archive(300, 1), archive(300, 2),
		archive(100, 1), archive(100, 2),
	}

	selected, err := Plan(in, 1)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, 100, selected[0].VMID)
	assert.Equal(t, 300, selected[1].VMID)
}

func TestPlanIdempotent(t *testing.T) {
	in := []vzdump.Archive{
		archive(100, 3), archive(100, 1), archive(100, 5),
		archive(200, 2), archive(200, 4),
	}

	first, err := Plan(in, 1)
	require.NoError(t, err)
	second, err := Plan(in, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanEqualTimestampsKeepScanOrder(t *testing.T) {
	ts := time.Date(2025, time.January, 1, 1, 0, 0, 0, time.Local)
	a := vzdump.Archive{Path: "/dump/a.vma.zst", VMID: 100, Timestamp: ts}
	b := vzdump.Archive{Path: "/dump/b.vma.zst", VMID: 100, Timestamp: ts}
	c := vzdump.Archive{Path: "/dump/c.vma.zst", VMID: 100, Timestamp: ts}

	selected, err := Plan([]vzdump.Archive{a, b, c}, 1)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	// Ties preserve scan order: a survives, b and c go in order.
	assert.Equal(t, "/dump/b.vma.zst", selected[0].Path)
	assert.Equal(t, "/dump/c.vma.zst", selected[1].Path)
}

func TestGroupByVM(t *testing.T) {
	in := []vzdump.Archive{
		archive(200, 1),
		archive(100, 2), archive(100, 1),
	}

	groups := GroupByVM(in)
	require.Len(t, groups, 2)
	assert.Equal(t, 100, groups[0].VMID)
	require.Len(t, groups[0].Archives, 2)
	// Newest first inside a group.
	assert.Equal(t, 2, groups[0].Archives[0].Timestamp.Day())
	assert.Equal(t, 200, groups[1].VMID)
}
