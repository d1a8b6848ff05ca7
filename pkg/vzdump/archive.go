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

// Package vzdump understands the file naming scheme of Proxmox VE
// vzdump backup archives.
package vzdump

import (
	"errors"
	"path/filepath"
	"regexp"
	"strconv"
	"time"
)

// Archive names look like
//
//	vzdump-qemu-100-2025_01_01-01_00_00.vma.zst
//
// The pattern only anchors at the start; whatever follows the seconds
// field (compression suffixes, notes suffixes) is not ours to judge.
var namePattern = regexp.MustCompile(`^vzdump-(\w+)-(\d+)-(\d{4})_(\d{2})_(\d{2})-(\d{2})_(\d{2})_(\d{2})`)

// ErrNoMatch indicates that a file name is not a vzdump archive at all.
// Callers skip such entries silently.
var ErrNoMatch = errors.New("not a vzdump archive name")

// ErrBadTimestamp indicates that a file name looks like a vzdump archive
// but embeds an impossible calendar date or time of day.
var ErrBadTimestamp = errors.New("invalid timestamp in archive name")

// Archive is one backup archive found on disk.
type Archive struct {
	Path string
	Kind string // guest type tag: "qemu", "lxc", or whatever vzdump wrote
	VMID int
	// Timestamp is the wall-clock time from the file name. The name
	// carries no zone, so the fields are stored in UTC as-is.
	Timestamp time.Time
}

// Name returns the archive's bare file name.
func (a Archive) Name() string {
	return filepath.Base(a.Path)
}

// ParseName parses a vzdump archive file name into its metadata. A
// directory component is tolerated and ignored. Path is left empty;
// the caller knows where the file lives.
//
// Returns ErrNoMatch for names outside the vzdump scheme and
// ErrBadTimestamp for names whose date fields do not form a real
// calendar time.
func ParseName(name string) (Archive, error) {
	m := namePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return Archive{}, ErrNoMatch
	}

	vmid, err := strconv.Atoi(m[2])
	if err != nil {
		// Digit run too long for an int; no real VMID looks like that.
		return Archive{}, ErrNoMatch
	}

	ts, err := timestampOf(m[3:9])
	if err != nil {
		return Archive{}, err
	}

	return Archive{
		Kind:      m[1],
		VMID:      vmid,
		Timestamp: ts,
	}, nil
}

// timestampOf combines the six fixed-width date fields into a naive
// timestamp, rejecting out-of-range components. time.Date normalizes
// overflow (month 13 becomes January) instead of failing, so the
// result is compared back against the inputs. The timestamp is built
// in UTC: a zone with DST would shift wall-clock times that fall into
// a transition gap and make valid names look out of range.
func timestampOf(fields []string) (time.Time, error) {
	n := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return time.Time{}, ErrBadTimestamp
		}
		n[i] = v
	}

	ts := time.Date(n[0], time.Month(n[1]), n[2], n[3], n[4], n[5], 0, time.UTC)
	if ts.Year() != n[0] || ts.Month() != time.Month(n[1]) || ts.Day() != n[2] ||
		ts.Hour() != n[3] || ts.Minute() != n[4] || ts.Second() != n[5] {
		return time.Time{}, ErrBadTimestamp
	}
	return ts, nil
}
