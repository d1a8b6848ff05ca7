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

// Package report renders the outcome of a prune pass for humans and
// for machines.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	yaml "gopkg.in/yaml.v2"
)

// Item is one archive selected for removal.
type Item struct {
	VMID      int    `yaml:"vmid"`
	Kind      string `yaml:"kind"`
	Timestamp string `yaml:"timestamp"`
	File      string `yaml:"file"`
	Bytes     int64  `yaml:"bytes"`
}

// VMSummary is the discovered archive count of one guest.
type VMSummary struct {
	VMID    int `yaml:"vmid"`
	Backups int `yaml:"backups"`
}

// Plan is the full outcome of one prune pass.
type Plan struct {
	Directory  string      `yaml:"directory"`
	Keep       int         `yaml:"keep"`
	Executed   bool        `yaml:"executed"`
	VMs        []VMSummary `yaml:"vms"`
	Remove     []Item      `yaml:"remove"`
	FreedBytes int64       `yaml:"freed_bytes"`
}

// Timestamp layout used in the removal listing.
const timeLayout = "2006-01-02 15:04:05"

// FormatTime renders an archive timestamp the way the listing shows it.
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// WriteTable renders the plan as a human-readable report.
func (p *Plan) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "Found backups in %s:\n", p.Directory)

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"VMID", "Backups"})
	for _, vm := range p.VMs {
		summary.Append([]string{strconv.Itoa(vm.VMID), strconv.Itoa(vm.Backups)})
	}
	summary.Render()

	if len(p.Remove) == 0 {
		fmt.Fprintf(w, "\nNothing to remove, keeping up to %d per guest.\n", p.Keep)
		return
	}

	fmt.Fprintf(w, "\n%d old backups beyond the %d most recent per guest:\n",
		len(p.Remove), p.Keep)

	listing := tablewriter.NewWriter(w)
	listing.SetHeader([]string{"VMID", "Kind", "Timestamp", "File", "Size"})
	for _, item := range p.Remove {
		listing.Append([]string{
			strconv.Itoa(item.VMID),
			item.Kind,
			item.Timestamp,
			item.File,
			humanize.IBytes(uint64(item.Bytes)),
		})
	}
	listing.Render()

	verb := "Would free"
	if p.Executed {
		verb = "Freed"
	}
	fmt.Fprintf(w, "\n%s: %s\n", verb, humanize.IBytes(uint64(p.FreedBytes)))

	if !p.Executed {
		fmt.Fprintln(w, "\nThis was a dry run. Pass --execute to delete.")
	}
}

// WriteYAML renders the plan for machine consumption.
func (p *Plan) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(p); err != nil {
		return err
	}
	return enc.Close()
}
