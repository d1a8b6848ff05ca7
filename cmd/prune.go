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

package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vzdump-tools/vzprune/pkg/pruner"
	"github.com/vzdump-tools/vzprune/pkg/report"
	"github.com/vzdump-tools/vzprune/pkg/retention"
	"github.com/vzdump-tools/vzprune/pkg/vzdump"
)

var (
	keepCount int
	execute   bool
	pattern   string
	output    string
	schedule  string
)

// pruneCmd represents the prune command
var pruneCmd = &cobra.Command{
	Use:   "prune <backup-dir>",
	Short: "Remove old vzdump archives beyond the retention count.",
	Long: `Scan a dump directory, keep the N most recent archives per guest and
remove the rest together with their .log and .notes companions.

Without --execute this is a dry run: the report shows what would be
removed and how much space that would free, and nothing is touched.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		if !cmd.Flags().Changed("keep") {
			keepCount = viper.GetInt("keep")
		}
		if !cmd.Flags().Changed("pattern") {
			pattern = viper.GetString("pattern")
		}

		if keepCount < 0 {
			return fmt.Errorf("invalid --keep %d: %w", keepCount, retention.ErrNegativeKeep)
		}
		if output != "table" && output != "yaml" {
			return fmt.Errorf("invalid --output %q: must be table or yaml", output)
		}

		info, err := appFs.Stat(dir)
		if os.IsNotExist(err) {
			return fmt.Errorf("directory %s does not exist", dir)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}

		mode := pruner.Simulate
		if execute {
			mode = pruner.Commit
		}

		if schedule != "" {
			return runOnSchedule(cmd.OutOrStdout(), dir, mode)
		}
		return runPrune(cmd.OutOrStdout(), dir, mode)
	},
}

// runPrune performs one full pass: scan, plan, delete, report.
func runPrune(w io.Writer, dir string, mode pruner.Mode) error {
	archives, err := vzdump.Scan(appFs, dir, pattern, logger)
	if err != nil {
		return err
	}

	selected, err := retention.Plan(archives, keepCount)
	if err != nil {
		return err
	}

	p := pruner.New(appFs, logger, pruner.WithSuffixes(
		viper.GetString("archive_suffix"),
		viper.GetString("log_suffix"),
		viper.GetString("notes_suffix"),
	))

	plan := &report.Plan{
		Directory: dir,
		Keep:      keepCount,
		Executed:  mode == pruner.Commit,
	}
	for _, g := range retention.GroupByVM(archives) {
		plan.VMs = append(plan.VMs, report.VMSummary{VMID: g.VMID, Backups: len(g.Archives)})
	}

	var total int64
	for _, a := range selected {
		freed := p.Prune(a.Path, mode)
		total += freed
		plan.Remove = append(plan.Remove, report.Item{
			VMID:      a.VMID,
			Kind:      a.Kind,
			Timestamp: report.FormatTime(a.Timestamp),
			File:      a.Name(),
			Bytes:     freed,
		})
	}
	plan.FreedBytes = total

	if output == "yaml" {
		return plan.WriteYAML(w)
	}
	plan.WriteTable(w)
	return nil
}

// runOnSchedule re-runs the prune pass on a cron schedule until
// SIGINT/SIGTERM. A tick that fires while the previous pass is still
// running is skipped.
func runOnSchedule(w io.Writer, dir string, mode pruner.Mode) error {
	var busy int32

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if !atomic.CompareAndSwapInt32(&busy, 0, 1) {
			logger.Warn("previous prune pass still running, skipping tick")
			return
		}
		defer atomic.StoreInt32(&busy, 0)

		if err := runPrune(w, dir, mode); err != nil {
			logger.Error("prune pass failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid --schedule %q: %w", schedule, err)
	}

	c.Start()
	logger.Info("prune scheduled",
		zap.String("spec", schedule),
		zap.String("dir", dir),
		zap.Stringer("mode", mode))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	<-c.Stop().Done()
	return nil
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().IntVarP(&keepCount, "keep", "k", defaultKeep, "how many recent backups to keep per guest")
	pruneCmd.Flags().BoolVarP(&execute, "execute", "e", false, "actually delete files (without this flag: dry run)")
	pruneCmd.Flags().StringVar(&pattern, "pattern", defaultPattern, "glob matching archive files")
	pruneCmd.Flags().StringVarP(&output, "output", "o", "table", "report format: table or yaml")
	pruneCmd.Flags().StringVar(&schedule, "schedule", "", "cron spec to re-run the prune on (blocks until SIGINT)")
}
