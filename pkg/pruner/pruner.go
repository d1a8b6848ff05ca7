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

// Package pruner removes backup archives together with their companion
// files and accounts for the space that frees up.
package pruner

import (
	"os"
	"time"

	"github.com/cenkalti/backoff/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Mode selects between a read-only pass and the real thing.
type Mode int

const (
	// Simulate reports what would be removed without touching anything.
	Simulate Mode = iota
	// Commit removes files.
	Commit
)

func (m Mode) String() string {
	if m == Commit {
		return "commit"
	}
	return "simulate"
}

// Default suffixes of the vzdump file family.
const (
	DefaultArchiveSuffix = ".vma.zst"
	DefaultLogSuffix     = ".log"
	DefaultNotesSuffix   = ".notes"
)

const removeRetries = 2

// Pruner deletes one archive's file family at a time.
type Pruner struct {
	fs     afero.Fs
	logger *zap.Logger

	archiveSuffix string
	logSuffix     string
	notesSuffix   string
}

// Option customizes a Pruner.
type Option func(*Pruner)

// WithSuffixes overrides the default archive/log/notes suffixes.
func WithSuffixes(archive, log, notes string) Option {
	return func(p *Pruner) {
		p.archiveSuffix = archive
		p.logSuffix = log
		p.notesSuffix = notes
	}
}

// New returns a Pruner operating on the given filesystem.
func New(fsys afero.Fs, logger *zap.Logger, opts ...Option) *Pruner {
	p := &Pruner{
		fs:            fsys,
		logger:        logger,
		archiveSuffix: DefaultArchiveSuffix,
		logSuffix:     DefaultLogSuffix,
		notesSuffix:   DefaultNotesSuffix,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prune processes one archive's companion set in the given mode and
// returns the bytes freed (Commit) or that would be freed (Simulate).
// Missing companions contribute nothing; a failed removal is logged,
// left out of the total, and never stops the rest of the set.
func (p *Pruner) Prune(archivePath string, mode Mode) int64 {
	var freed int64
	for _, path := range p.Companions(archivePath) {
		info, err := p.fs.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				p.logger.Warn("cannot stat file", zap.String("file", path), zap.Error(err))
			}
			continue
		}

		if mode == Commit {
			if err := p.remove(path); err != nil {
				p.logger.Warn("failed to remove file", zap.String("file", path), zap.Error(err))
				continue
			}
			p.logger.Info("removed", zap.String("file", path), zap.Int64("bytes", info.Size()))
		} else {
			p.logger.Info("would remove", zap.String("file", path), zap.Int64("bytes", info.Size()))
		}
		freed += info.Size()
	}
	return freed
}

// remove retries transient unlink failures briefly before giving up.
func (p *Pruner) remove(path string) error {
	op := func() error {
		err := p.fs.Remove(path)
		if os.IsNotExist(err) {
			// Vanished between stat and unlink; nothing left to do,
			// but the bytes were never confirmed freed by us.
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	return backoff.Retry(op, backoff.WithMaxRetries(b, removeRetries))
}
