// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package command

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"github.com/woozymasta/pathrules"
	"gopkg.in/src-d/go-billy.v4/osfs"

	"github.com/woozymasta/rez"
)

const (
	ExtractDescription = "Extract files from a REZ archive"
	ExtractHelp        = ExtractDescription + "\n\n" +
		"Writes the files below PATH (the whole archive by default) into the\n" +
		"output directory. --include and --exclude take gitignore-style\n" +
		"patterns matched case-insensitively against paths relative to PATH;\n" +
		"when any --include is given, only included files are written.\n" +
		"Names are rewritten to be safe on every filesystem unless --raw-names\n" +
		"is set."
)

// Extract represents the `extract` command of rez cli tool.
type Extract struct {
	Logging

	Output   string   `short:"o" long:"output" default:"." description:"Output directory"`
	Include  []string `long:"include" description:"Include pattern, may be repeated"`
	Exclude  []string `long:"exclude" description:"Exclude pattern, may be repeated"`
	Workers  int      `short:"w" long:"workers" env:"REZ_WORKERS" description:"Number of parallel writers. By default, it's the number of CPU cores."`
	RawNames bool     `long:"raw-names" description:"Keep archive names verbatim; unsafe names fail the extraction"`
	Args     struct {
		Archive flags.Filename `positional-arg-name:"archive" required:"yes" description:"REZ archive file"`
		Path    string         `positional-arg-name:"path" description:"Archive path to extract"`
	} `positional-args:"yes"`
}

// Execute extracts the archive, it honors the go-flags.Commander interface.
func (c *Extract) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.run(ctx)
}

func (c *Extract) run(ctx context.Context) error {
	a, err := rez.Open(string(c.Args.Archive))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(c.Output, 0o750); err != nil {
		return err
	}

	var (
		files int64
		bytes int64
	)
	opts := rez.ExtractOptions{
		Root:       c.Args.Path,
		Rules:      c.rules(),
		MaxWorkers: c.Workers,
		RawNames:   c.RawNames,
		OnEntryDone: func(path string, _ *rez.File, written int64) {
			atomic.AddInt64(&files, 1)
			atomic.AddInt64(&bytes, written)
			logrus.WithFields(logrus.Fields{
				"path": path,
				"size": written,
			}).Debug("file extracted")
		},
	}

	start := time.Now()
	if err := a.Extract(ctx, osfs.New(c.Output), opts); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"archive": c.Args.Archive,
		"output":  c.Output,
		"files":   atomic.LoadInt64(&files),
		"bytes":   atomic.LoadInt64(&bytes),
		"elapsed": time.Since(start).String(),
	}).Info("extraction finished")

	return nil
}

// rules converts the pattern flags into ordered path rules.
func (c *Extract) rules() []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(c.Include)+len(c.Exclude))
	for _, pattern := range c.Include {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: pattern})
	}
	for _, pattern := range c.Exclude {
		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: pattern})
	}

	return rules
}
