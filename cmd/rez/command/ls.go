// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package command

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jessevdk/go-flags"
	digest "github.com/opencontainers/go-digest"
	"github.com/sirupsen/logrus"

	"github.com/woozymasta/rez"
)

const (
	LsDescription = "List the entries of a REZ archive"
	LsHelp        = LsDescription + "\n\n" +
		"Lists every entry below PATH (the whole archive by default) in\n" +
		"on-disk order. With --digest the sha256 digest of each file is added."
)

// Ls represents the `ls` command of rez cli tool.
type Ls struct {
	Logging
	output

	Format string `short:"f" long:"format" default:"text" choice:"text" choice:"json" choice:"yaml" description:"Output format"`
	Digest bool   `long:"digest" description:"Add the sha256 digest of every file"`
	Args   struct {
		Archive flags.Filename `positional-arg-name:"archive" required:"yes" description:"REZ archive file"`
		Path    string         `positional-arg-name:"path" description:"Archive path to list"`
	} `positional-args:"yes"`
}

// listing is one row of the ls output.
type listing struct {
	ModTime   time.Time `json:"mod_time" yaml:"mod_time"`
	Path      string    `json:"path" yaml:"path"`
	Type      string    `json:"type" yaml:"type"`
	Comment   string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	Digest    string    `json:"digest,omitempty" yaml:"digest,omitempty"`
	Keys      []uint32  `json:"keys,omitempty" yaml:"keys,omitempty"`
	Offset    int64     `json:"offset" yaml:"offset"`
	Size      uint32    `json:"size" yaml:"size"`
	ID        uint32    `json:"id,omitempty" yaml:"id,omitempty"`
	Directory bool      `json:"-" yaml:"-"`
}

// Execute lists the archive tree, it honors the go-flags.Commander interface.
func (c *Ls) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	a, err := rez.Open(string(c.Args.Archive))
	if err != nil {
		return err
	}

	rows, err := collectListing(a, c.Args.Path)
	if err != nil {
		return err
	}

	if c.Digest {
		if err := addDigests(a, rows); err != nil {
			return err
		}
	}

	logrus.WithFields(logrus.Fields{
		"archive": c.Args.Archive,
		"entries": len(rows),
		"scans":   a.Stats().DirectoryScans,
	}).Debug("archive listed")

	if c.Format != "" && c.Format != FormatText {
		return encode(c.writer(), c.Format, rows)
	}

	return c.writeText(rows)
}

// collectListing walks root and returns one row per entry. A directory root
// itself is not listed.
func collectListing(a *rez.Archive, root string) ([]listing, error) {
	var rows []listing
	first := true
	err := a.Walk(root, func(p string, e rez.Entry) error {
		if first {
			first = false
			if e.IsDir() {
				return nil
			}
		}

		info := e.Info()
		row := listing{
			Path:    p,
			Type:    "file",
			Offset:  info.Offset,
			Size:    info.ContentSize,
			ModTime: info.ModTime,
		}
		if f, ok := e.(*rez.File); ok {
			row.ID = f.ID
			row.Comment = f.Comment
			row.Keys = f.Keys
		} else {
			row.Type = "dir"
			row.Directory = true
		}

		rows = append(rows, row)
		return nil
	})

	return rows, err
}

// addDigests fills the sha256 digest of every file row.
func addDigests(a *rez.Archive, rows []listing) error {
	for i := range rows {
		if rows[i].Directory {
			continue
		}

		data, err := a.ReadFile(rows[i].Path)
		if err != nil {
			return err
		}

		rows[i].Digest = digest.FromBytes(data).String()
	}

	return nil
}

func (c *Ls) writeText(rows []listing) error {
	tw := tabwriter.NewWriter(c.writer(), 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s", r.Type, r.Size, r.ModTime.Format(time.RFC3339), r.Path)
		if c.Digest && !r.Directory {
			fmt.Fprintf(tw, "\t%s", r.Digest)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
