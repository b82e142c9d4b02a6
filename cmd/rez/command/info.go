// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package command

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/woozymasta/rez"
)

const (
	InfoDescription = "Show the header of a REZ archive"
	InfoHelp        = InfoDescription + "\n\n" +
		"Prints the signature, title, timestamps and the size hints\n" +
		"stored in the archive header."
)

// Info represents the `info` command of rez cli tool.
type Info struct {
	Logging
	output

	Format string `short:"f" long:"format" default:"text" choice:"text" choice:"json" choice:"yaml" description:"Output format"`
	Args   struct {
		Archive flags.Filename `positional-arg-name:"archive" required:"yes" description:"REZ archive file"`
	} `positional-args:"yes"`
}

// infoReport is the structured form of the info output.
type infoReport struct {
	Path   string     `json:"path" yaml:"path"`
	Header rez.Header `json:"header" yaml:"header"`
	Root   rootReport `json:"root" yaml:"root"`
	Size   int64      `json:"size" yaml:"size"`
}

type rootReport struct {
	ModTime       time.Time `json:"mod_time" yaml:"mod_time"`
	ContentOffset uint32    `json:"content_offset" yaml:"content_offset"`
	ContentSize   uint32    `json:"content_size" yaml:"content_size"`
}

// Execute prints the archive header, it honors the go-flags.Commander interface.
func (c *Info) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	path := string(c.Args.Archive)
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	a, err := rez.Open(path)
	if err != nil {
		return err
	}

	root := a.Root()
	report := infoReport{
		Path:   path,
		Size:   fi.Size(),
		Header: a.Header(),
		Root: rootReport{
			ModTime:       root.ModTime,
			ContentOffset: root.ContentOffset,
			ContentSize:   root.ContentSize,
		},
	}
	logrus.WithField("archive", path).Debug("archive header parsed")

	if c.Format != "" && c.Format != FormatText {
		return encode(c.writer(), c.Format, report)
	}

	return writeInfoText(c, report)
}

func writeInfoText(c *Info, r infoReport) error {
	tw := tabwriter.NewWriter(c.writer(), 0, 4, 2, ' ', 0)
	h := r.Header

	fmt.Fprintf(tw, "archive:\t%s\n", r.Path)
	fmt.Fprintf(tw, "size:\t%d\n", r.Size)
	fmt.Fprintf(tw, "signature:\t%s\n", h.Signature)
	fmt.Fprintf(tw, "title:\t%s\n", h.UserTitle)
	fmt.Fprintf(tw, "version:\t%d\n", h.Version)
	fmt.Fprintf(tw, "modified:\t%s\n", h.ModTime.Format(time.RFC3339))
	fmt.Fprintf(tw, "root:\t%d+%d\n", r.Root.ContentOffset, r.Root.ContentSize)
	fmt.Fprintf(tw, "next write:\t%d\n", h.NextWriteOffset)
	fmt.Fprintf(tw, "sorted:\t%t\n", h.Sorted)
	fmt.Fprintf(tw, "largest keys:\t%d\n", h.LargestKeyArray)
	fmt.Fprintf(tw, "largest dir name:\t%d\n", h.LargestDirNameSize)
	fmt.Fprintf(tw, "largest file name:\t%d\n", h.LargestFileNameSize)
	fmt.Fprintf(tw, "largest comment:\t%d\n", h.LargestCommentSize)

	return tw.Flush()
}
