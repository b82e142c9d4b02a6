// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package command

import (
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/woozymasta/rez"
)

const (
	CatDescription = "Write one archive file to stdout"
	CatHelp        = CatDescription
)

// Cat represents the `cat` command of rez cli tool.
type Cat struct {
	Logging
	output

	Args struct {
		Archive flags.Filename `positional-arg-name:"archive" required:"yes" description:"REZ archive file"`
		Path    string         `positional-arg-name:"path" required:"yes" description:"Archive path of the file"`
	} `positional-args:"yes"`
}

// Execute writes the file content, it honors the go-flags.Commander interface.
func (c *Cat) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	a, err := rez.Open(string(c.Args.Archive))
	if err != nil {
		return err
	}

	data, err := a.ReadFile(c.Args.Path)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"path": c.Args.Path,
		"size": len(data),
	}).Debug("writing file content")

	_, err = c.writer().Write(data)
	return err
}
