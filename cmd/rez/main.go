// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/woozymasta/rez/cmd/rez/command"
)

const (
	name = "rez"
)

var (
	version = "dev"
	build   = "unknown"
)

func main() {
	parser := flags.NewNamedParser(name, flags.Default)

	parser.AddCommand("info", command.InfoDescription, command.InfoHelp,
		&command.Info{})

	parser.AddCommand("ls", command.LsDescription, command.LsHelp,
		&command.Ls{})

	parser.AddCommand("cat", command.CatDescription, command.CatHelp,
		&command.Cat{})

	parser.AddCommand("extract", command.ExtractDescription, command.ExtractHelp,
		&command.Extract{})

	parser.AddCommand("image", command.ImageDescription, command.ImageHelp,
		&command.Image{})

	parser.AddCommand("version", command.VersionDescription, command.VersionHelp,
		&command.Version{
			Name:    name,
			Version: version,
			Build:   build,
		})

	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrCommandRequired {
			parser.WriteHelp(os.Stdout)
		}

		os.Exit(1)
	}
}
