// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

// Package command implements the subcommands of the rez cli tool.
package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	// ErrUnknownFormat is returned for an output format the command cannot write.
	ErrUnknownFormat = errors.NewKind("unknown output format: %s")
	// ErrImageSource is returned when image gets neither an archive entry nor --raw.
	ErrImageSource = errors.NewKind("an archive and an image path, or --raw, are required")
)

// Logging holds the logging flags shared by every command.
type Logging struct {
	Verbose  bool   `short:"v" description:"Activates the verbose mode"`
	LogLevel string `long:"log-level" env:"REZ_LOG_LEVEL" choice:"info" choice:"debug" choice:"warning" choice:"error" choice:"fatal" default:"info" description:"logging level"`
}

// setup applies the logging flags to the standard logrus logger.
func (l Logging) setup() error {
	if l.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
		return nil
	}

	// info is the default log level
	if l.LogLevel == "" || l.LogLevel == "info" {
		logrus.SetLevel(logrus.InfoLevel)
		return nil
	}

	level, err := logrus.ParseLevel(l.LogLevel)
	if err != nil {
		return fmt.Errorf("cannot parse log level: %s", err.Error())
	}

	logrus.SetLevel(level)
	return nil
}

// output is embedded by commands that print results.
type output struct {
	// w replaces stdout in tests.
	w io.Writer
}

func (o output) writer() io.Writer {
	if o.w == nil {
		return os.Stdout
	}

	return o.w
}

// encode writes v as indented JSON or YAML.
func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		je := json.NewEncoder(w)
		je.SetIndent("", "  ")
		return je.Encode(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}

		_, err = w.Write(data)
		return err
	default:
		return ErrUnknownFormat.New(format)
	}
}
