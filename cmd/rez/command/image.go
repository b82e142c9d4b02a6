// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package command

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/woozymasta/rez/assets"
	"github.com/woozymasta/rez/pid"
)

const (
	ImageDescription = "Convert a PID image to PNG"
	ImageHelp        = ImageDescription + "\n\n" +
		"Decodes a PID image stored in an archive (or a loose file with --raw)\n" +
		"and writes it as PNG. Images without an embedded palette use --palette,\n" +
		"--archive-palette or a grayscale ramp, in that order."
)

// Image represents the `image` command of rez cli tool.
type Image struct {
	Logging
	output

	Output         string         `short:"o" long:"output" description:"PNG output file (default: stdout)"`
	Palette        flags.Filename `long:"palette" description:"768-byte RGB palette file on disk"`
	ArchivePalette string         `long:"archive-palette" description:"Archive path of a 768-byte RGB palette"`
	Raw            flags.Filename `long:"raw" description:"Decode a PID file from disk instead of an archive entry"`
	Args           struct {
		Archive flags.Filename `positional-arg-name:"archive" description:"REZ archive file"`
		Path    string         `positional-arg-name:"path" description:"Archive path of the image"`
	} `positional-args:"yes"`
}

// Execute decodes the image and writes a PNG, it honors the go-flags.Commander interface.
func (c *Image) Execute(args []string) error {
	if err := c.setup(); err != nil {
		return err
	}

	fallback, err := c.diskPalette()
	if err != nil {
		return err
	}

	var img *image.Paletted
	switch {
	case c.Raw != "":
		img, err = c.decodeRaw(fallback)
	case c.Args.Archive != "" && c.Args.Path != "":
		img, err = c.decodeEntry(fallback)
	default:
		return ErrImageSource.New()
	}
	if err != nil {
		return err
	}

	return c.writePNG(img)
}

// diskPalette loads --palette; nil when unset.
func (c *Image) diskPalette() (color.Palette, error) {
	if c.Palette == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(string(c.Palette))
	if err != nil {
		return nil, err
	}

	pal, err := pid.ParsePalette(raw)
	if err != nil {
		return nil, fmt.Errorf("palette %s: %w", c.Palette, err)
	}

	return pal, nil
}

func (c *Image) decodeRaw(fallback color.Palette) (*image.Paletted, error) {
	data, err := os.ReadFile(string(c.Raw))
	if err != nil {
		return nil, err
	}

	img, err := pid.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.Raw, err)
	}
	logImage(string(c.Raw), img)

	if fallback == nil {
		fallback = pid.GrayscalePalette()
	}

	return img.Paletted(fallback)
}

func (c *Image) decodeEntry(fallback color.Palette) (*image.Paletted, error) {
	store, err := assets.Open(string(c.Args.Archive), assets.Options{
		Logger:      logrus.StandardLogger(),
		PalettePath: c.ArchivePalette,
		CacheSize:   1,
	})
	if err != nil {
		return nil, err
	}

	if fallback == nil {
		return store.Paletted(c.Args.Path)
	}

	img, err := store.Image(c.Args.Path)
	if err != nil {
		return nil, err
	}
	logImage(c.Args.Path, img)

	return img.Paletted(fallback)
}

func logImage(path string, img *pid.Image) {
	logrus.WithFields(logrus.Fields{
		"path":   path,
		"width":  img.Width,
		"height": img.Height,
		"x":      img.X,
		"y":      img.Y,
		"flags":  img.Flags.String(),
	}).Debug("image decoded")
}

func (c *Image) writePNG(img *image.Paletted) error {
	if c.Output == "" {
		return png.Encode(c.writer(), img)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
