// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package pid

import (
	"fmt"

	"github.com/woozymasta/rez/internal/binstream"
)

// DecodeBytes decodes a PID image occupying the whole of buf.
func DecodeBytes(buf []byte) (*Image, error) {
	return Decode(buf, len(buf))
}

// Decode decodes a PID image whose encoded size is totalSize bytes from the
// start of buf. The embedded palette, if any, aliases buf.
func Decode(buf []byte, totalSize int) (*Image, error) {
	if totalSize < HeaderSize {
		return nil, fmt.Errorf("%w: size %d smaller than header", ErrFormat, totalSize)
	}
	if totalSize > len(buf) {
		return nil, fmt.Errorf("%w: declared size %d exceeds buffer of %d bytes", ErrFormat, totalSize, len(buf))
	}

	s := binstream.New(buf[:totalSize])

	var fields [8]int32
	if err := s.Int32s(fields[:]); err != nil {
		return nil, fmt.Errorf("%w: read header: %w", ErrFormat, err)
	}

	hdr := Header{
		ID:         fields[0],
		Flags:      Flags(uint32(fields[1])), //nolint:gosec // bitmask reinterpretation
		Width:      fields[2],
		Height:     fields[3],
		X:          fields[4],
		Y:          fields[5],
		UserValue1: fields[6],
		UserValue2: fields[7],
	}

	pixelSize := totalSize - HeaderSize
	if hdr.Flags.Has(FlagEmbeddedPalette) {
		pixelSize -= PaletteSize
	}
	if pixelSize < 0 {
		return nil, fmt.Errorf("%w: size %d too small for header and palette", ErrFormat, totalSize)
	}

	packed, err := s.Bytes(pixelSize)
	if err != nil {
		return nil, fmt.Errorf("%w: read pixel data: %w", ErrFormat, err)
	}

	width, height := int(hdr.Width), int(hdr.Height)

	var pixels []byte
	if hdr.Flags.Has(FlagRLECompression) {
		pixels, err = DecodeRLE(packed, width, height, byte(hdr.TransparentIndex()))
	} else {
		pixels, err = DecodePacked(packed, width, height)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %dx%d pixels: %w", width, height, err)
	}

	img := &Image{Header: hdr, Pixels: pixels}
	if hdr.Flags.Has(FlagEmbeddedPalette) {
		img.EmbeddedPalette, err = s.Bytes(PaletteSize)
		if err != nil {
			return nil, fmt.Errorf("%w: read palette: %w", ErrFormat, err)
		}
	}

	return img, nil
}
