// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

/*
Package pid decodes PID sprite images stored in REZ archives.

A PID image is a 32-byte header of eight little-endian int32 fields, packed
8-bit palette indices and an optional 768-byte RGB palette. Two pixel codecs
exist, selected by FlagRLECompression:

  - RLE: a control byte with the high bit set emits (ctrl & 0x7F)
    transparent pixels, otherwise ctrl literal bytes follow;
  - packed runs: a control byte with both top bits set repeats the next
    byte (ctrl & 0x3F) times, any other byte is one literal pixel.

Decoding never writes outside the pixel buffer: runs that overshoot a row
fail with ErrRunOverflow and short input fails with ErrTruncated.

	img, err := pid.DecodeBytes(data)
	if err != nil {
	    return err
	}
	paletted, err := img.Paletted(pid.GrayscalePalette())
	if err != nil {
	    return err
	}
	return png.Encode(w, paletted)
*/
package pid
