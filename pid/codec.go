// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package pid

import "fmt"

// DecodeRLE expands run-length packed pixels into a width*height index buffer.
//
// A control byte with the high bit set emits (ctrl & 0x7F) transparent pixels;
// otherwise ctrl literal indices follow it. The row advances once the column
// reaches width.
func DecodeRLE(packed []byte, width, height int, transparent byte) ([]byte, error) {
	dst, err := allocPixels(width, height)
	if err != nil {
		return nil, err
	}

	src := 0
	x, y := 0, 0
	for y < height {
		if src >= len(packed) {
			return nil, fmt.Errorf("%w: control byte at %d (row %d)", ErrTruncated, src, y)
		}

		ctrl := packed[src]
		src++

		run := int(ctrl & 0x7F)
		if x+run > width {
			return nil, fmt.Errorf("%w: run of %d at column %d, width %d (row %d)", ErrRunOverflow, run, x, width, y)
		}

		row := dst[y*width : (y+1)*width]
		if ctrl&0x80 != 0 {
			for i := range run {
				row[x+i] = transparent
			}
		} else {
			if run > len(packed)-src {
				return nil, fmt.Errorf("%w: literal run of %d at %d", ErrTruncated, run, src)
			}

			copy(row[x:x+run], packed[src:src+run])
			src += run
		}

		x += run
		if x >= width {
			x = 0
			y++
		}
	}

	return dst, nil
}

// DecodePacked expands the packed-run scheme into a width*height index buffer.
//
// A control byte with both top bits set is a run of (ctrl & 0x3F) copies of the
// following byte; any other control byte is itself one literal pixel.
func DecodePacked(packed []byte, width, height int) ([]byte, error) {
	dst, err := allocPixels(width, height)
	if err != nil {
		return nil, err
	}

	src, out := 0, 0
	for y := range height {
		remaining := width
		for remaining > 0 {
			if src >= len(packed) {
				return nil, fmt.Errorf("%w: control byte at %d (row %d)", ErrTruncated, src, y)
			}

			ctrl := packed[src]
			src++

			if ctrl&0xC0 != 0xC0 {
				dst[out] = ctrl
				out++
				remaining--
				continue
			}

			run := int(ctrl & 0x3F)
			if src >= len(packed) {
				return nil, fmt.Errorf("%w: run index at %d (row %d)", ErrTruncated, src, y)
			}
			if run > remaining {
				return nil, fmt.Errorf("%w: run of %d with %d pixels left (row %d)", ErrRunOverflow, run, remaining, y)
			}

			index := packed[src]
			src++
			for i := range run {
				dst[out+i] = index
			}

			out += run
			remaining -= run
		}
	}

	return dst, nil
}

// allocPixels validates dimensions and allocates the destination buffer.
func allocPixels(width, height int) ([]byte, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrFormat, width, height)
	}
	if width > 0 && height > maxPixels/width {
		return nil, fmt.Errorf("%w: dimensions %dx%d too large", ErrFormat, width, height)
	}

	return make([]byte, width*height), nil
}
