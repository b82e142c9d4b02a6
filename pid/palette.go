// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package pid

import (
	"fmt"
	"image"
	"image/color"
)

// ParsePalette converts 768 bytes of RGB triplets into a 256-color palette.
func ParsePalette(raw []byte) (color.Palette, error) {
	if len(raw) < PaletteSize {
		return nil, fmt.Errorf("%w: palette of %d bytes, want %d", ErrFormat, len(raw), PaletteSize)
	}

	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.RGBA{R: raw[i*3], G: raw[i*3+1], B: raw[i*3+2], A: 0xFF}
	}

	return pal, nil
}

// GrayscalePalette returns a 256-step gray ramp for images without a palette.
func GrayscalePalette() color.Palette {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.RGBA{R: uint8(i), G: uint8(i), B: uint8(i), A: 0xFF} //nolint:gosec // i < 256
	}

	return pal
}

// Palette returns the embedded palette, or nil when the image has none.
// With FlagTransparent set the transparent index is fully see-through.
func (img *Image) Palette() color.Palette {
	if img == nil || img.EmbeddedPalette == nil {
		return nil
	}

	pal, err := ParsePalette(img.EmbeddedPalette)
	if err != nil {
		return nil
	}

	return img.applyTransparency(pal)
}

// Paletted converts the image to a standard library paletted image. The
// embedded palette wins over fallback; fallback is copied before the
// transparent index is applied.
func (img *Image) Paletted(fallback color.Palette) (*image.Paletted, error) {
	pal := img.Palette()
	if pal == nil {
		if len(fallback) == 0 {
			return nil, ErrNoPalette
		}

		pal = img.applyTransparency(append(color.Palette(nil), fallback...))
	}

	w, h := int(img.Width), int(img.Height)
	out := image.NewPaletted(image.Rect(0, 0, w, h), pal)
	copy(out.Pix, img.Pixels)
	return out, nil
}

func (img *Image) applyTransparency(pal color.Palette) color.Palette {
	if !img.Flags.Has(FlagTransparent) {
		return pal
	}

	idx := int(byte(img.TransparentIndex()))
	if idx < len(pal) {
		pal[idx] = color.RGBA{}
	}

	return pal
}
