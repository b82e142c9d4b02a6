// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package pid

import "strings"

// Binary layout constants.
const (
	// HeaderSize is the fixed PID header size (eight int32 fields).
	HeaderSize = 32
	// PaletteSize is the embedded palette size (256 RGB triplets).
	PaletteSize = 768
	// maxPixels bounds width*height to keep allocations sane on garbage input.
	maxPixels = 1 << 28
)

// Flags is the PID header flag bitmask.
type Flags uint32

// PID header flags. Only RLECompression, EmbeddedPalette and KeyIndex affect decoding.
const (
	// FlagTransparent marks the transparent index as see-through.
	FlagTransparent Flags = 0x01
	// FlagUseVideoMemory is a storage hint.
	FlagUseVideoMemory Flags = 0x02
	// FlagUseSystemMemory is a storage hint.
	FlagUseSystemMemory Flags = 0x04
	// FlagMirror is a horizontal flip hint.
	FlagMirror Flags = 0x08
	// FlagInvert is a vertical flip hint.
	FlagInvert Flags = 0x10
	// FlagRLECompression selects the run-length codec instead of the packed-run codec.
	FlagRLECompression Flags = 0x20
	// FlagUseLightEffects has unknown meaning.
	FlagUseLightEffects Flags = 0x40
	// FlagEmbeddedPalette means a 768-byte palette trails the pixel data.
	FlagEmbeddedPalette Flags = 0x80
	// FlagKeyIndex takes the transparent index from the low 16 bits of UserValue1.
	FlagKeyIndex Flags = 0x100
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagTransparent, "transparent"},
	{FlagUseVideoMemory, "video_memory"},
	{FlagUseSystemMemory, "system_memory"},
	{FlagMirror, "mirror"},
	{FlagInvert, "invert"},
	{FlagRLECompression, "rle"},
	{FlagUseLightEffects, "light_effects"},
	{FlagEmbeddedPalette, "embedded_palette"},
	{FlagKeyIndex, "key_index"},
}

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// String lists set flag names separated by "|".
func (f Flags) String() string {
	names := make([]string, 0, len(flagNames))
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}

	return strings.Join(names, "|")
}

// Header is the fixed 32-byte PID header.
type Header struct {
	ID         int32 `json:"id" yaml:"id"`
	Flags      Flags `json:"flags" yaml:"flags"`
	Width      int32 `json:"width" yaml:"width"`
	Height     int32 `json:"height" yaml:"height"`
	X          int32 `json:"x" yaml:"x"`
	Y          int32 `json:"y" yaml:"y"`
	UserValue1 int32 `json:"user_value1" yaml:"user_value1"`
	UserValue2 int32 `json:"user_value2" yaml:"user_value2"`
}

// TransparentIndex returns the palette index used for transparent runs.
func (h Header) TransparentIndex() uint16 {
	if h.Flags.Has(FlagKeyIndex) {
		return uint16(h.UserValue1 & 0xFFFF) //nolint:gosec // masked to 16 bits
	}

	return 0
}

// Image is a decoded PID image.
type Image struct {
	// Pixels holds Width*Height palette indices, row-major.
	Pixels []byte
	// EmbeddedPalette is the raw 768-byte RGB palette; nil when absent.
	EmbeddedPalette []byte
	Header
}
