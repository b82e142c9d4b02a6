// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package pid

import (
	"errors"
	"fmt"
)

// Sentinel errors for PID decoding. Use errors.Is in callers.
var (
	// ErrFormat means the image data is structurally invalid.
	ErrFormat = errors.New("invalid PID data")
	// ErrTruncated means packed pixel data ended before the image was complete.
	ErrTruncated = fmt.Errorf("%w: packed pixels truncated", ErrFormat)
	// ErrRunOverflow means a run would write past the end of a row.
	ErrRunOverflow = fmt.Errorf("%w: run overflows row", ErrFormat)
	// ErrNoPalette means no palette is available for color conversion.
	ErrNoPalette = errors.New("no palette available")
)
