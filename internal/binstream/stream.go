// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

// Package binstream implements a positional little-endian reader over a
// fixed byte buffer.
package binstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer means a read or seek went past the end of the buffer.
	ErrShortBuffer = errors.New("read past end of buffer")
	// ErrUnterminated means a NUL-terminated string has no terminator.
	ErrUnterminated = errors.New("unterminated string")
)

// Stream reads typed scalars from buf starting at the current offset.
// Views returned by Bytes and Sub share memory with buf.
type Stream struct {
	buf []byte
	off int
}

// New returns a stream positioned at the start of buf.
func New(buf []byte) *Stream {
	return &Stream{buf: buf}
}

// Len returns the size of the underlying buffer.
func (s *Stream) Len() int {
	return len(s.buf)
}

// Offset returns the current absolute position.
func (s *Stream) Offset() int {
	return s.off
}

// Remaining returns the number of unread bytes.
func (s *Stream) Remaining() int {
	return len(s.buf) - s.off
}

// Seek moves to absolute offset off. Seeking exactly to the end is allowed.
func (s *Stream) Seek(off int) error {
	if off < 0 || off > len(s.buf) {
		return fmt.Errorf("%w: seek to %d, size %d", ErrShortBuffer, off, len(s.buf))
	}

	s.off = off
	return nil
}

// Bytes returns the next n bytes as a capacity-clamped view and advances.
func (s *Stream) Bytes(n int) ([]byte, error) {
	if n < 0 || n > s.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at %d, have %d", ErrShortBuffer, n, s.off, s.Remaining())
	}

	end := s.off + n
	view := s.buf[s.off:end:end]
	s.off = end
	return view, nil
}

// Uint8 reads one byte.
func (s *Stream) Uint8() (uint8, error) {
	b, err := s.Bytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Uint32 reads one little-endian uint32.
func (s *Stream) Uint32() (uint32, error) {
	b, err := s.Bytes(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// Uint32s fills dst with consecutive little-endian uint32 values.
func (s *Stream) Uint32s(dst []uint32) error {
	b, err := s.Bytes(4 * len(dst))
	if err != nil {
		return err
	}

	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(b[i*4:])
	}

	return nil
}

// Int32s fills dst with consecutive little-endian int32 values.
func (s *Stream) Int32s(dst []int32) error {
	b, err := s.Bytes(4 * len(dst))
	if err != nil {
		return err
	}

	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(b[i*4:])) //nolint:gosec // two's complement reinterpretation
	}

	return nil
}

// CString reads bytes up to the next NUL and consumes the terminator.
// The returned view excludes the terminator.
func (s *Stream) CString() ([]byte, error) {
	idx := bytes.IndexByte(s.buf[s.off:], 0)
	if idx < 0 {
		return nil, fmt.Errorf("%w at %d", ErrUnterminated, s.off)
	}

	raw, _ := s.Bytes(idx)
	s.off++
	return raw, nil
}

// Slice returns a view of buf[off:off+n] without moving the cursor.
func (s *Stream) Slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(s.buf) || n > len(s.buf)-off {
		return nil, fmt.Errorf("%w: range %d+%d, size %d", ErrShortBuffer, off, n, len(s.buf))
	}

	end := off + n
	return s.buf[off:end:end], nil
}
