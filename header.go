// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/woozymasta/rez/internal/binstream"
)

// parseHeader validates the fixed header and builds the header and root directory.
// Checks run in order: size, root block bounds, next-write offset, version.
func parseHeader(s *binstream.Stream) (Header, *Directory, error) {
	size := s.Len()
	if size < headerSize {
		return Header{}, nil, fmt.Errorf("%w: %d bytes, need %d", ErrArchiveTooSmall, size, headerSize)
	}

	description, err := s.Slice(0, descriptionSize)
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	var fields [headerFieldCount]uint32
	if err := s.Seek(descriptionSize); err != nil {
		return Header{}, nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err := s.Uint32s(fields[:]); err != nil {
		return Header{}, nil, fmt.Errorf("%w: read header fields: %w", ErrFormat, err)
	}

	sorted, err := s.Uint8()
	if err != nil {
		return Header{}, nil, fmt.Errorf("%w: read sorted flag: %w", ErrFormat, err)
	}

	version := fields[0]
	rootOffset, rootSize := fields[1], fields[2]
	nextWrite := fields[4]

	if uint64(rootOffset)+uint64(rootSize) > uint64(size) {
		return Header{}, nil, fmt.Errorf("%w: root block %d+%d, archive size %d", ErrOutOfBounds, rootOffset, rootSize, size)
	}
	if nextWrite < headerSize || uint64(nextWrite) > uint64(size) {
		return Header{}, nil, fmt.Errorf("%w: next write offset %d outside [%d, %d]", ErrOutOfBounds, nextWrite, headerSize, size)
	}
	if version != 1 {
		return Header{}, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	hdr := Header{
		Signature:           decodeText(description[signatureStart:signatureEnd]),
		UserTitle:           decodeText(description[titleStart:titleEnd]),
		Version:             version,
		NextWriteOffset:     nextWrite,
		ModTime:             unixTime(fields[5]),
		LargestKeyArray:     fields[6],
		LargestDirNameSize:  fields[7],
		LargestFileNameSize: fields[8],
		LargestCommentSize:  fields[9],
		Sorted:              sorted != 0,
	}

	root := newRoot(rootOffset, rootSize, unixTime(fields[3]))
	return hdr, root, nil
}

// newRoot builds the synthetic root directory.
func newRoot(contentOffset, contentSize uint32, modTime time.Time) *Directory {
	return &Directory{
		EntryInfo: EntryInfo{
			Offset:        -1,
			Size:          -1,
			ContentOffset: contentOffset,
			ContentSize:   contentSize,
			ModTime:       modTime,
		},
	}
}

// decodeText decodes a fixed text region: cut at the first NUL, Windows-1252, trailing blanks trimmed.
func decodeText(raw []byte) string {
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}

	return strings.TrimRight(decodeName(raw), " \t\r\n\x1a")
}

// decodeName converts stored Windows-1252 bytes to UTF-8.
func decodeName(raw []byte) string {
	ascii := true
	for _, b := range raw {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return string(raw)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}

	return string(decoded)
}

// unixTime converts stored epoch seconds to UTC time.
func unixTime(sec uint32) time.Time {
	return time.Unix(int64(sec), 0).UTC()
}
