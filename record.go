// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"encoding/binary"
	"fmt"
)

// parseDirectory decodes the directory record whose tag sits at offset.
func (a *Archive) parseDirectory(offset int) (*Directory, error) {
	if err := a.s.Seek(offset + 4); err != nil {
		return nil, fmt.Errorf("%w: directory record at %d: %w", ErrFormat, offset, err)
	}

	var fields [3]uint32
	if err := a.s.Uint32s(fields[:]); err != nil {
		return nil, fmt.Errorf("%w: directory record at %d: %w", ErrFormat, offset, err)
	}

	name, err := a.s.CString()
	if err != nil {
		return nil, fmt.Errorf("%w: directory name at %d: %w", ErrFormat, offset, err)
	}

	return &Directory{
		EntryInfo: EntryInfo{
			Offset:        int64(offset),
			Size:          int64(dirRecordBase + len(name)),
			ContentOffset: fields[0],
			ContentSize:   fields[1],
			ModTime:       unixTime(fields[2]),
			Name:          decodeName(name),
		},
	}, nil
}

// parseFile decodes the file record whose tag sits at offset.
func (a *Archive) parseFile(offset int) (*File, error) {
	if err := a.s.Seek(offset + 4); err != nil {
		return nil, fmt.Errorf("%w: file record at %d: %w", ErrFormat, offset, err)
	}

	var fields [6]uint32
	if err := a.s.Uint32s(fields[:]); err != nil {
		return nil, fmt.Errorf("%w: file record at %d: %w", ErrFormat, offset, err)
	}

	name, err := a.s.CString()
	if err != nil {
		return nil, fmt.Errorf("%w: file name at %d: %w", ErrFormat, offset, err)
	}

	comment, err := a.s.CString()
	if err != nil {
		return nil, fmt.Errorf("%w: file comment at %d: %w", ErrFormat, offset, err)
	}

	keyCount := fields[5]
	if uint64(keyCount)*4 > uint64(a.s.Remaining()) {
		return nil, fmt.Errorf("%w: file record at %d declares %d keys past end of archive", ErrOutOfBounds, offset, keyCount)
	}

	var keys []uint32
	if keyCount > 0 {
		keys = make([]uint32, keyCount)
		if err := a.s.Uint32s(keys); err != nil {
			return nil, fmt.Errorf("%w: file keys at %d: %w", ErrFormat, offset, err)
		}
	}

	return &File{
		EntryInfo: EntryInfo{
			Offset:        int64(offset),
			Size:          int64(fileRecordBase+len(name)+len(comment)) + 4*int64(keyCount),
			ContentOffset: fields[0],
			ContentSize:   fields[1],
			ModTime:       unixTime(fields[2]),
			Name:          decodeName(name),
		},
		ID:        fields[3],
		Extension: unpackExtension(fields[4]),
		Comment:   decodeName(comment),
		Keys:      keys,
	}, nil
}

// unpackExtension restores the extension stored back-to-front in a u32 field.
func unpackExtension(packed uint32) string {
	var raw [4]byte
	binary.LittleEndian.PutUint32(raw[:], packed)

	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}

	ext := make([]byte, n)
	for i := range n {
		ext[i] = raw[n-1-i]
	}

	return decodeName(ext)
}

// scanDirectory parses every record of a directory block in on-disk order.
func (a *Archive) scanDirectory(contentOffset, contentSize uint32) ([]Entry, error) {
	start := int64(contentOffset)
	end := start + int64(contentSize)
	if end > int64(a.s.Len()) {
		return nil, fmt.Errorf("%w: directory block %d+%d, archive size %d", ErrOutOfBounds, contentOffset, contentSize, a.s.Len())
	}

	a.stats.DirectoryScans++

	entries := make([]Entry, 0, estimateEntryCapacity(int64(contentSize)))
	for off := int(start); int64(off) < end; off = a.s.Offset() {
		if err := a.s.Seek(off); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}

		tag, err := a.s.Uint32()
		if err != nil {
			return nil, fmt.Errorf("%w: record tag at %d: %w", ErrFormat, off, err)
		}

		var e Entry
		switch EntryType(tag) {
		case EntryTypeDirectory:
			e, err = a.parseDirectory(off)
		case EntryTypeFile:
			e, err = a.parseFile(off)
		default:
			return nil, fmt.Errorf("%w %d at offset %d", ErrUnknownEntryType, tag, off)
		}
		if err != nil {
			return nil, err
		}

		if int64(a.s.Offset()) > end {
			return nil, fmt.Errorf("%w: record at %d ends at %d past directory block end %d", ErrOutOfBounds, off, a.s.Offset(), end)
		}

		entries = append(entries, e)
	}

	return entries, nil
}

// estimateEntryCapacity returns a conservative initial capacity for a directory block.
func estimateEntryCapacity(blockSize int64) int {
	const (
		minCap = 4
		maxCap = 1024
		// typical record with a short name and no keys.
		avgRecordBytes = 32
	)

	return int(min(max(blockSize/avgRecordBytes, minCap), maxCap))
}
