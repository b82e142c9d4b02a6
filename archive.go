// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"fmt"
	"os"

	"github.com/woozymasta/rez/internal/binstream"
)

// Archive provides read-only access to a REZ archive held in memory.
//
// Directories are parsed lazily while paths are resolved, and every entry
// seen on the way is cached by its full path. An Archive is not safe for
// concurrent use; File content views alias the buffer passed to OpenBytes.
type Archive struct {
	// s reads records from the archive buffer.
	s *binstream.Stream
	// cache maps normalized paths ("/a/b/") to resolved entries.
	cache map[string]Entry
	// root is the synthetic top directory; it is never cached.
	root *Directory
	// header is the parsed fixed header.
	header Header
	// stats tracks resolver activity.
	stats Stats
}

// Open reads the archive file at path into memory and parses its header.
func Open(path string) (*Archive, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open REZ: %w", err)
	}

	return OpenBytes(buf)
}

// OpenBytes validates the header of buf and returns an archive handle over it.
// buf must not be modified while the archive or any File view is in use.
func OpenBytes(buf []byte) (*Archive, error) {
	s := binstream.New(buf)

	hdr, root, err := parseHeader(s)
	if err != nil {
		return nil, err
	}

	return &Archive{
		s:      s,
		cache:  make(map[string]Entry),
		root:   root,
		header: hdr,
	}, nil
}

// New returns an empty archive over the default header template.
func New() *Archive {
	hdr := DefaultHeader()

	return &Archive{
		s:      binstream.New(nil),
		cache:  make(map[string]Entry),
		root:   newRoot(0, 0, hdr.ModTime),
		header: hdr,
	}
}

// Header returns the parsed archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Root returns the root directory.
func (a *Archive) Root() *Directory {
	return a.root
}

// Stats returns resolver counters.
func (a *Archive) Stats() Stats {
	st := a.stats
	st.CachedPaths = len(a.cache)
	return st
}

// GetEntry resolves path to an entry. Path segments are matched against
// display names exactly. When includeContent is set, a directory's children
// or a file's content view are loaded before returning.
//
// A miss (empty path, missing segment, or a file used as a directory)
// returns nil and a nil error. Errors are reserved for corrupt archive data.
func (a *Archive) GetEntry(path string, includeContent bool) (Entry, error) {
	if path == "" {
		return nil, nil
	}

	fullPath := NormalizePath(path)

	// Deepest cached ancestor, or root.
	var entry Entry
	matched := fullPath
	for matched != "/" {
		if cached, ok := a.cache[matched]; ok {
			entry = cached
			break
		}

		matched = parentPath(matched)
	}
	if entry == nil {
		entry = a.root
		matched = "/"
	}

	for _, segment := range splitSegments(fullPath[len(matched):]) {
		dir, ok := entry.(*Directory)
		if !ok {
			return nil, nil
		}

		children, err := a.expand(dir, matched)
		if err != nil {
			return nil, err
		}

		var next Entry
		for _, child := range children {
			if DisplayName(child) == segment {
				next = child
			}
		}
		if next == nil {
			return nil, nil
		}

		entry = next
		matched += segment + "/"
	}

	if includeContent {
		if err := a.materialize(entry, matched); err != nil {
			return nil, err
		}
	}

	return entry, nil
}

// Stat resolves path without loading content.
func (a *Archive) Stat(path string) (Entry, error) {
	return a.GetEntry(path, false)
}

// Get resolves path and loads its content.
func (a *Archive) Get(path string) (Entry, error) {
	return a.GetEntry(path, true)
}

// ReadFile returns the content view of the file at path. The returned slice
// aliases the archive buffer and must not be modified.
func (a *Archive) ReadFile(path string) ([]byte, error) {
	e, err := a.GetEntry(path, true)
	if err != nil {
		return nil, err
	}

	switch v := e.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	case *File:
		return v.Content(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotFile, path)
	}
}

// ReadDir returns the children of the directory at path in on-disk order.
func (a *Archive) ReadDir(path string) ([]Entry, error) {
	e, err := a.GetEntry(path, true)
	if err != nil {
		return nil, err
	}

	switch v := e.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, path)
	case *Directory:
		return v.Entries(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
}

// materialize loads directory children or a file view for an entry at dirPath.
func (a *Archive) materialize(e Entry, dirPath string) error {
	switch v := e.(type) {
	case *Directory:
		_, err := a.expand(v, dirPath)
		return err
	case *File:
		return a.load(v)
	}

	return nil
}

// expand returns dir's children, scanning its block once and caching every
// child under dirPath + display name.
func (a *Archive) expand(dir *Directory, dirPath string) ([]Entry, error) {
	if dir.expanded {
		return dir.entries, nil
	}

	entries, err := a.scanDirectory(dir.ContentOffset, dir.ContentSize)
	if err != nil {
		return nil, fmt.Errorf("scan directory %s: %w", dirPath, err)
	}

	for _, child := range entries {
		a.cache[dirPath+DisplayName(child)+"/"] = child
	}

	dir.entries = entries
	dir.expanded = true
	return entries, nil
}

// load materializes a file's bounded view of the archive buffer.
func (a *Archive) load(f *File) error {
	if f.loaded {
		return nil
	}

	view, err := a.s.Slice(int(f.ContentOffset), int(f.ContentSize))
	if err != nil {
		return fmt.Errorf("%w: file %s content: %w", ErrOutOfBounds, DisplayName(f), err)
	}

	f.content = view
	f.loaded = true
	a.stats.FilesLoaded++
	return nil
}
