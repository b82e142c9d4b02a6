// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"bytes"
	"io"
	"runtime"
	"time"

	"github.com/woozymasta/pathrules"
)

// Internal binary layout.
const (
	headerSize       = 168 // fixed header size in bytes
	descriptionSize  = 127 // free-form text region before header fields
	headerFieldCount = 10  // u32 fields at descriptionSize
	dirRecordBase    = 17  // tag + 3 fields + name terminator
	fileRecordBase   = 30  // tag + 6 fields + name and comment terminators

	signatureStart = 2
	signatureEnd   = 62
	titleStart     = 64
	titleEnd       = 124
)

// EntryType is the on-disk record tag.
type EntryType uint32

// Record tags.
const (
	EntryTypeFile      EntryType = 0
	EntryTypeDirectory EntryType = 1
)

// DefaultSignature is the signature written by Monolith RezMgr.
const DefaultSignature = "RezMgr Version 1 Copyright (C) 1995 MONOLITH INC."

// Header is the archive header.
type Header struct {
	// ModTime is the archive last-modified time.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	// Signature is the human-readable format signature.
	Signature string `json:"signature" yaml:"signature"`
	// UserTitle is free-form text set by the archive author.
	UserTitle string `json:"user_title,omitempty" yaml:"user_title,omitempty"`
	// Version is the format version; only 1 is supported.
	Version uint32 `json:"version" yaml:"version"`
	// NextWriteOffset is where a writer would append the next record.
	NextWriteOffset uint32 `json:"next_write_offset" yaml:"next_write_offset"`
	// LargestKeyArray is the largest key count of any file.
	LargestKeyArray uint32 `json:"largest_key_array" yaml:"largest_key_array"`
	// LargestDirNameSize is the longest directory name in bytes.
	LargestDirNameSize uint32 `json:"largest_dir_name_size" yaml:"largest_dir_name_size"`
	// LargestFileNameSize is the longest file name in bytes.
	LargestFileNameSize uint32 `json:"largest_file_name_size" yaml:"largest_file_name_size"`
	// LargestCommentSize is the longest comment in bytes.
	LargestCommentSize uint32 `json:"largest_comment_size" yaml:"largest_comment_size"`
	// Sorted is an informational hint; the reader never relies on it.
	Sorted bool `json:"sorted" yaml:"sorted"`
}

// DefaultHeader returns the header template of an empty archive.
func DefaultHeader() Header {
	return Header{
		Signature: DefaultSignature,
		Version:   1,
		ModTime:   time.Now().UTC().Truncate(time.Second),
	}
}

// Entry is a *Directory or a *File.
type Entry interface {
	// Info returns fields shared by both entry kinds.
	Info() *EntryInfo
	// IsDir reports whether the entry is a *Directory.
	IsDir() bool

	entry()
}

// EntryInfo holds the fields common to directories and files.
type EntryInfo struct {
	// ModTime is the entry last-modified time.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
	// Name is the stored name, without extension.
	Name string `json:"name" yaml:"name"`
	// Offset is the record offset; -1 for the root.
	Offset int64 `json:"offset" yaml:"offset"`
	// Size is the on-disk record length; -1 for the root.
	Size int64 `json:"size" yaml:"size"`
	// ContentOffset is where the directory block or file payload starts.
	ContentOffset uint32 `json:"content_offset" yaml:"content_offset"`
	// ContentSize is the directory block or file payload length.
	ContentSize uint32 `json:"content_size" yaml:"content_size"`
}

// Directory is a directory entry. Its children are loaded on demand.
type Directory struct {
	entries []Entry
	EntryInfo
	expanded bool
}

// Info returns shared entry fields.
func (d *Directory) Info() *EntryInfo { return &d.EntryInfo }

// IsDir reports true.
func (d *Directory) IsDir() bool { return true }

func (d *Directory) entry() {}

// Expanded reports whether the child list was read.
func (d *Directory) Expanded() bool { return d.expanded }

// Entries returns a copy of the child list in on-disk order; nil until expanded.
func (d *Directory) Entries() []Entry {
	if !d.expanded {
		return nil
	}

	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// File is a file entry.
type File struct {
	content []byte
	// Extension is the up-to-4-character type, already put back in reading order.
	Extension string `json:"extension,omitempty" yaml:"extension,omitempty"`
	// Comment is free-form text.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// Keys are numeric engine keys attached to the file.
	Keys []uint32 `json:"keys,omitempty" yaml:"keys,omitempty"`
	EntryInfo
	// ID is the numeric file id.
	ID     uint32 `json:"id" yaml:"id"`
	loaded bool
}

// Info returns shared entry fields.
func (f *File) Info() *EntryInfo { return &f.EntryInfo }

// IsDir reports false.
func (f *File) IsDir() bool { return false }

func (f *File) entry() {}

// Loaded reports whether the content view was materialized.
func (f *File) Loaded() bool { return f.loaded }

// Content returns the payload view; it aliases the archive buffer and must
// not be modified. Nil until loaded.
func (f *File) Content() []byte { return f.content }

// Open returns a reader over the loaded payload.
func (f *File) Open() io.ReadSeeker { return bytes.NewReader(f.content) }

// DisplayName returns name + "." + extension for files with an extension and the bare name otherwise.
func DisplayName(e Entry) string {
	if f, ok := e.(*File); ok && f.Extension != "" {
		return f.Name + "." + f.Extension
	}

	return e.Info().Name
}

// Stats reports resolver activity of one archive handle.
type Stats struct {
	// CachedPaths is the number of paths in the lookup cache.
	CachedPaths int `json:"cached_paths" yaml:"cached_paths"`
	// DirectoryScans counts directory blocks parsed from the buffer.
	DirectoryScans int `json:"directory_scans" yaml:"directory_scans"`
	// FilesLoaded counts file content views materialized.
	FilesLoaded int `json:"files_loaded" yaml:"files_loaded"`
}

// WalkFunc is called for every entry visited by Walk. path is slash-separated
// and relative to the archive root; the root itself is ".". Returning
// fs.SkipDir from a directory skips its children, from a file the remaining
// siblings; fs.SkipAll stops the walk.
type WalkFunc func(path string, entry Entry) error

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one file is written. It may be called from several goroutines.
	OnEntryDone func(path string, file *File, written int64) `json:"-" yaml:"-"`
	// Root limits extraction to the subtree below this archive path; empty means the whole archive.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`
	// Rules select files by path relative to Root; empty means all files.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitempty"`
	// MaxWorkers is number of write workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// RawNames disables filesystem-safe rewriting of entry names.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = runtime.GOMAXPROCS(0)
	}

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
		if !hasIncludeRule(opts.Rules) {
			opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
	}
}

// hasIncludeRule reports whether rules carry at least one include pattern.
func hasIncludeRule(rules []pathrules.Rule) bool {
	for _, rule := range rules {
		if rule.Action == pathrules.ActionInclude {
			return true
		}
	}

	return false
}
