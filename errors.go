// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"errors"
	"fmt"
)

// Sentinel errors for REZ operations. Use errors.Is in callers.
var (
	// ErrFormat means the archive bytes are structurally invalid and cannot be trusted.
	ErrFormat = errors.New("invalid REZ archive")
	// ErrArchiveTooSmall means the buffer cannot hold the fixed header.
	ErrArchiveTooSmall = fmt.Errorf("%w: buffer smaller than header", ErrFormat)
	// ErrOutOfBounds means a declared offset or size points outside the buffer or its parent block.
	ErrOutOfBounds = fmt.Errorf("%w: range out of bounds", ErrFormat)
	// ErrUnsupportedVersion means the header version is not 1.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrFormat)
	// ErrUnknownEntryType means a directory block holds a record tag other than file or directory.
	ErrUnknownEntryType = fmt.Errorf("%w: unknown entry type", ErrFormat)
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrNotFile means a file operation was called on a directory.
	ErrNotFile = errors.New("entry is a directory")
	// ErrNotDirectory means a directory operation was called on a file.
	ErrNotDirectory = errors.New("entry is not a directory")
	// ErrNilFilesystem means the extraction target is nil.
	ErrNilFilesystem = errors.New("filesystem is nil")
	// ErrInvalidRules means one or more extract path rules are invalid.
	ErrInvalidRules = errors.New("invalid extract rules")
	// ErrInvalidExtractPath means an archive entry name is unsafe for extraction.
	ErrInvalidExtractPath = errors.New("invalid extract path")
)
