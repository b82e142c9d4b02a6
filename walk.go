// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"errors"
	"fmt"
	"io/fs"
)

// Walk visits root and everything below it depth-first in on-disk order,
// expanding and caching directories as it goes. An empty root walks the
// whole archive. File content is not loaded.
func (a *Archive) Walk(root string, fn WalkFunc) error {
	if root == "" {
		root = "/"
	}

	start, err := a.GetEntry(root, false)
	if err != nil {
		return err
	}
	if start == nil {
		return fmt.Errorf("%w: %s", ErrEntryNotFound, root)
	}

	err = a.walk(NormalizePath(root), start, fn)
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}

	return err
}

// walk calls fn for e and, for directories, recurses into the children.
func (a *Archive) walk(entryPath string, e Entry, fn WalkFunc) error {
	if err := fn(relativePath(entryPath), e); err != nil {
		return err
	}

	dir, ok := e.(*Directory)
	if !ok {
		return nil
	}

	children, err := a.expand(dir, entryPath)
	if err != nil {
		return err
	}

	for _, child := range children {
		err := a.walk(entryPath+DisplayName(child)+"/", child, fn)
		if err == nil {
			continue
		}
		if errors.Is(err, fs.SkipDir) {
			if child.IsDir() {
				continue
			}

			return nil
		}

		return err
	}

	return nil
}
