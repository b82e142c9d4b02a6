// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import "strings"

// NormalizePath converts a lookup path to the cache key form: wrapped in "/"
// with repeated "/" collapsed. "a//b" and "/a/b/" both become "/a/b/".
func NormalizePath(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw) + 2)
	sb.WriteByte('/')

	prevSlash := true
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch == '/' {
			if prevSlash {
				continue
			}

			prevSlash = true
		} else {
			prevSlash = false
		}

		sb.WriteByte(ch)
	}

	if !prevSlash {
		sb.WriteByte('/')
	}

	return sb.String()
}

// parentPath trims the last segment of a normalized path: "/a/b/" -> "/a/".
func parentPath(p string) string {
	if len(p) <= 1 {
		return "/"
	}

	idx := strings.LastIndexByte(p[:len(p)-1], '/')
	if idx < 0 {
		return "/"
	}

	return p[:idx+1]
}

// splitSegments splits the unmatched tail of a normalized path ("b/c/") into segments.
func splitSegments(tail string) []string {
	tail = strings.TrimSuffix(tail, "/")
	if tail == "" {
		return nil
	}

	return strings.Split(tail, "/")
}

// relativePath converts a normalized path to walk form: "/a/b/" -> "a/b", "/" -> ".".
func relativePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "."
	}

	return p
}
