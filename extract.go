// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

package rez

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/woozymasta/pathrules"
	"golang.org/x/sync/errgroup"
	billy "gopkg.in/src-d/go-billy.v4"
)

// extractWorkItem stores one selected file with its prepared output path.
type extractWorkItem struct {
	file    *File
	relPath string
	outPath string
	outDir  string
}

// Extract writes the files below opts.Root that pass opts.Rules into dst.
// Entries are resolved on the calling goroutine; file writes then run on up
// to MaxWorkers goroutines. The first error cancels the remaining writes.
func (a *Archive) Extract(ctx context.Context, dst billy.Filesystem, opts ExtractOptions) error {
	if dst == nil {
		return ErrNilFilesystem
	}

	opts.applyDefaults()

	matcher, err := newExtractMatcher(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return err
	}

	items, err := a.collectExtractItems(dst, opts, matcher)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	if err := prepareExtractDirs(dst, items); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxWorkers)

	// billy implementations do not promise concurrent Create; writes to distinct files are fine.
	var createMu sync.Mutex
	for _, item := range items {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			return extractItem(gctx, dst, &createMu, item, opts.OnEntryDone)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// collectExtractItems walks opts.Root, filters files and loads their views.
func (a *Archive) collectExtractItems(dst billy.Filesystem, opts ExtractOptions, matcher *extractMatcher) ([]extractWorkItem, error) {
	root := opts.Root
	if root == "" {
		root = "/"
	}

	prefix := relativePath(NormalizePath(root))
	unique := newUniquePaths(64)

	var items []extractWorkItem
	err := a.Walk(root, func(entryPath string, e Entry) error {
		f, ok := e.(*File)
		if !ok {
			return nil
		}

		relPath := entryPath
		switch {
		case prefix == ".":
		case entryPath == prefix:
			relPath = DisplayName(f)
		default:
			relPath = strings.TrimPrefix(entryPath, prefix+"/")
		}

		if !matcher.Match(relPath) {
			return nil
		}

		segments, err := outputSegments(relPath, opts.RawNames)
		if err != nil {
			return fmt.Errorf("entry %s: %w", entryPath, err)
		}
		if !opts.RawNames {
			segments = strings.Split(unique.claim(strings.Join(segments, "/")), "/")
		}

		if err := a.load(f); err != nil {
			return err
		}

		item := extractWorkItem{
			file:    f,
			relPath: relPath,
			outPath: dst.Join(segments...),
		}
		if len(segments) > 1 {
			item.outDir = dst.Join(segments[:len(segments)-1]...)
		}

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// outputSegments turns an archive-relative path into output name segments.
func outputSegments(relPath string, raw bool) ([]string, error) {
	segments := strings.Split(relPath, "/")
	for i, segment := range segments {
		if raw {
			if err := checkRawName(segment); err != nil {
				return nil, err
			}

			continue
		}

		segments[i] = SanitizeName(segment)
	}

	return segments, nil
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(dst billy.Filesystem, items []extractWorkItem) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.outDir == "" {
			continue
		}
		if _, exists := seen[item.outDir]; exists {
			continue
		}

		seen[item.outDir] = struct{}{}
		if err := dst.MkdirAll(item.outDir, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", item.outDir, err)
		}
	}

	return nil
}

// extractItem writes one prepared file view to dst.
func extractItem(
	ctx context.Context,
	dst billy.Filesystem,
	createMu *sync.Mutex,
	item extractWorkItem,
	onEntryDone func(path string, file *File, written int64),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	createMu.Lock()
	out, err := dst.Create(item.outPath)
	createMu.Unlock()
	if err != nil {
		return fmt.Errorf("create %s: %w", item.outPath, err)
	}

	written, writeErr := out.Write(item.file.Content())
	closeErr := out.Close()
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", item.relPath, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", item.relPath, closeErr)
	}

	if onEntryDone != nil {
		onEntryDone(item.relPath, item.file, int64(written))
	}

	return nil
}

// extractMatcher holds compiled include/exclude rules for extraction.
type extractMatcher struct {
	matcher *pathrules.Matcher
}

// newExtractMatcher compiles extraction path rules; no rules selects everything.
func newExtractMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*extractMatcher, error) {
	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidRules, err)
	}

	return &extractMatcher{matcher: matcher}, nil
}

// normalizeRules trims patterns, converts "\" to "/" and drops empty patterns.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := strings.ReplaceAll(strings.TrimSpace(rule.Pattern), `\`, "/")
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether relPath is selected. A nil matcher selects everything.
func (m *extractMatcher) Match(relPath string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	return m.matcher.Included(relPath, false)
}
