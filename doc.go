// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

/*
Package rez reads REZ resource archives used by Monolith Productions games
such as Claw and Gruntz (the "RezMgr Version 1" container). An archive is a
168-byte header followed by a flat stream of directory and file records; the
directory tree is rebuilt on demand while paths are resolved.

Resolution rules (summary):
  - paths are wrapped in "/" and repeated "/" are collapsed, so "a//b" and
    "/a/b/" are the same path;
  - segments match display names exactly (name + "." + extension for files);
  - every entry seen while expanding a directory is cached by full path, so
    later lookups below a known directory skip the levels above it;
  - a miss returns a nil entry and a nil error; errors mean corrupt data.

# Reading

Open an archive and read one file:

	a, err := rez.Open("game.rez")
	if err != nil {
	    return err
	}
	data, err := a.ReadFile("interface/menu/background.pcx")
	if err != nil {
	    return err
	}
	_ = data

File content is a view of the archive buffer, not a copy. Metadata-only
lookups skip materializing content:

	e, err := a.GetEntry("sounds/intro.wav", false)
	if err != nil {
	    return err
	}
	if e == nil {
	    // not found
	}

List a directory or walk a subtree:

	entries, err := a.ReadDir("worlds")
	if err != nil {
	    return err
	}
	_ = entries

	err = a.Walk("worlds", func(path string, e rez.Entry) error {
	    fmt.Println(path, e.Info().ContentSize)
	    return nil
	})

# Extracting

Extract selected files into any billy filesystem:

	err := a.Extract(ctx, osfs.New("out"), rez.ExtractOptions{
	    Root: "textures",
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.pcx"},
	    },
	})

Names are rewritten to filesystem-safe form unless RawNames is set.

# Concurrency

An Archive is meant for one goroutine at a time. Wrap it with your own lock
(see package assets) when several goroutines share it. Extract resolves
entries on the calling goroutine and only parallelizes the file writes.
*/
package rez
