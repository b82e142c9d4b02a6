// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

// Package reztest builds REZ archives and PID images in memory for tests.
package reztest

import "encoding/binary"

// Archive layout constants mirrored from the reader.
const (
	HeaderSize      = 168
	DefaultSig      = "RezMgr Version 1 Copyright (C) 1995 MONOLITH INC."
	fieldsOffset    = 127
	sortedOffset    = 167
	signatureOffset = 2
	titleOffset     = 64
)

// Node is a Dir or a File.
type Node interface {
	node()
}

// Dir is a directory fixture.
type Dir struct {
	Name     string
	Children []Node
	ModTime  uint32
}

// File is a file fixture. Ext is written back-to-front like the engine does.
type File struct {
	Name    string
	Ext     string
	Comment string
	Data    []byte
	Keys    []uint32
	ID      uint32
	ModTime uint32
}

func (Dir) node()  {}
func (File) node() {}

// Options tweaks the generated archive header.
type Options struct {
	Signature   string
	Title       string
	Version     uint32
	RootModTime uint32
	ModTime     uint32
	Sorted      bool
}

// Layout reports where things landed in a built archive.
type Layout struct {
	// Records maps slash paths ("a/b.txt") to record offsets.
	Records map[string]int
	// RootOffset and RootSize locate the root directory block.
	RootOffset int
	RootSize   int
}

// Build lays out children under a synthetic root and returns the archive bytes.
func Build(opts Options, children ...Node) []byte {
	buf, _ := BuildWithLayout(opts, children...)
	return buf
}

// BuildWithLayout is Build that also returns record offsets.
func BuildWithLayout(opts Options, children ...Node) ([]byte, Layout) {
	if opts.Version == 0 {
		opts.Version = 1
	}
	if opts.Signature == "" {
		opts.Signature = DefaultSig
	}

	b := &builder{
		buf:    make([]byte, HeaderSize),
		layout: Layout{Records: make(map[string]int)},
	}

	rootOff, rootSize := b.block("", children)
	b.layout.RootOffset, b.layout.RootSize = rootOff, rootSize

	hdr := b.buf[:HeaderSize]
	copy(hdr[signatureOffset:titleOffset-2], opts.Signature)
	copy(hdr[titleOffset:titleOffset+60], opts.Title)

	fields := []uint32{
		opts.Version,
		uint32(rootOff),  //nolint:gosec // test fixture
		uint32(rootSize), //nolint:gosec // test fixture
		opts.RootModTime,
		uint32(len(b.buf)), //nolint:gosec // test fixture
		opts.ModTime,
		b.largestKeys,
		b.largestDir,
		b.largestFile,
		b.largestComment,
	}
	for i, v := range fields {
		binary.LittleEndian.PutUint32(hdr[fieldsOffset+i*4:], v)
	}
	if opts.Sorted {
		hdr[sortedOffset] = 1
	}

	return b.buf, b.layout
}

// PutUint32 overwrites a little-endian field in buf; handy for corrupting fixtures.
func PutUint32(buf []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(buf[off:], v)
}

type builder struct {
	buf    []byte
	layout Layout

	largestKeys    uint32
	largestDir     uint32
	largestFile    uint32
	largestComment uint32
}

// block writes payloads and sub-blocks of children first, then the record
// block of the directory itself, and returns its offset and size.
func (b *builder) block(prefix string, children []Node) (int, int) {
	type placed struct {
		off, size int
	}

	content := make([]placed, len(children))
	for i, child := range children {
		switch c := child.(type) {
		case Dir:
			off, size := b.block(prefix+c.Name+"/", c.Children)
			content[i] = placed{off, size}
		case File:
			content[i] = placed{len(b.buf), len(c.Data)}
			b.buf = append(b.buf, c.Data...)
		}
	}

	start := len(b.buf)
	for i, child := range children {
		switch c := child.(type) {
		case Dir:
			b.layout.Records[prefix+c.Name] = len(b.buf)
			b.u32(1, uint32(content[i].off), uint32(content[i].size), c.ModTime) //nolint:gosec // test fixture
			b.cstr(c.Name)
			b.largestDir = max(b.largestDir, uint32(len(c.Name)+1)) //nolint:gosec // test fixture
		case File:
			name := c.Name
			if c.Ext != "" {
				name += "." + c.Ext
			}
			b.layout.Records[prefix+name] = len(b.buf)
			b.u32(0, uint32(content[i].off), uint32(content[i].size), c.ModTime, c.ID, packExt(c.Ext), uint32(len(c.Keys))) //nolint:gosec // test fixture
			b.cstr(c.Name)
			b.cstr(c.Comment)
			b.u32(c.Keys...)
			b.largestFile = max(b.largestFile, uint32(len(c.Name)+1))       //nolint:gosec // test fixture
			b.largestComment = max(b.largestComment, uint32(len(c.Comment)+1)) //nolint:gosec // test fixture
			b.largestKeys = max(b.largestKeys, uint32(len(c.Keys)))            //nolint:gosec // test fixture
		}
	}

	return start, len(b.buf) - start
}

func (b *builder) u32(values ...uint32) {
	for _, v := range values {
		b.buf = binary.LittleEndian.AppendUint32(b.buf, v)
	}
}

func (b *builder) cstr(s string) {
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
}

// packExt stores up to four extension bytes in reverse order.
func packExt(ext string) uint32 {
	var raw [4]byte
	n := min(len(ext), 4)
	for i := range n {
		raw[i] = ext[n-1-i]
	}

	return binary.LittleEndian.Uint32(raw[:])
}

// PID builds an encoded PID image from header fields, packed pixels and an optional palette.
func PID(id, flags, width, height, x, y, user1, user2 int32, packed, palette []byte) []byte {
	buf := make([]byte, 0, 32+len(packed)+len(palette))
	for _, v := range []int32{id, flags, width, height, x, y, user1, user2} {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(v)) //nolint:gosec // two's complement
	}

	buf = append(buf, packed...)
	return append(buf, palette...)
}

// Palette returns a 768-byte palette where entry i is (i, 255-i, i/2).
func Palette() []byte {
	pal := make([]byte, 768)
	for i := range 256 {
		pal[i*3] = byte(i)
		pal[i*3+1] = byte(255 - i)
		pal[i*3+2] = byte(i / 2)
	}

	return pal
}
