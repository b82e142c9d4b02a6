// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/rez

// Package assets serves files and decoded PID images from one REZ archive
// to several goroutines.
//
// A Store holds the external lock a *rez.Archive needs and keeps recently
// decoded images in an LRU cache, so sprites requested every frame are
// decoded once.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/woozymasta/rez"
	"github.com/woozymasta/rez/pid"
)

// DefaultCacheSize is the number of decoded images kept when Options.CacheSize is zero.
const DefaultCacheSize = 256

// ErrNilArchive means the store was created without an archive.
var ErrNilArchive = errors.New("archive is nil")

// Options configures a Store.
type Options struct {
	// Logger receives debug records about decodes and cache use; nil means logrus.StandardLogger().
	Logger logrus.FieldLogger `json:"-" yaml:"-"`
	// PalettePath names an archive file with a 768-byte RGB palette used for
	// images without an embedded one.
	PalettePath string `json:"palette_path,omitempty" yaml:"palette_path,omitempty"`
	// CacheSize is the number of decoded images kept (zero means DefaultCacheSize).
	CacheSize int `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
}

// applyDefaults fills zero-valued store options with defaults.
func (opts *Options) applyDefaults() {
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}

	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
}

// Stats reports store activity.
type Stats struct {
	// Archive holds the resolver counters of the underlying archive.
	Archive rez.Stats `json:"archive" yaml:"archive"`
	// CachedImages is the number of decoded images currently cached.
	CachedImages int `json:"cached_images" yaml:"cached_images"`
	// Decoded counts images decoded from archive bytes.
	Decoded int64 `json:"decoded" yaml:"decoded"`
	// Hits counts image requests served from the cache.
	Hits int64 `json:"hits" yaml:"hits"`
}

// Store is safe for concurrent use.
type Store struct {
	archive *rez.Archive
	images  *lru.Cache[string, *pid.Image]
	log     logrus.FieldLogger

	// palette is the fallback palette, loaded on first use.
	palette     color.Palette
	palettePath string

	decoded atomic.Int64
	hits    atomic.Int64

	// mu guards archive and palette.
	mu sync.Mutex
}

// New wraps an open archive. The archive must not be used directly afterwards.
func New(archive *rez.Archive, opts Options) (*Store, error) {
	if archive == nil {
		return nil, ErrNilArchive
	}

	opts.applyDefaults()

	images, err := lru.New[string, *pid.Image](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create image cache: %w", err)
	}

	return &Store{
		archive:     archive,
		images:      images,
		log:         opts.Logger,
		palettePath: opts.PalettePath,
	}, nil
}

// Open opens the archive at path and wraps it in a Store.
func Open(path string, opts Options) (*Store, error) {
	archive, err := rez.Open(path)
	if err != nil {
		return nil, err
	}

	return New(archive, opts)
}

// Header returns the archive header.
func (s *Store) Header() rez.Header {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.archive.Header()
}

// Stat resolves path without loading content. A miss returns nil, nil.
func (s *Store) Stat(path string) (rez.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.archive.Stat(path)
}

// ReadFile returns the content view of the file at path.
func (s *Store) ReadFile(path string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.archive.ReadFile(path)
}

// ReadDir returns the children of the directory at path.
func (s *Store) ReadDir(path string) ([]rez.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.archive.ReadDir(path)
}

// Walk runs rez.Archive.Walk while holding the store lock. fn must not call back into the store.
func (s *Store) Walk(root string, fn rez.WalkFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.archive.Walk(root, fn)
}

// Image returns the decoded PID image at path, decoding it on the first request.
// Callers must treat the returned image as read-only.
func (s *Store) Image(path string) (*pid.Image, error) {
	key := rez.NormalizePath(path)
	if img, ok := s.images.Get(key); ok {
		s.hits.Add(1)
		return img, nil
	}

	data, err := s.ReadFile(path)
	if err != nil {
		return nil, err
	}

	img, err := pid.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	s.decoded.Add(1)
	if evicted := s.images.Add(key, img); evicted {
		s.log.WithField("path", key).Debug("image cache full, evicted oldest entry")
	}

	s.log.WithFields(logrus.Fields{
		"path":   key,
		"width":  img.Width,
		"height": img.Height,
		"flags":  img.Flags.String(),
	}).Debug("decoded image")

	return img, nil
}

// Paletted returns the image at path as a standard library paletted image,
// using the embedded palette or the store fallback palette.
func (s *Store) Paletted(path string) (*image.Paletted, error) {
	img, err := s.Image(path)
	if err != nil {
		return nil, err
	}

	var fallback color.Palette
	if img.EmbeddedPalette == nil {
		fallback, err = s.fallbackPalette()
		if err != nil {
			return nil, err
		}
	}

	out, err := img.Paletted(fallback)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", path, err)
	}

	return out, nil
}

// fallbackPalette loads Options.PalettePath once; without it the grayscale ramp is used.
func (s *Store) fallbackPalette() (color.Palette, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.palette != nil {
		return s.palette, nil
	}

	if s.palettePath == "" {
		s.palette = pid.GrayscalePalette()
		return s.palette, nil
	}

	raw, err := s.archive.ReadFile(s.palettePath)
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}

	pal, err := pid.ParsePalette(raw)
	if err != nil {
		return nil, fmt.Errorf("load palette %s: %w", s.palettePath, err)
	}

	s.log.WithField("path", s.palettePath).Debug("loaded fallback palette")
	s.palette = pal
	return pal, nil
}

// Purge drops every cached image.
func (s *Store) Purge() {
	s.images.Purge()
}

// Stats returns store and archive counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	archiveStats := s.archive.Stats()
	s.mu.Unlock()

	return Stats{
		Archive:      archiveStats,
		CachedImages: s.images.Len(),
		Decoded:      s.decoded.Load(),
		Hits:         s.hits.Load(),
	}
}
