package rez

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/woozymasta/rez/internal/reztest"
)

func TestGetEntry_ResolvesNestedFile(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	e := mustGet(t, a, "LEVEL1/TILES/001.PID", true)
	f, ok := e.(*File)
	if !ok {
		t.Fatalf("entry type %T, want *File", e)
	}
	if f.Name != "001" || f.Extension != "PID" || f.ID != 1 {
		t.Fatalf("file = %+v", f)
	}
	if DisplayName(f) != "001.PID" {
		t.Fatalf("DisplayName=%q", DisplayName(f))
	}
	if !f.Loaded() || string(f.Content()) != "tile" {
		t.Fatalf("content = %q (loaded=%v)", f.Content(), f.Loaded())
	}
	if f.ModTime.Unix() != 12 {
		t.Fatalf("ModTime=%v", f.ModTime)
	}

	data, err := io.ReadAll(f.Open())
	if err != nil || string(data) != "tile" {
		t.Fatalf("Open read = %q, %v", data, err)
	}
}

func TestGetEntry_EmptyPathMisses(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	e, err := a.GetEntry("", true)
	if err != nil || e != nil {
		t.Fatalf("GetEntry(\"\") = %v, %v; want nil, nil", e, err)
	}
	if st := a.Stats(); st.DirectoryScans != 0 {
		t.Fatalf("empty path must not scan, got %d scans", st.DirectoryScans)
	}
}

func TestGetEntry_Misses(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		path string
	}{
		{name: "missing top level", path: "NOPE"},
		{name: "missing nested", path: "LEVEL1/NOPE"},
		{name: "through file", path: "README/child"},
		{name: "through nested file", path: "LEVEL1/PALETTE.PAL/x"},
		{name: "case sensitive", path: "level1"},
		{name: "extension required", path: "LEVEL1/TILES/001"},
		{name: "partial name", path: "LEVEL"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			a := openSample(t)
			e, err := a.GetEntry(tc.path, true)
			if err != nil {
				t.Fatalf("GetEntry(%q): %v", tc.path, err)
			}
			if e != nil {
				t.Fatalf("GetEntry(%q) = %v, want miss", tc.path, e)
			}
		})
	}
}

func TestGetEntry_NormalizesPath(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	first := mustGet(t, a, "LEVEL1/TILES", false)
	second := mustGet(t, a, "//LEVEL1///TILES/", false)
	if first != second {
		t.Fatal("normalized paths must resolve to the same entry")
	}
}

func TestGetEntry_Root(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	e := mustGet(t, a, "/", true)
	if e != Entry(a.Root()) {
		t.Fatal("\"/\" must resolve to the root")
	}

	names := make([]string, 0, 3)
	for _, child := range a.Root().Entries() {
		names = append(names, DisplayName(child))
	}
	if strings.Join(names, ",") != "LEVEL1,README,EMPTY" {
		t.Fatalf("root children = %v, want on-disk order", names)
	}
}

func TestGetEntry_IdempotentAndCached(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	first := mustGet(t, a, "LEVEL1/TILES/001.PID", true)
	scans := a.Stats().DirectoryScans
	if scans != 3 {
		t.Fatalf("first lookup scans=%d, want 3 (root, LEVEL1, TILES)", scans)
	}

	second := mustGet(t, a, "LEVEL1/TILES/001.PID", true)
	if first != second {
		t.Fatal("repeated lookup must return the same entry")
	}
	if got := a.Stats().DirectoryScans; got != scans {
		t.Fatalf("repeated lookup scanned again: %d -> %d", scans, got)
	}
}

func TestGetEntry_ResumesFromCachedAncestor(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	mustGet(t, a, "LEVEL1/TILES", false)
	if got := a.Stats().DirectoryScans; got != 2 {
		t.Fatalf("scans after LEVEL1/TILES = %d, want 2", got)
	}

	mustGet(t, a, "LEVEL1/TILES/001.PID", false)
	if got := a.Stats().DirectoryScans; got != 3 {
		t.Fatalf("scans after tail lookup = %d, want 3 (only TILES)", got)
	}

	// Siblings of visited levels are cached as a side effect.
	mustGet(t, a, "LEVEL1/PALETTE.PAL", false)
	mustGet(t, a, "README", false)
	if got := a.Stats().DirectoryScans; got != 3 {
		t.Fatalf("sibling lookups scanned: %d, want 3", got)
	}
}

func TestGetEntry_ContentOnDemand(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	e := mustGet(t, a, "LEVEL1/PALETTE.PAL", false)
	f := e.(*File)
	if f.Loaded() || f.Content() != nil {
		t.Fatal("content must not be loaded without includeContent")
	}

	scans := a.Stats().DirectoryScans
	again := mustGet(t, a, "LEVEL1/PALETTE.PAL", true)
	if again != e {
		t.Fatal("second lookup must return the cached entry")
	}
	if string(f.Content()) != "pal" {
		t.Fatalf("content=%q, want pal", f.Content())
	}
	if got := a.Stats().DirectoryScans; got != scans {
		t.Fatalf("materializing content rescanned the parent: %d -> %d", scans, got)
	}
	if got := a.Stats().FilesLoaded; got != 1 {
		t.Fatalf("FilesLoaded=%d, want 1", got)
	}
}

func TestGetEntry_DirectoryContent(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	dir := mustGet(t, a, "LEVEL1", false).(*Directory)
	if dir.Expanded() || dir.Entries() != nil {
		t.Fatal("directory must stay unexpanded without includeContent")
	}

	mustGet(t, a, "LEVEL1", true)
	if !dir.Expanded() || len(dir.Entries()) != 2 {
		t.Fatalf("expanded=%v entries=%d", dir.Expanded(), len(dir.Entries()))
	}

	// Children were cached by the expansion.
	scans := a.Stats().DirectoryScans
	mustGet(t, a, "LEVEL1/TILES", false)
	if got := a.Stats().DirectoryScans; got != scans {
		t.Fatalf("child lookup after expansion scanned: %d -> %d", scans, got)
	}
}

func TestGetEntry_UnknownRecordTag(t *testing.T) {
	t.Parallel()

	buf, layout := sampleArchiveBytes(t)
	reztest.PutUint32(buf, layout.Records["README"], 7)

	a := openBytes(t, buf)
	_, err := a.GetEntry("README", false)
	if !errors.Is(err, ErrUnknownEntryType) || !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrUnknownEntryType, got %v", err)
	}
	if !strings.Contains(err.Error(), "offset") {
		t.Fatalf("error should name the offset: %v", err)
	}
}

func TestGetEntry_DirectoryBlockOutOfBounds(t *testing.T) {
	t.Parallel()

	buf, layout := sampleArchiveBytes(t)
	reztest.PutUint32(buf, layout.Records["LEVEL1"]+8, uint32(len(buf)))

	a := openBytes(t, buf)
	mustGet(t, a, "LEVEL1", false)

	_, err := a.GetEntry("LEVEL1/TILES", false)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestGetEntry_FileContentOutOfBounds(t *testing.T) {
	t.Parallel()

	buf, layout := sampleArchiveBytes(t)
	reztest.PutUint32(buf, layout.Records["README"]+8, uint32(len(buf)))

	a := openBytes(t, buf)
	if _, err := a.GetEntry("README", false); err != nil {
		t.Fatalf("metadata lookup must succeed: %v", err)
	}

	_, err := a.GetEntry("README", true)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestGetEntry_ShadowedNameLastWins(t *testing.T) {
	t.Parallel()

	buf := reztest.Build(reztest.Options{},
		reztest.Dir{Name: "X.DAT"},
		reztest.File{Name: "X", Ext: "DAT", Data: []byte("file")},
	)

	a := openBytes(t, buf)
	e := mustGet(t, a, "X.DAT", false)
	if e.IsDir() {
		t.Fatal("later record must shadow the earlier one")
	}
}

func TestReadFileAndReadDir(t *testing.T) {
	t.Parallel()

	a := openSample(t)

	if _, err := a.ReadFile("LEVEL1"); !errors.Is(err, ErrNotFile) {
		t.Fatalf("ReadFile(dir): expected ErrNotFile, got %v", err)
	}
	if _, err := a.ReadFile("NOPE"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("ReadFile(missing): expected ErrEntryNotFound, got %v", err)
	}
	if _, err := a.ReadDir("README"); !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("ReadDir(file): expected ErrNotDirectory, got %v", err)
	}
	if _, err := a.ReadDir("NOPE"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("ReadDir(missing): expected ErrEntryNotFound, got %v", err)
	}

	entries, err := a.ReadDir("EMPTY")
	if err != nil || len(entries) != 0 {
		t.Fatalf("ReadDir(EMPTY) = %v, %v", entries, err)
	}

	data, err := a.ReadFile("LEVEL1/TILES/001.PID")
	if err != nil || string(data) != "tile" {
		t.Fatalf("ReadFile = %q, %v", data, err)
	}
	if cap(data) != len(data) {
		t.Fatalf("content view must be capacity-clamped: len=%d cap=%d", len(data), cap(data))
	}
}

func TestStats_CachedPaths(t *testing.T) {
	t.Parallel()

	a := openSample(t)
	mustGet(t, a, "LEVEL1/TILES/001.PID", false)

	// root children (3) + LEVEL1 children (2) + TILES children (1)
	if got := a.Stats().CachedPaths; got != 6 {
		t.Fatalf("CachedPaths=%d, want 6", got)
	}
}
