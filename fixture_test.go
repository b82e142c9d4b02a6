package rez

import (
	"testing"

	"github.com/woozymasta/rez/internal/reztest"
)

// Header field offsets used to corrupt fixtures.
const (
	fieldVersion   = descriptionSize
	fieldRootSize  = descriptionSize + 8
	fieldNextWrite = descriptionSize + 16
)

// sampleTree is the fixture layout shared by archive tests:
//
//	LEVEL1/
//	  TILES/
//	    001.PID
//	  PALETTE.PAL
//	README
//	EMPTY/
func sampleTree() []reztest.Node {
	return []reztest.Node{
		reztest.Dir{Name: "LEVEL1", ModTime: 10, Children: []reztest.Node{
			reztest.Dir{Name: "TILES", ModTime: 11, Children: []reztest.Node{
				reztest.File{Name: "001", Ext: "PID", ID: 1, ModTime: 12, Data: []byte("tile")},
			}},
			reztest.File{Name: "PALETTE", Ext: "PAL", ID: 2, Comment: "main", Keys: []uint32{7, 9}, Data: []byte("pal")},
		}},
		reztest.File{Name: "README", ID: 3, Data: []byte("hello")},
		reztest.Dir{Name: "EMPTY"},
	}
}

// sampleArchiveBytes builds the sample archive and returns its bytes and layout.
func sampleArchiveBytes(t *testing.T) ([]byte, reztest.Layout) {
	t.Helper()

	return reztest.BuildWithLayout(reztest.Options{
		Title:       "Test title",
		ModTime:     1_000_000,
		RootModTime: 5,
	}, sampleTree()...)
}

// openSample opens the sample archive.
func openSample(t *testing.T) *Archive {
	t.Helper()

	buf, _ := sampleArchiveBytes(t)
	return openBytes(t, buf)
}

// openBytes opens buf and fails the test on error.
func openBytes(t *testing.T, buf []byte) *Archive {
	t.Helper()

	a, err := OpenBytes(buf)
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}

	return a
}

// mustGet resolves path and fails the test on error or miss.
func mustGet(t *testing.T, a *Archive, path string, includeContent bool) Entry {
	t.Helper()

	e, err := a.GetEntry(path, includeContent)
	if err != nil {
		t.Fatalf("GetEntry(%q): %v", path, err)
	}
	if e == nil {
		t.Fatalf("GetEntry(%q): not found", path)
	}

	return e
}
