package command

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jessevdk/go-flags"
	digest "github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"

	"github.com/woozymasta/rez"
	"github.com/woozymasta/rez/internal/reztest"
	"github.com/woozymasta/rez/pid"
)

// writeArchive stores a small archive in a temp dir and returns its path.
func writeArchive(t *testing.T) string {
	t.Helper()

	buf := reztest.Build(reztest.Options{Title: "Gruntz", ModTime: 1_000},
		reztest.Dir{Name: "IMAGES", Children: []reztest.Node{
			reztest.File{Name: "HERO", Ext: "PID", ID: 4, Data: reztest.PID(0, 0, 2, 1, 0, 0, 0, 0, []byte{1, 2}, nil)},
			reztest.File{Name: "MAIN", Ext: "PAL", Data: reztest.Palette()},
		}},
		reztest.File{Name: "NOTES", Ext: "TXT", Comment: "readme", Keys: []uint32{5}, Data: []byte("notes")},
	)

	path := filepath.Join(t.TempDir(), "game.rez")
	require.NoError(t, os.WriteFile(path, buf, 0o600))
	return path
}

func TestInfo(t *testing.T) {
	archive := writeArchive(t)

	var out bytes.Buffer
	cmd := &Info{output: output{w: &out}}
	cmd.Args.Archive = flags.Filename(archive)
	require.NoError(t, cmd.Execute(nil))
	require.Contains(t, out.String(), "Gruntz")
	require.Contains(t, out.String(), rez.DefaultSignature)

	out.Reset()
	cmd.Format = FormatJSON
	require.NoError(t, cmd.Execute(nil))

	var report infoReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	require.Equal(t, "Gruntz", report.Header.UserTitle)
	require.Equal(t, uint32(1), report.Header.Version)
}

func TestLs(t *testing.T) {
	archive := writeArchive(t)

	var out bytes.Buffer
	cmd := &Ls{output: output{w: &out}}
	cmd.Args.Archive = flags.Filename(archive)
	require.NoError(t, cmd.Execute(nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasSuffix(lines[0], "IMAGES"))
	require.True(t, strings.HasSuffix(lines[1], "IMAGES/HERO.PID"))
	require.True(t, strings.HasSuffix(lines[3], "NOTES.TXT"))
}

func TestLsSubtreeYAMLWithDigest(t *testing.T) {
	archive := writeArchive(t)

	var out bytes.Buffer
	cmd := &Ls{output: output{w: &out}, Format: FormatYAML, Digest: true}
	cmd.Args.Archive = flags.Filename(archive)
	cmd.Args.Path = "IMAGES"
	require.NoError(t, cmd.Execute(nil))

	var rows []listing
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	require.Equal(t, "IMAGES/MAIN.PAL", rows[1].Path)
	require.Equal(t, digest.FromBytes(reztest.Palette()).String(), rows[1].Digest)
	require.Equal(t, uint32(pid.PaletteSize), rows[1].Size)
}

func TestLsMissingPath(t *testing.T) {
	archive := writeArchive(t)

	cmd := &Ls{output: output{w: &bytes.Buffer{}}}
	cmd.Args.Archive = flags.Filename(archive)
	cmd.Args.Path = "NOPE"
	require.ErrorIs(t, cmd.Execute(nil), rez.ErrEntryNotFound)
}

func TestCat(t *testing.T) {
	archive := writeArchive(t)

	var out bytes.Buffer
	cmd := &Cat{output: output{w: &out}}
	cmd.Args.Archive = flags.Filename(archive)
	cmd.Args.Path = "NOTES.TXT"
	require.NoError(t, cmd.Execute(nil))
	require.Equal(t, "notes", out.String())

	cmd.Args.Path = "IMAGES"
	require.ErrorIs(t, cmd.Execute(nil), rez.ErrNotFile)
}

func TestExtract(t *testing.T) {
	archive := writeArchive(t)
	dir := t.TempDir()

	cmd := &Extract{Output: dir, Include: []string{"**/*.pid", "*.txt"}, Exclude: []string{"notes.*"}}
	cmd.Args.Archive = flags.Filename(archive)
	require.NoError(t, cmd.Execute(nil))

	_, err := os.Stat(filepath.Join(dir, "IMAGES", "HERO.PID"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "NOTES.TXT"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = os.Stat(filepath.Join(dir, "IMAGES", "MAIN.PAL"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestImage(t *testing.T) {
	archive := writeArchive(t)

	var out bytes.Buffer
	cmd := &Image{output: output{w: &out}, ArchivePalette: "IMAGES/MAIN.PAL"}
	cmd.Args.Archive = flags.Filename(archive)
	cmd.Args.Path = "IMAGES/HERO.PID"
	require.NoError(t, cmd.Execute(nil))

	img, err := png.Decode(&out)
	require.NoError(t, err)
	require.Equal(t, 2, img.Bounds().Dx())
	r, g, b, _ := img.At(1, 0).RGBA()
	require.Equal(t, []uint32{2, 253, 1}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestImageRawToFile(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "sprite.pid")
	require.NoError(t, os.WriteFile(raw, reztest.PID(0, 0, 1, 1, 0, 0, 0, 0, []byte{7}, nil), 0o600))

	palette := filepath.Join(dir, "main.pal")
	require.NoError(t, os.WriteFile(palette, reztest.Palette(), 0o600))

	outPath := filepath.Join(dir, "sprite.png")
	cmd := &Image{Raw: flags.Filename(raw), Palette: flags.Filename(palette), Output: outPath}
	require.NoError(t, cmd.Execute(nil))

	f, err := os.Open(outPath)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	r, _, _, _ := img.At(0, 0).RGBA()
	require.Equal(t, uint32(7), r>>8)
}

func TestImageRequiresSource(t *testing.T) {
	err := (&Image{}).Execute(nil)
	require.True(t, ErrImageSource.Is(err))
}

func TestEncodeUnknownFormat(t *testing.T) {
	err := encode(&bytes.Buffer{}, "xml", struct{}{})
	require.True(t, ErrUnknownFormat.Is(err))
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := &Version{output: output{w: &out}, Name: "rez", Version: "v1.0.0", Build: "abc"}
	require.NoError(t, cmd.Execute(nil))
	require.Equal(t, "rez (v1.0.0) - build abc\n", out.String())
}
