package dataset

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DL-85/t-cnn/geometry"
)

// writeTestFrame writes a solid-color PNG of the given size.
func writeTestFrame(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// writeTestSequence lays out a sequence folder with one frame per
// ground-truth line.
func writeTestSequence(t *testing.T, frames []string, groundTruth string) string {
	t.Helper()

	dir := t.TempDir()
	for _, name := range frames {
		writeTestFrame(t, filepath.Join(dir, name), 32, 32, color.White)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "groundtruth.txt"), []byte(groundTruth), 0o644))
	return dir
}

func TestOpenSequence(t *testing.T) {
	dir := writeTestSequence(t,
		[]string{"00000002.png", "00000001.png", "00000003.png"},
		"3,4,13,24\n5,0,10,5,5,10,0,5\n1.5,2.5,3.5,4.5\n")

	seq, err := OpenSequence(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, seq.Len())

	// Frames pair with records in lexical filename order, not directory
	// order.
	first, err := seq.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "00000001.png"), first.Path)
	assert.Equal(t, geometry.NewBox(3, 4, 13, 24), first.Box)

	// A polygon record reduces to its axis-aligned box.
	second, err := seq.Entry(1)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewBox(0, 0, 10, 10), second.Box)

	third, err := seq.Entry(2)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewBox(1.5, 2.5, 3.5, 4.5), third.Box)

	// Parsed boxes are canonical on both axes.
	for i := 0; i < seq.Len(); i++ {
		entry, err := seq.Entry(i)
		require.NoError(t, err)
		assert.LessOrEqual(t, entry.Box.MinX, entry.Box.MaxX)
		assert.LessOrEqual(t, entry.Box.MinY, entry.Box.MaxY)
	}
}

func TestOpenSequenceSkipsNonImageFiles(t *testing.T) {
	dir := writeTestSequence(t, []string{"a.png", "b.png"}, "0,0,1,1\n2,2,3,3\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	seq, err := OpenSequence(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, seq.Len())
}

func TestOpenSequenceTrailingNewline(t *testing.T) {
	// A trailing blank line must not shift or extend the record stream.
	dir := writeTestSequence(t, []string{"a.png"}, "0,0,4,4\n\n")

	seq, err := OpenSequence(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Len())
}

func TestOpenSequenceErrors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := OpenSequence(filepath.Join(t.TempDir(), "nope"))
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "not a directory")
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := OpenSequence(path)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("missing ground truth", func(t *testing.T) {
		dir := t.TempDir()
		writeTestFrame(t, filepath.Join(dir, "a.png"), 8, 8, color.White)
		_, err := OpenSequence(dir)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "ground-truth")
	})

	t.Run("length mismatch", func(t *testing.T) {
		dir := writeTestSequence(t, []string{"a.png", "b.png"}, "0,0,1,1\n")
		_, err := OpenSequence(dir)
		var cfgErr *ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Contains(t, cfgErr.Reason, "2 frame files but 1 ground-truth records")
	})

	t.Run("malformed record", func(t *testing.T) {
		dir := writeTestSequence(t, []string{"a.png"}, "0,0,oops,1\n")
		_, err := OpenSequence(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 1")
	})

	t.Run("short record", func(t *testing.T) {
		dir := writeTestSequence(t, []string{"a.png"}, "0,0\n")
		_, err := OpenSequence(dir)
		require.Error(t, err)
	})
}

func TestSequenceFrame(t *testing.T) {
	dir := writeTestSequence(t, []string{"a.png"}, "2,2,6,6\n")

	var loaded []string
	loader := func(path string) (image.Image, error) {
		loaded = append(loaded, path)
		return DefaultLoader(path)
	}

	seq, err := OpenSequence(dir, WithLoader(loader))
	require.NoError(t, err)

	// Construction must not decode anything.
	assert.Empty(t, loaded)

	img, box, err := seq.Frame(0)
	require.NoError(t, err)
	assert.Equal(t, geometry.NewBox(2, 2, 6, 6), box)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())
	assert.Len(t, loaded, 1)
}

func TestSequenceIndexOutOfRange(t *testing.T) {
	dir := writeTestSequence(t, []string{"a.png"}, "0,0,1,1\n")
	seq, err := OpenSequence(dir)
	require.NoError(t, err)

	_, err = seq.Entry(-1)
	assert.Error(t, err)
	_, err = seq.Entry(1)
	assert.Error(t, err)
	_, _, err = seq.Frame(5)
	assert.Error(t, err)
}

func TestLoaderFailurePropagates(t *testing.T) {
	dir := writeTestSequence(t, []string{"a.png"}, "0,0,1,1\n")
	boom := errors.New("decoder offline")
	seq, err := OpenSequence(dir, WithLoader(func(string) (image.Image, error) {
		return nil, boom
	}))
	require.NoError(t, err)

	_, _, err = seq.Frame(0)
	assert.ErrorIs(t, err, boom)
}

func TestDefaultLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	writeTestFrame(t, path, 8, 6, color.White)

	img, err := DefaultLoader(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	_, err = DefaultLoader(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}
