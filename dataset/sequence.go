// Package dataset - sequence-folder parsing and lazy training views for
// tracking datasets.
//
// A VOT-style sequence folder holds one image file per frame plus a
// groundtruth.txt with one comma-separated coordinate record per frame.
// Sequence pairs the two streams into an indexable list of
// (frame, bounding box) entries; RegionView serves sampled crops of a
// single frame on demand.
package dataset

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/DL-85/t-cnn/geometry"
)

// groundTruthFile is the fixed name of the per-frame box records inside
// a sequence folder.
const groundTruthFile = "groundtruth.txt"

// imageExtensions is the extension set a file must match to count as a
// frame. Matching is case-insensitive.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".webp": true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
}

// Entry is one frame of a sequence: the path of the image file and the
// ground-truth box for that frame.
type Entry struct {
	Path string
	Box  geometry.Box
}

// Sequence is an immutable index over one sequence folder. Frames are
// ordered by lexical filename sort, which is also the order of the
// ground-truth records; the two streams must have equal length or
// OpenSequence refuses the folder.
type Sequence struct {
	dir     string
	loader  Loader
	entries []Entry
}

// Option configures OpenSequence.
type Option func(*Sequence)

// WithLoader replaces the default image decoder.
func WithLoader(l Loader) Option {
	return func(s *Sequence) { s.loader = l }
}

// OpenSequence reads and indexes a sequence folder. The one-time O(n)
// parse happens here; after construction every access is O(1) and no
// file other than the frame being decoded is touched.
//
// Arguments:
//   - dir: path of the sequence folder.
//   - opts: optional configuration, e.g. WithLoader.
//
// Returns:
//   - *Sequence: the indexed sequence.
//   - error: *ConfigurationError if the folder or ground truth is
//     unusable, or a parse error pointing at the offending line.
func OpenSequence(dir string, opts ...Option) (*Sequence, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve sequence folder %s", dir)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &ConfigurationError{Dir: dir, Reason: "not a directory"}
	}

	gtPath := filepath.Join(dir, groundTruthFile)
	if fi, err := os.Stat(gtPath); err != nil || fi.IsDir() {
		return nil, &ConfigurationError{Dir: dir, Reason: "ground-truth file not found"}
	}

	names, err := listFrameFiles(dir)
	if err != nil {
		return nil, err
	}

	boxes, err := parseGroundTruth(gtPath)
	if err != nil {
		return nil, err
	}

	// The pairing of frames with records is positional, so a length
	// mismatch means the correspondence is broken for the whole folder.
	// Fail here rather than hand out silently shifted boxes.
	if len(names) != len(boxes) {
		return nil, &ConfigurationError{
			Dir: dir,
			Reason: fmt.Sprintf("%d frame files but %d ground-truth records",
				len(names), len(boxes)),
		}
	}

	s := &Sequence{dir: dir, loader: DefaultLoader}
	for _, opt := range opts {
		opt(s)
	}

	s.entries = make([]Entry, len(names))
	for i, name := range names {
		s.entries[i] = Entry{
			Path: filepath.Join(dir, name),
			Box:  boxes[i],
		}
	}
	return s, nil
}

// listFrameFiles returns the image filenames in dir, lexically sorted.
func listFrameFiles(dir string) ([]string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read sequence folder %s", dir)
	}

	var names []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(f.Name()))] {
			names = append(names, f.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// parseGroundTruth reads one comma-separated coordinate record per line
// and reduces each to its axis-aligned box. Blank lines are skipped so a
// trailing newline does not shift the frame correspondence.
func parseGroundTruth(path string) ([]geometry.Box, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open ground truth %s", path)
	}
	defer f.Close()

	var boxes []geometry.Box
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		coords := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "ground truth %s line %d", path, lineNo)
			}
			coords[i] = v
		}

		box, err := geometry.FromPoints(coords)
		if err != nil {
			return nil, errors.Wrapf(err, "ground truth %s line %d", path, lineNo)
		}
		boxes = append(boxes, box)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read ground truth %s", path)
	}
	return boxes, nil
}

// Dir returns the absolute path of the sequence folder.
func (s *Sequence) Dir() string { return s.dir }

// Len returns the number of frames in the sequence.
func (s *Sequence) Len() int { return len(s.entries) }

// Entry returns the path and ground-truth box of frame i without
// decoding the image.
func (s *Sequence) Entry(i int) (Entry, error) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, errors.Errorf("dataset: frame index %d out of range [0,%d)", i, len(s.entries))
	}
	return s.entries[i], nil
}

// Frame decodes frame i through the configured loader and returns it
// with its ground-truth box.
func (s *Sequence) Frame(i int) (image.Image, geometry.Box, error) {
	entry, err := s.Entry(i)
	if err != nil {
		return nil, geometry.Box{}, err
	}
	img, err := s.loader(entry.Path)
	if err != nil {
		return nil, geometry.Box{}, err
	}
	return img, entry.Box, nil
}
