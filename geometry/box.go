// Package geometry - axis-aligned bounding-box math for region sampling.
package geometry

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Box is an axis-aligned bounding box with real-valued corners.
// The canonical form has MinX <= MaxX and MinY <= MaxY; sides of zero
// length are legal (a degenerate box has zero area but is still a
// valid reference for sampling).
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// NewBox returns the box with the given corners. The corners are taken
// as-is; use Canonical if the ordering is not known.
func NewBox(minX, minY, maxX, maxY float64) Box {
	return Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// FromCenterSize returns the box centered at (cx, cy) with width w and
// height h.
func FromCenterSize(cx, cy, w, h float64) Box {
	return Box{
		MinX: cx - w/2,
		MinY: cy - h/2,
		MaxX: cx + w/2,
		MaxY: cy + h/2,
	}
}

// FromPoints reduces a flat (x0, y0, x1, y1, ...) coordinate list to its
// axis-aligned bounding box. Even indices are x-coordinates, odd indices
// are y-coordinates. This is how a ground-truth record - a plain box or
// a rotated-box/polygon encoding with any number of vertices - collapses
// to the canonical box used everywhere else.
//
// Arguments:
//   - coords: flat coordinate list, even length, at least 4 values.
//
// Returns:
//   - Box: the min/max reduction over the x- and y-subsequences.
//   - error: if the list is too short or has odd length.
func FromPoints(coords []float64) (Box, error) {
	if len(coords) < 4 {
		return Box{}, errors.Errorf("geometry: need at least 4 coordinates, got %d", len(coords))
	}
	if len(coords)%2 != 0 {
		return Box{}, errors.Errorf("geometry: odd coordinate count %d, x/y pairs required", len(coords))
	}

	xs := make([]float64, 0, len(coords)/2)
	ys := make([]float64, 0, len(coords)/2)
	for i, v := range coords {
		if i%2 == 0 {
			xs = append(xs, v)
		} else {
			ys = append(ys, v)
		}
	}

	return Box{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}, nil
}

// Center returns the midpoint of the box.
func (b Box) Center() (x, y float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Size returns the width and height of the box.
func (b Box) Size() (w, h float64) {
	return b.MaxX - b.MinX, b.MaxY - b.MinY
}

// Width returns the horizontal extent.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// MeanSize returns the arithmetic mean of width and height. The sampler
// scales its translation noise by this single value rather than per-axis
// extents.
func (b Box) MeanSize() float64 {
	return (b.Width() + b.Height()) / 2
}

// Area returns width times height. Negative for non-canonical boxes.
func (b Box) Area() float64 {
	return b.Width() * b.Height()
}

// Empty reports whether the box has no interior (zero or negative extent
// on either axis).
func (b Box) Empty() bool {
	return b.MaxX <= b.MinX || b.MaxY <= b.MinY
}

// Canonical returns the box with min/max swapped into order on each axis.
func (b Box) Canonical() Box {
	if b.MinX > b.MaxX {
		b.MinX, b.MaxX = b.MaxX, b.MinX
	}
	if b.MinY > b.MaxY {
		b.MinY, b.MaxY = b.MaxY, b.MinY
	}
	return b
}

// Disjoint reports whether b and o have no overlap at all: one box lies
// entirely left of, right of, above, or below the other. Boxes that
// merely share an edge have zero intersection area but are not disjoint
// under this predicate; their IoU is still 0.
func (b Box) Disjoint(o Box) bool {
	return o.MaxX < b.MinX || o.MinX > b.MaxX ||
		o.MaxY < b.MinY || o.MinY > b.MaxY
}

// Intersect returns the overlap box: elementwise max of the mins and min
// of the maxes. When b and o are disjoint the result is non-canonical
// (min > max on some axis); callers that need the overlap area should
// test Disjoint first or use IoU, which handles the case.
func (b Box) Intersect(o Box) Box {
	return Box{
		MinX: math.Max(b.MinX, o.MinX),
		MinY: math.Max(b.MinY, o.MinY),
		MaxX: math.Min(b.MaxX, o.MaxX),
		MaxY: math.Min(b.MaxY, o.MaxY),
	}
}

// IoU returns the Intersection-over-Union of b and o: the ratio of the
// overlap area to the combined area, in [0, 1]. Identical boxes score
// 1.0; boxes with no overlap score exactly 0.0.
//
// Division by zero cannot happen: if the union area is zero then both
// boxes are degenerate and the result is defined to be 0.
func (b Box) IoU(o Box) float64 {
	inter := b.Intersect(o)
	iw := inter.Width()
	ih := inter.Height()
	if iw <= 0 || ih <= 0 {
		return 0
	}

	interArea := iw * ih
	union := b.Area() + o.Area() - interArea
	if union <= 0 {
		return 0
	}
	return interArea / union
}

// ImageRect converts the box to an image.Rectangle, rounding each
// coordinate to the nearest integer pixel.
func (b Box) ImageRect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.MinX)),
		int(math.Round(b.MinY)),
		int(math.Round(b.MaxX)),
		int(math.Round(b.MaxY)),
	)
}

// Coords returns the corners as a flat (minX, minY, maxX, maxY) slice,
// the raw label form consumed by training code when no label transform
// is configured.
func (b Box) Coords() []float64 {
	return []float64{b.MinX, b.MinY, b.MaxX, b.MaxY}
}
