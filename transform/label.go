package transform

import (
	"github.com/DL-85/t-cnn/dataset"
	"github.com/DL-85/t-cnn/geometry"
)

// CenterSize converts a box label to (centerX, centerY, width, height),
// the regression target form most tracking heads train on.
func CenterSize() dataset.LabelTransform {
	return func(b geometry.Box) []float64 {
		cx, cy := b.Center()
		w, h := b.Size()
		return []float64{cx, cy, w, h}
	}
}

// Normalize scales corner coordinates by the frame dimensions so labels
// land in [0, 1] regardless of input resolution. Boxes jittered past the
// frame edge produce values outside the unit range; they are passed
// through unclamped.
func Normalize(frameW, frameH float64) dataset.LabelTransform {
	return func(b geometry.Box) []float64 {
		return []float64{
			b.MinX / frameW,
			b.MinY / frameH,
			b.MaxX / frameW,
			b.MaxY / frameH,
		}
	}
}

// Constant ignores the box and always yields the given values. Useful as
// a negative-class label when the background examples only need a class
// score, not coordinates.
func Constant(values ...float64) dataset.LabelTransform {
	return func(geometry.Box) []float64 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
}
