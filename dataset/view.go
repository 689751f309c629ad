package dataset

import (
	"image"

	"github.com/pkg/errors"

	"github.com/DL-85/t-cnn/geometry"
)

// Candidate is one sampled region: its box and whether it was accepted
// as object-like (positive) or background-like (negative).
type Candidate struct {
	Positive bool
	Box      geometry.Box
}

// PixelTransform maps a cropped image to the form the training loop
// consumes (resize, normalize, augment). Applied after cropping.
type PixelTransform func(image.Image) image.Image

// LabelTransform maps a candidate box to its training label values.
type LabelTransform func(geometry.Box) []float64

// Label is the target half of a training pair. Value holds the output of
// the class's label transform, or the raw (minX, minY, maxX, maxY)
// coordinates when no transform is configured for that class.
type Label struct {
	Positive bool
	Box      geometry.Box
	Value    []float64
}

// RegionView binds one frame to a list of sampled candidates and serves
// (cropped image, label) pairs lazily. Nothing is cropped or transformed
// until At is called, and the view is immutable: repeated or out-of-order
// access returns the same pairs, which is what a shuffled-batch training
// loader needs.
type RegionView struct {
	img      image.Image
	crops    []Candidate
	pixel    PixelTransform
	posLabel LabelTransform
	negLabel LabelTransform
}

// NewRegionView builds a view over img and crops. Any of the transforms
// may be nil, in which case the crop or raw box passes through unchanged.
func NewRegionView(img image.Image, crops []Candidate, pixel PixelTransform, posLabel, negLabel LabelTransform) *RegionView {
	return &RegionView{
		img:      img,
		crops:    crops,
		pixel:    pixel,
		posLabel: posLabel,
		negLabel: negLabel,
	}
}

// Len returns the number of candidates in the view.
func (v *RegionView) Len() int { return len(v.crops) }

// Candidate returns the i-th raw candidate without cropping.
func (v *RegionView) Candidate(i int) (Candidate, error) {
	if i < 0 || i >= len(v.crops) {
		return Candidate{}, errors.Errorf("dataset: region index %d out of range [0,%d)", i, len(v.crops))
	}
	return v.crops[i], nil
}

// At materializes the i-th training pair: the frame cropped to the
// candidate box (pixel transform applied if configured) and the label
// for the candidate's class.
func (v *RegionView) At(i int) (image.Image, Label, error) {
	c, err := v.Candidate(i)
	if err != nil {
		return nil, Label{}, err
	}

	var img image.Image = Crop(v.img, c.Box.ImageRect())
	if v.pixel != nil {
		img = v.pixel(img)
	}

	label := Label{Positive: c.Positive, Box: c.Box}
	switch {
	case c.Positive && v.posLabel != nil:
		label.Value = v.posLabel(c.Box)
	case !c.Positive && v.negLabel != nil:
		label.Value = v.negLabel(c.Box)
	default:
		label.Value = c.Box.Coords()
	}
	return img, label, nil
}
