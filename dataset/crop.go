package dataset

import (
	"image"
	"image/draw"
)

// Crop copies the rectangle r out of img into a fresh RGBA whose bounds
// start at the origin. The rectangle may extend past the image: any part
// of r outside the source stays zero (transparent black), so crops of
// boxes that were jittered off the frame keep their full requested size.
func Crop(img image.Image, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))

	visible := r.Intersect(img.Bounds())
	if !visible.Empty() {
		draw.Draw(dst, visible.Sub(r.Min), img, visible.Min, draw.Src)
	}
	return dst
}
