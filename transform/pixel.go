// Package transform - stock pixel and label transforms for region views.
//
// The sampling core treats transforms as opaque functions; this package
// supplies the ones a tracking training loop actually plugs in.
package transform

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"github.com/DL-85/t-cnn/dataset"
)

// Resize scales every crop to a fixed width and height, the usual last
// step before a crop is fed to a fixed-input-size network.
func Resize(width, height int) dataset.PixelTransform {
	return func(img image.Image) image.Image {
		return resize.Resize(uint(width), uint(height), img, resize.Bilinear)
	}
}

// Grayscale collapses a crop to luma using the ITU-R BT.709 weights,
// keeping RGBA layout so downstream code does not need a second path.
func Grayscale() dataset.PixelTransform {
	const (
		redWeight   = 0.2126
		greenWeight = 0.7152
		blueWeight  = 0.0722
	)
	return func(img image.Image) image.Image {
		bounds := img.Bounds()
		dst := image.NewRGBA(bounds)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, a := img.At(x, y).RGBA()
				luma := uint32(float64(r)*redWeight + float64(g)*greenWeight + float64(b)*blueWeight)
				gray := uint8(luma >> 8)
				dst.SetRGBA(x, y, color.RGBA{R: gray, G: gray, B: gray, A: uint8(a >> 8)})
			}
		}
		return dst
	}
}

// Chain composes pixel transforms left to right.
func Chain(fns ...dataset.PixelTransform) dataset.PixelTransform {
	return func(img image.Image) image.Image {
		for _, fn := range fns {
			img = fn(img)
		}
		return img
	}
}
