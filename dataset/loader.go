package dataset

import (
	"image"
	"os"

	"github.com/pkg/errors"

	// Decoders registered for the default loader. The sequence folders
	// this library reads are JPEG in practice, but the extension set is
	// wider and decoding any of it should just work.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/chai2010/webp"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Loader decodes one frame file into an image. The sequence never
// inspects the result; any function with this signature works, including
// ones backed by a cache or a remote store.
type Loader func(path string) (image.Image, error)

// DefaultLoader opens and decodes an image file using the registered
// stdlib and extension decoders.
func DefaultLoader(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open frame %s", path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decode frame %s", path)
	}
	return img, nil
}
