package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
)

// Preprocessing constants. Blur radius 2.0 gives bild a 5x5 Gaussian kernel.
const (
	blurRadius     = 2.0
	claheClipLimit = 2.0
	claheTiles     = 8
)

// Preprocess converts a decoded photograph into the grayscale raster the
// detection stages consume, and returns alongside it the color reference
// used only for overlay rendering.
//
// When applyPerspective is set, a large quadrilateral (screen or card
// boundary) is searched for first and, if found, both outputs are produced
// from the rectified image. A missing quadrilateral is not an error: the
// original image proceeds unrectified.
//
// The grayscale output always passes through, in order: grayscale
// conversion, 5x5 Gaussian blur, and CLAHE (clip 2.0, 8x8 tiles).
func Preprocess(img image.Image, applyPerspective bool) (*image.Gray, image.Image) {
	colorRef := img
	if applyPerspective {
		if corners, ok := DetectQuad(img); ok {
			colorRef = WarpPerspective(img, corners)
		}
	}

	gray := Smooth(ToGray(colorRef))
	enhanced := CLAHE(gray, claheClipLimit, claheTiles)

	return enhanced, colorRef
}

// Smooth applies the standard 5x5 Gaussian noise-reduction blur. The circle
// search smooths its input again before voting, matching the preprocessing
// the search parameters were tuned against.
func Smooth(g *image.Gray) *image.Gray {
	return ToGray(blur.Gaussian(g, blurRadius))
}
