package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts any image to an 8-bit grayscale raster with bounds
// anchored at (0, 0). Conversion uses the library's BT.601 luminance
// weights, matching the weights used throughout detection.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}

	flat := imaging.Grayscale(img)

	b := flat.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			// Grayscale output has R == G == B; any channel is the luminance.
			i := flat.PixOffset(b.Min.X+x, b.Min.Y+y)
			gray.Pix[gray.PixOffset(x, y)] = flat.Pix[i]
		}
	}
	return gray
}

// Invert returns a new raster with every pixel replaced by 255-v.
// Hole finding runs on both polarities because a bullet hole may appear
// darker or lighter than the paper depending on lighting and backing.
func Invert(g *image.Gray) *image.Gray {
	out := image.NewGray(g.Bounds())
	for i, v := range g.Pix {
		out.Pix[i] = 255 - v
	}
	return out
}
