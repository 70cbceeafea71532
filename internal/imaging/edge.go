package imaging

import (
	"image"
	"math"
)

// Gradient holds per-pixel Sobel gradients of a grayscale raster.
//
// Magnitudes are in the 8-bit input scale (a hard black/white step yields a
// magnitude around 1020), so thresholds carry over directly from the usual
// 0-255 conventions.
type Gradient struct {
	// GX and GY are the horizontal and vertical Sobel responses.
	GX, GY [][]float64

	// Mag is sqrt(GX² + GY²).
	Mag [][]float64

	Width, Height int
}

// SobelGradient computes 3x3 Sobel gradients over the whole raster.
// Border pixels use clamped (replicated) edge values.
func SobelGradient(gray *image.Gray) *Gradient {
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	g := &Gradient{
		GX:     make([][]float64, height),
		GY:     make([][]float64, height),
		Mag:    make([][]float64, height),
		Width:  width,
		Height: height,
	}

	for y := 0; y < height; y++ {
		g.GX[y] = make([]float64, width)
		g.GY[y] = make([]float64, width)
		g.Mag[y] = make([]float64, width)

		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					v := float64(gray.Pix[gray.PixOffset(px, py)])
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			g.GX[y][x] = gx
			g.GY[y][x] = gy
			g.Mag[y][x] = math.Sqrt(gx*gx + gy*gy)
		}
	}

	return g
}

// CannyEdges produces a binary edge map using the Canny algorithm:
// Sobel gradients, non-maximum suppression along the gradient direction,
// then double-threshold hysteresis. Pixels above thresholdHigh are strong
// edges; pixels between the thresholds survive only next to a strong edge.
//
// Thresholds are compared against the raw Sobel magnitude (8-bit scale).
// Border pixels are never edges.
func CannyEdges(gray *image.Gray, thresholdLow, thresholdHigh float64) [][]bool {
	grad := SobelGradient(gray)
	width, height := grad.Width, grad.Height

	// Non-maximum suppression: keep only local maxima along the gradient.
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := math.Atan2(grad.GY[y][x], grad.GX[y][x])
			mag := grad.Mag[y][x]

			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1 = grad.Mag[y][x-1]
				n2 = grad.Mag[y][x+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1 = grad.Mag[y-1][x+1]
				n2 = grad.Mag[y+1][x-1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1 = grad.Mag[y-1][x]
				n2 = grad.Mag[y+1][x]
			default:
				n1 = grad.Mag[y-1][x-1]
				n2 = grad.Mag[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	edges := make([][]bool, height)
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= thresholdHigh {
				edges[y][x] = true
			} else if val >= thresholdLow {
				for ky := -1; ky <= 1 && !edges[y][x]; ky++ {
					for kx := -1; kx <= 1 && !edges[y][x]; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py][px] >= thresholdHigh {
							edges[y][x] = true
						}
					}
				}
			}
		}
	}

	return edges
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
