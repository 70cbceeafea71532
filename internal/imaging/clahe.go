package imaging

import (
	"image"
	"math"
)

// CLAHE applies contrast-limited adaptive histogram equalization.
//
// The raster is divided into a tiles×tiles grid. Each tile gets its own
// histogram, clipped at clipLimit times the uniform bin height (the clipped
// excess is redistributed evenly across all bins), and the resulting CDF
// becomes that tile's intensity mapping. Each output pixel bilinearly
// interpolates the mappings of the four nearest tile centers, which removes
// the block seams plain tiled equalization would leave.
//
// The standard parameters for target photos are clipLimit 2.0 with an 8×8
// grid: strong enough to recover ring contrast in shadowed corners, limited
// enough not to amplify paper grain into blob candidates.
func CLAHE(gray *image.Gray, clipLimit float64, tiles int) *image.Gray {
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()
	if tiles < 1 {
		tiles = 1
	}

	tileW := (width + tiles - 1) / tiles
	tileH := (height + tiles - 1) / tiles
	if tileW < 1 {
		tileW = 1
	}
	if tileH < 1 {
		tileH = 1
	}

	// Per-tile lookup tables built from clipped histograms.
	luts := make([][][256]uint8, tiles)
	for ty := 0; ty < tiles; ty++ {
		luts[ty] = make([][256]uint8, tiles)
		for tx := 0; tx < tiles; tx++ {
			x0 := tx * tileW
			y0 := ty * tileH
			x1 := clamp(x0+tileW, 0, width)
			y1 := clamp(y0+tileH, 0, height)
			if x0 >= width {
				x0 = width - 1
			}
			if y0 >= height {
				y0 = height - 1
			}
			luts[ty][tx] = tileLUT(gray, x0, y0, x1, y1, clipLimit)
		}
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		// Fractional tile-grid position of this pixel relative to tile centers.
		fy := (float64(y)-float64(tileH)/2 + 0.5) / float64(tileH)
		ty0 := clamp(int(math.Floor(fy)), 0, tiles-1)
		ty1 := clamp(ty0+1, 0, tiles-1)
		wy := fy - math.Floor(fy)
		if fy < 0 {
			wy = 0
		}
		if ty0 == tiles-1 {
			wy = 0
		}

		for x := 0; x < width; x++ {
			fx := (float64(x)-float64(tileW)/2 + 0.5) / float64(tileW)
			tx0 := clamp(int(math.Floor(fx)), 0, tiles-1)
			tx1 := clamp(tx0+1, 0, tiles-1)
			wx := fx - math.Floor(fx)
			if fx < 0 {
				wx = 0
			}
			if tx0 == tiles-1 {
				wx = 0
			}

			v := gray.Pix[gray.PixOffset(x, y)]
			top := (1-wx)*float64(luts[ty0][tx0][v]) + wx*float64(luts[ty0][tx1][v])
			bottom := (1-wx)*float64(luts[ty1][tx0][v]) + wx*float64(luts[ty1][tx1][v])
			mapped := (1-wy)*top + wy*bottom

			out.Pix[out.PixOffset(x, y)] = uint8(clamp(int(math.Round(mapped)), 0, 255))
		}
	}

	return out
}

// tileLUT builds the clipped-equalization lookup table for one tile region.
func tileLUT(gray *image.Gray, x0, y0, x1, y1 int, clipLimit float64) [256]uint8 {
	var hist [256]int
	total := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			hist[gray.Pix[gray.PixOffset(x, y)]]++
			total++
		}
	}

	var lut [256]uint8
	if total == 0 {
		for i := range lut {
			lut[i] = uint8(i)
		}
		return lut
	}

	// Clip each bin at clipLimit times the uniform height, then hand the
	// excess back evenly so the CDF still sums to the tile pixel count.
	clip := int(clipLimit * float64(total) / 256)
	if clip < 1 {
		clip = 1
	}
	excess := 0
	for i := range hist {
		if hist[i] > clip {
			excess += hist[i] - clip
			hist[i] = clip
		}
	}
	share := excess / 256
	remainder := excess % 256
	for i := range hist {
		hist[i] += share
	}
	if remainder > 0 {
		// Spread the leftover across the full bin range, not just the low
		// end, so flat regions keep a near-identity mapping.
		step := 256 / remainder
		if step < 1 {
			step = 1
		}
		for i := 0; i < 256 && remainder > 0; i += step {
			hist[i]++
			remainder--
		}
	}

	cdf := 0
	for i := range hist {
		cdf += hist[i]
		lut[i] = uint8(clamp(int(math.Round(float64(cdf)*255/float64(total))), 0, 255))
	}
	return lut
}
