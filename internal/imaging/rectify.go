package imaging

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// DetectQuad looks for a large quadrilateral (a screen or the target card
// boundary) in the image. It returns the four corners ordered top-left,
// top-right, bottom-right, bottom-left, and reports whether one was found.
//
// A contour qualifies when its Douglas-Peucker approximation (epsilon = 2%
// of the contour perimeter) has exactly 4 vertices and encloses more than
// 10% of the image area. The five largest contours are examined, biggest
// first, and the first qualifying one wins.
func DetectQuad(img image.Image) ([4]image.Point, bool) {
	gray := Smooth(ToGray(img))
	edges := CannyEdges(gray, 50, 150)

	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()
	imageArea := float64(width * height)

	contours := findEdgeContours(edges, width, height)

	// Work on hulls: flood-filled edge contours are unordered pixel sets,
	// and the hull recovers the boundary ring the approximation needs.
	hulls := make([][]image.Point, 0, len(contours))
	for _, contour := range contours {
		hulls = append(hulls, ConvexHull(contour))
	}
	sort.Slice(hulls, func(i, j int) bool {
		return PolygonArea(hulls[i]) > PolygonArea(hulls[j])
	})

	limit := 5
	if len(hulls) < limit {
		limit = len(hulls)
	}
	for _, hull := range hulls[:limit] {
		approx := approxPolygon(hull, 0.02*polygonPerimeter(hull))
		if len(approx) != 4 {
			continue
		}
		if PolygonArea(approx) <= imageArea*0.1 {
			continue
		}
		var quad [4]image.Point
		copy(quad[:], approx)
		return orderQuad(quad), true
	}

	var zero [4]image.Point
	return zero, false
}

// orderQuad orders corners as top-left, top-right, bottom-right, bottom-left.
// Top-left has the smallest x+y, bottom-right the largest; top-right has the
// largest x-y, bottom-left the smallest.
func orderQuad(pts [4]image.Point) [4]image.Point {
	var out [4]image.Point
	tlIdx, brIdx, trIdx, blIdx := 0, 0, 0, 0
	for i, p := range pts {
		s := p.X + p.Y
		d := p.X - p.Y
		if s < pts[tlIdx].X+pts[tlIdx].Y {
			tlIdx = i
		}
		if s > pts[brIdx].X+pts[brIdx].Y {
			brIdx = i
		}
		if d > pts[trIdx].X-pts[trIdx].Y {
			trIdx = i
		}
		if d < pts[blIdx].X-pts[blIdx].Y {
			blIdx = i
		}
	}
	out[0] = pts[tlIdx]
	out[1] = pts[trIdx]
	out[2] = pts[brIdx]
	out[3] = pts[blIdx]
	return out
}

// WarpPerspective maps the quadrilateral described by corners (ordered
// top-left, top-right, bottom-right, bottom-left) onto an axis-aligned
// rectangle. The output width is the longer of the two horizontal edges and
// the output height the longer of the two vertical edges, so the larger side
// of a tilted card is never downsampled.
//
// Sampling is bilinear through the inverse projective transform; output
// pixels that map outside the source stay black.
func WarpPerspective(img image.Image, corners [4]image.Point) *image.NRGBA {
	tl, tr, br, bl := corners[0], corners[1], corners[2], corners[3]

	maxWidth := int(math.Max(pointDistance(tr, tl), pointDistance(br, bl)))
	maxHeight := int(math.Max(pointDistance(bl, tl), pointDistance(br, tr)))
	if maxWidth < 1 {
		maxWidth = 1
	}
	if maxHeight < 1 {
		maxHeight = 1
	}

	dst := [4][2]float64{
		{0, 0},
		{float64(maxWidth - 1), 0},
		{float64(maxWidth - 1), float64(maxHeight - 1)},
		{0, float64(maxHeight - 1)},
	}
	src := [4][2]float64{
		{float64(tl.X), float64(tl.Y)},
		{float64(tr.X), float64(tr.Y)},
		{float64(br.X), float64(br.Y)},
		{float64(bl.X), float64(bl.Y)},
	}

	// Solve the homography in the dst->src direction so the warp loop can
	// inverse-map output pixels straight into the source.
	h := solveHomography(dst, src)

	out := image.NewNRGBA(image.Rect(0, 0, maxWidth, maxHeight))
	for y := 0; y < maxHeight; y++ {
		for x := 0; x < maxWidth; x++ {
			fx := float64(x)
			fy := float64(y)
			w := h[6]*fx + h[7]*fy + h[8]
			if w == 0 {
				continue
			}
			sx := (h[0]*fx + h[1]*fy + h[2]) / w
			sy := (h[3]*fx + h[4]*fy + h[5]) / w

			r, g, b, a, ok := bilinearSample(img, sx, sy)
			if !ok {
				continue
			}
			out.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: a})
		}
	}
	return out
}

// solveHomography computes the 3x3 projective transform (row-major, h[8]
// normalized to 1) mapping each src[i] to dst[i], by Gaussian elimination
// of the standard 8x8 direct linear system.
func solveHomography(src, dst [4][2]float64) [9]float64 {
	var m [8][9]float64
	for i := 0; i < 4; i++ {
		sx, sy := src[i][0], src[i][1]
		dx, dy := dst[i][0], dst[i][1]
		m[2*i] = [9]float64{sx, sy, 1, 0, 0, 0, -dx * sx, -dx * sy, dx}
		m[2*i+1] = [9]float64{0, 0, 0, sx, sy, 1, -dy * sx, -dy * sy, dy}
	}

	for col := 0; col < 8; col++ {
		pivot := col
		for row := col + 1; row < 8; row++ {
			if math.Abs(m[row][col]) > math.Abs(m[pivot][col]) {
				pivot = row
			}
		}
		m[col], m[pivot] = m[pivot], m[col]
		if m[col][col] == 0 {
			continue
		}
		for row := 0; row < 8; row++ {
			if row == col {
				continue
			}
			factor := m[row][col] / m[col][col]
			for k := col; k < 9; k++ {
				m[row][k] -= factor * m[col][k]
			}
		}
	}

	var h [9]float64
	for i := 0; i < 8; i++ {
		if m[i][i] != 0 {
			h[i] = m[i][8] / m[i][i]
		}
	}
	h[8] = 1
	return h
}

// bilinearSample reads the image at a fractional coordinate, blending the
// four surrounding pixels. ok is false when the coordinate falls outside
// the image.
func bilinearSample(img image.Image, x, y float64) (r, g, b, a uint8, ok bool) {
	bounds := img.Bounds()
	fx := math.Floor(x)
	fy := math.Floor(y)
	x0 := int(fx) + bounds.Min.X
	y0 := int(fy) + bounds.Min.Y
	if x0 < bounds.Min.X || y0 < bounds.Min.Y || x0 >= bounds.Max.X || y0 >= bounds.Max.Y {
		return 0, 0, 0, 0, false
	}
	x1 := x0 + 1
	y1 := y0 + 1
	if x1 >= bounds.Max.X {
		x1 = x0
	}
	if y1 >= bounds.Max.Y {
		y1 = y0
	}

	wx := x - fx
	wy := y - fy

	blend := func(c00, c10, c01, c11 uint32) uint8 {
		top := (1-wx)*float64(c00) + wx*float64(c10)
		bottom := (1-wx)*float64(c01) + wx*float64(c11)
		return uint8(((1-wy)*top + wy*bottom) / 257)
	}

	r00, g00, b00, a00 := img.At(x0, y0).RGBA()
	r10, g10, b10, a10 := img.At(x1, y0).RGBA()
	r01, g01, b01, a01 := img.At(x0, y1).RGBA()
	r11, g11, b11, a11 := img.At(x1, y1).RGBA()

	return blend(r00, r10, r01, r11),
		blend(g00, g10, g01, g11),
		blend(b00, b10, b01, b11),
		blend(a00, a10, a01, a11),
		true
}

// findEdgeContours groups connected edge pixels into contours using
// stack-based flood fill with 8-connectivity. Contours smaller than
// 10 pixels are discarded as noise.
func findEdgeContours(edges [][]bool, width, height int) [][]image.Point {
	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	var contours [][]image.Point
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] || visited[y][x] {
				continue
			}

			var contour []image.Point
			stack := []image.Point{{X: x, Y: y}}
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
					continue
				}
				if visited[p.Y][p.X] || !edges[p.Y][p.X] {
					continue
				}
				visited[p.Y][p.X] = true
				contour = append(contour, p)

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
					}
				}
			}

			if len(contour) >= 10 {
				contours = append(contours, contour)
			}
		}
	}
	return contours
}
