package detection

import (
	"image"
	"math"
	"sort"

	"github.com/shotmetrics/target-score/internal/imaging"
	"github.com/shotmetrics/target-score/internal/target"
)

// Blob binarization sweep. A candidate must survive at least
// blobMinRepeatability consecutive thresholds to count, which rejects
// single-threshold noise speckles.
const (
	blobMinThreshold     = 50
	blobMaxThreshold     = 220
	blobThresholdStep    = 10
	blobMinRepeatability = 2
)

// Blob shape gates. Bullet holes are compact and nearly round; paper tears,
// ring arcs, and printed digits fail at least one of these.
const (
	blobMinCircularity  = 0.55
	blobMinConvexity    = 0.70
	blobMinInertiaRatio = 0.40
)

// FindHoles searches the calibrated disc for bullet holes and returns them
// ordered nearest-to-center first.
//
// The expected hole size comes from the calibration: with
// brPx = bulletRadius in pixels, the search accepts blob radii in
// [max(3, 0.5*brPx), max(min+5, 2.5*brPx)] -- holes tear slightly wider
// than the bullet and perspective shrinks them. Holes closer together than
// max(8, 1.5*brPx) are considered the same hole.
//
// Search runs twice, on the masked grayscale and on its inversion, because
// a hole may read darker or lighter than the paper. Blobs from both passes
// accumulate in discovery order and a later blob within the minimum
// separation of an earlier one is dropped, so the normal pass wins
// conflicts with the inverted pass.
func FindHoles(gray *image.Gray, calib TargetCalibration, cfg *target.Config) []DetectedCircle {
	bulletRadiusPx := calib.MmToPx(cfg.BulletDiameterMm / 2)
	minRadius := math.Max(3, 0.5*bulletRadiusPx)
	maxRadius := math.Max(minRadius+5, 2.5*bulletRadiusPx)
	minHoleDistance := math.Max(8, 1.5*bulletRadiusPx)

	minArea := math.Pi * minRadius * minRadius
	maxArea := math.Pi * maxRadius * maxRadius

	mask := discMask(gray.Bounds().Dx(), gray.Bounds().Dy(), calib)

	var holes []DetectedCircle
	for _, inverted := range [2]bool{false, true} {
		img := gray
		if inverted {
			img = imaging.Invert(gray)
		}

		for _, blob := range detectBlobs(img, mask, minArea, maxArea, minHoleDistance) {
			distFromCenter := math.Hypot(blob.centerX-calib.CenterX, blob.centerY-calib.CenterY)
			if distFromCenter > calib.RadiusPx {
				continue
			}

			duplicate := false
			for _, h := range holes {
				if h.DistanceTo(blob.centerX, blob.centerY) < minHoleDistance {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}

			holes = append(holes, DetectedCircle{
				CenterX:   blob.centerX,
				CenterY:   blob.centerY,
				Radius:    math.Max(blob.radius, minRadius),
				Intensity: meanIntensity(gray, blob.centerX, blob.centerY, blob.radius),
			})
		}
	}

	sort.SliceStable(holes, func(i, j int) bool {
		di := math.Hypot(holes[i].CenterX-calib.CenterX, holes[i].CenterY-calib.CenterY)
		dj := math.Hypot(holes[j].CenterX-calib.CenterX, holes[j].CenterY-calib.CenterY)
		return di < dj
	})

	return holes
}

// discMask marks the pixels inside the calibrated target disc. All blob
// search is confined to it.
type maskRect struct {
	inside         [][]bool
	x0, y0, x1, y1 int // bounding box of the disc, clipped to the frame
}

func discMask(width, height int, calib TargetCalibration) maskRect {
	m := maskRect{
		inside: make([][]bool, height),
		x0:     clampInt(int(calib.CenterX-calib.RadiusPx), 0, width),
		y0:     clampInt(int(calib.CenterY-calib.RadiusPx), 0, height),
		x1:     clampInt(int(calib.CenterX+calib.RadiusPx)+1, 0, width),
		y1:     clampInt(int(calib.CenterY+calib.RadiusPx)+1, 0, height),
	}
	r2 := calib.RadiusPx * calib.RadiusPx
	for y := 0; y < height; y++ {
		m.inside[y] = make([]bool, width)
	}
	for y := m.y0; y < m.y1; y++ {
		for x := m.x0; x < m.x1; x++ {
			dx := float64(x) - calib.CenterX
			dy := float64(y) - calib.CenterY
			if dx*dx+dy*dy <= r2 {
				m.inside[y][x] = true
			}
		}
	}
	return m
}

// blob is an accepted candidate: the average over its appearances across
// the threshold sweep.
type blob struct {
	centerX, centerY float64
	radius           float64
	count            int
}

// detectBlobs extracts dark connected components at every threshold of the
// sweep, gates them on area and shape, and groups appearances closer than
// groupDist into one blob. Groups seen at fewer than blobMinRepeatability
// thresholds are dropped. Blobs come back in discovery order.
func detectBlobs(gray *image.Gray, mask maskRect, minArea, maxArea, groupDist float64) []blob {
	var groups []blob

	for threshold := blobMinThreshold; threshold <= blobMaxThreshold; threshold += blobThresholdStep {
		for _, comp := range darkComponents(gray, mask, uint8(threshold)) {
			area := float64(len(comp))
			if area < minArea || area > maxArea {
				continue
			}
			if !isHoleShaped(comp, area) {
				continue
			}

			var sumX, sumY float64
			for _, p := range comp {
				sumX += float64(p.X)
				sumY += float64(p.Y)
			}
			cx := sumX / area
			cy := sumY / area
			radius := math.Sqrt(area / math.Pi)

			merged := false
			for i := range groups {
				g := &groups[i]
				if math.Hypot(cx-g.centerX/float64(g.count), cy-g.centerY/float64(g.count)) < groupDist {
					g.centerX += cx
					g.centerY += cy
					g.radius += radius
					g.count++
					merged = true
					break
				}
			}
			if !merged {
				groups = append(groups, blob{centerX: cx, centerY: cy, radius: radius, count: 1})
			}
		}
	}

	out := make([]blob, 0, len(groups))
	for _, g := range groups {
		if g.count < blobMinRepeatability {
			continue
		}
		n := float64(g.count)
		out = append(out, blob{
			centerX: g.centerX / n,
			centerY: g.centerY / n,
			radius:  g.radius / n,
			count:   g.count,
		})
	}
	return out
}

// darkComponents returns the 8-connected components of in-disc pixels
// darker than threshold, in scan order.
func darkComponents(gray *image.Gray, mask maskRect, threshold uint8) [][]image.Point {
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}
	isDark := func(x, y int) bool {
		return mask.inside[y][x] && gray.Pix[gray.PixOffset(x, y)] < threshold
	}

	var components [][]image.Point
	for y := mask.y0; y < mask.y1; y++ {
		for x := mask.x0; x < mask.x1; x++ {
			if visited[y][x] || !isDark(x, y) {
				continue
			}

			var comp []image.Point
			stack := []image.Point{{X: x, Y: y}}
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
					continue
				}
				if visited[p.Y][p.X] || !isDark(p.X, p.Y) {
					continue
				}
				visited[p.Y][p.X] = true
				comp = append(comp, p)

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
					}
				}
			}
			components = append(components, comp)
		}
	}
	return components
}

// isHoleShaped applies the three shape gates to one component.
//
// Circularity is 4π·area/perimeter², with the perimeter taken as the
// crack-boundary length scaled by π/4 so an ideal digital disc scores ~1.
// Convexity is area over convex hull area. The inertia ratio is the
// minor/major eigenvalue ratio of the central second moments: 1 for a
// perfect circle, toward 0 for elongated streaks.
func isHoleShaped(comp []image.Point, area float64) bool {
	inComp := make(map[image.Point]bool, len(comp))
	for _, p := range comp {
		inComp[p] = true
	}

	cracks := 0
	var boundary []image.Point
	for _, p := range comp {
		exposed := 0
		for _, n := range [4]image.Point{{p.X + 1, p.Y}, {p.X - 1, p.Y}, {p.X, p.Y + 1}, {p.X, p.Y - 1}} {
			if !inComp[n] {
				exposed++
			}
		}
		if exposed > 0 {
			boundary = append(boundary, p)
			cracks += exposed
		}
	}

	perimeter := float64(cracks) * math.Pi / 4
	if perimeter <= 0 {
		return false
	}
	circularity := 4 * math.Pi * area / (perimeter * perimeter)
	if circularity < blobMinCircularity {
		return false
	}

	hull := imaging.ConvexHull(boundary)
	hullArea := imaging.PolygonArea(hull)
	convexity := 1.0
	if hullArea > 0 {
		convexity = area / hullArea
	}
	if convexity < blobMinConvexity {
		return false
	}

	var sumX, sumY float64
	for _, p := range comp {
		sumX += float64(p.X)
		sumY += float64(p.Y)
	}
	cx := sumX / area
	cy := sumY / area

	var mu20, mu02, mu11 float64
	for _, p := range comp {
		dx := float64(p.X) - cx
		dy := float64(p.Y) - cy
		mu20 += dx * dx
		mu02 += dy * dy
		mu11 += dx * dy
	}
	common := math.Sqrt((mu20-mu02)*(mu20-mu02) + 4*mu11*mu11)
	major := (mu20 + mu02 + common) / 2
	minor := (mu20 + mu02 - common) / 2
	inertia := 1.0
	if major > 0 {
		inertia = minor / major
	}
	return inertia >= blobMinInertiaRatio
}

// meanIntensity samples the original grayscale around a blob center for
// overlay diagnostics.
func meanIntensity(gray *image.Gray, cx, cy, radius float64) float64 {
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()
	r := int(math.Max(1, radius))
	x0 := clampInt(int(cx)-r, 0, width-1)
	x1 := clampInt(int(cx)+r, 0, width-1)
	y0 := clampInt(int(cy)-r, 0, height-1)
	y1 := clampInt(int(cy)+r, 0, height-1)

	sum, n := 0.0, 0
	r2 := radius * radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r2 {
				sum += float64(gray.Pix[gray.PixOffset(x, y)])
				n++
			}
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
