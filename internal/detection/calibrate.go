package detection

import (
	"image"
	"math"
	"sort"

	"github.com/shotmetrics/target-score/internal/imaging"
	"github.com/shotmetrics/target-score/internal/target"
)

// Hough search tuning. The values mirror the parameters the scoring rig was
// calibrated with and must not drift: downstream consumers depend on the
// exact candidate set and tie-break.
const (
	houghDP            = 1.2 // accumulator resolution factor
	houghEdgeThreshold = 80  // Sobel magnitude for a pixel to cast votes
	houghAccThreshold  = 40  // votes for an accumulator cell to be a center
)

// DetectTarget finds the target's black aiming area in a preprocessed
// grayscale frame and derives the calibration from it. It always returns a
// usable calibration:
//
//  1. A Hough-style search votes along edge gradients for circle centers,
//     with radii between minDim/10 and minDim/2 and candidate centers at
//     least minDim/4 apart (minDim = the frame's shorter dimension).
//  2. Among candidates, the one minimizing
//     distanceFromImageCenter + 0.5*|radius - 0.3*minDim|
//     wins: targets are photographed centered and fill roughly 60% of the
//     frame's shorter side.
//  3. With no candidate at all, the frame midpoint and a radius of
//     0.3*minDim are assumed.
//
// Either way the detected circle is read as the black-area boundary, so
// pixelsPerMm = 2*radiusPx / blackAreaDiameterMm.
func DetectTarget(gray *image.Gray, cfg *target.Config) TargetCalibration {
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()
	minDim := width
	if height < minDim {
		minDim = height
	}

	minRadius := minDim / 10
	maxRadius := minDim / 2
	minDist := float64(minDim) / 4

	centerX := float64(width) / 2
	centerY := float64(height) / 2
	radiusPx := float64(minDim) * 0.30

	candidates := houghCircles(imaging.Smooth(gray), minRadius, maxRadius, minDist)
	if len(candidates) > 0 {
		best := candidates[0]
		bestScore := math.Inf(1)
		for _, c := range candidates {
			dist := math.Hypot(c.CenterX-centerX, c.CenterY-centerY)
			score := dist + 0.5*math.Abs(c.Radius-float64(minDim)*0.3)
			if score < bestScore {
				bestScore = score
				best = c
			}
		}
		centerX = best.CenterX
		centerY = best.CenterY
		radiusPx = best.Radius
	}

	return TargetCalibration{
		CenterX:     centerX,
		CenterY:     centerY,
		RadiusPx:    radiusPx,
		PixelsPerMm: (2 * radiusPx) / cfg.BlackAreaDiameterMm,
	}
}

// houghCircles runs the gradient-voting circle transform.
//
// Every pixel whose Sobel magnitude clears houghEdgeThreshold votes for
// potential centers along its gradient line, in both directions, at every
// radius in [minRadius, maxRadius]. The accumulator is downscaled by
// houghDP, so nearby votes pool into the same cell. Cells with at least
// houghAccThreshold votes that are local maxima become centers, strongest
// first, with weaker centers closer than minDist to an accepted one
// suppressed. Each center's radius is the most-supported edge-pixel
// distance within the search window.
func houghCircles(gray *image.Gray, minRadius, maxRadius int, minDist float64) []DetectedCircle {
	if minRadius < 1 {
		minRadius = 1
	}
	if maxRadius < minRadius {
		maxRadius = minRadius
	}

	grad := imaging.SobelGradient(gray)
	width, height := grad.Width, grad.Height

	accW := int(math.Ceil(float64(width) / houghDP))
	accH := int(math.Ceil(float64(height) / houghDP))
	if accW < 1 || accH < 1 {
		return nil
	}
	acc := make([]int, accW*accH)

	type edgePixel struct{ x, y int }
	var edges []edgePixel

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mag := grad.Mag[y][x]
			if mag < houghEdgeThreshold {
				continue
			}
			edges = append(edges, edgePixel{x, y})

			ux := grad.GX[y][x] / mag
			uy := grad.GY[y][x] / mag
			for r := minRadius; r <= maxRadius; r++ {
				fr := float64(r)
				for _, sign := range [2]float64{1, -1} {
					cx := float64(x) + sign*ux*fr
					cy := float64(y) + sign*uy*fr
					ax := int(cx / houghDP)
					ay := int(cy / houghDP)
					if ax >= 0 && ax < accW && ay >= 0 && ay < accH {
						acc[ay*accW+ax]++
					}
				}
			}
		}
	}

	// Collect voting peaks.
	type peak struct {
		votes  int
		cx, cy float64
	}
	var peaks []peak
	for ay := 0; ay < accH; ay++ {
		for ax := 0; ax < accW; ax++ {
			votes := acc[ay*accW+ax]
			if votes < houghAccThreshold {
				continue
			}
			isMax := true
			for dy := -1; dy <= 1 && isMax; dy++ {
				for dx := -1; dx <= 1 && isMax; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := ax+dx, ay+dy
					if nx >= 0 && nx < accW && ny >= 0 && ny < accH && acc[ny*accW+nx] > votes {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{
					votes: votes,
					cx:    (float64(ax) + 0.5) * houghDP,
					cy:    (float64(ay) + 0.5) * houghDP,
				})
			}
		}
	}
	sort.Slice(peaks, func(i, j int) bool { return peaks[i].votes > peaks[j].votes })

	var circles []DetectedCircle
	for _, p := range peaks {
		tooClose := false
		for _, c := range circles {
			if math.Hypot(p.cx-c.CenterX, p.cy-c.CenterY) < minDist {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}

		// Radius = the most supported edge distance from this center.
		hist := make([]int, maxRadius-minRadius+1)
		for _, e := range edges {
			d := math.Hypot(float64(e.x)-p.cx, float64(e.y)-p.cy)
			bin := int(math.Round(d)) - minRadius
			if bin >= 0 && bin < len(hist) {
				hist[bin]++
			}
		}
		bestBin, bestCount := 0, -1
		for bin, count := range hist {
			if count > bestCount {
				bestCount = count
				bestBin = bin
			}
		}

		circles = append(circles, DetectedCircle{
			CenterX: p.cx,
			CenterY: p.cy,
			Radius:  float64(minRadius + bestBin),
		})
	}

	return circles
}
