// Package overlay renders analysis results back onto the photograph:
// the detected black-area circle, the configured scoring rings, a center
// crosshair, and one marker per scored hole colored by its score.
package overlay

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/shotmetrics/target-score/internal/detection"
	"github.com/shotmetrics/target-score/internal/scoring"
	"github.com/shotmetrics/target-score/internal/target"
)

// maxDimension caps the encoded overlay; phone photos are far larger than
// anything a client needs to display.
const maxDimension = 1200

var (
	calibrationColor = color.RGBA{0, 180, 255, 255} // cyan
	ringColor        = color.RGBA{255, 210, 0, 255} // amber
	crosshairColor   = color.RGBA{0, 180, 255, 255}
	missColor        = color.RGBA{158, 158, 158, 255} // gray
)

// Result is the rendered overlay, encoded for transport.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Render draws the calibration geometry and scored holes over base and
// returns the result as base64 PNG, downscaled to fit maxDimension.
func Render(base image.Image, calib detection.TargetCalibration, cfg *target.Config, scored []scoring.ScoredHole) (*Result, error) {
	bounds := base.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), base, bounds.Min, draw.Src)

	cx, cy := calib.CenterX, calib.CenterY

	// Detected black-area boundary.
	drawCircle(canvas, cx, cy, calib.RadiusPx, calibrationColor)

	// Configured scoring rings at their true scale.
	for _, ring := range cfg.Rings {
		drawCircle(canvas, cx, cy, calib.MmToPx(ring.RadiusMm()), ringColor)
	}

	drawCrosshair(canvas, cx, cy, 12)

	maxScore := 0.0
	for _, ring := range cfg.Rings {
		if ring.Score > maxScore {
			maxScore = ring.Score
		}
	}
	for _, shot := range scored {
		c := markerColor(shot, maxScore)
		drawCircle(canvas, shot.Hole.CenterX, shot.Hole.CenterY, shot.Hole.Radius, c)
		drawCircle(canvas, shot.Hole.CenterX, shot.Hole.CenterY, shot.Hole.Radius+1, c)
	}

	var out image.Image = canvas
	if bounds.Dx() > maxDimension || bounds.Dy() > maxDimension {
		out = imaging.Fit(canvas, maxDimension, maxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &Result{
		Width:       out.Bounds().Dx(),
		Height:      out.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// markerColor blends from red (worst hit) to green (best ring) in HCL
// space; misses are flat gray.
func markerColor(shot scoring.ScoredHole, maxScore float64) color.RGBA {
	if shot.RingName == scoring.MissRingName || maxScore <= 0 {
		return missColor
	}
	worst, _ := colorful.Hex("#d32f2f")
	best, _ := colorful.Hex("#2e7d32")
	t := shot.Score / maxScore
	r, g, b := worst.BlendHcl(best, t).Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

// drawCircle plots a one-pixel circle outline with a parametric sweep.
func drawCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA) {
	if radius <= 0 {
		return
	}
	steps := int(2 * math.Pi * radius)
	if steps < 32 {
		steps = 32
	}
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(cx + radius*math.Cos(theta)))
		y := int(math.Round(cy + radius*math.Sin(theta)))
		setPixel(img, x, y, c)
	}
}

// drawCrosshair marks the calibration center with arm length px.
func drawCrosshair(img *image.RGBA, cx, cy float64, arm int) {
	x0, y0 := int(math.Round(cx)), int(math.Round(cy))
	for d := -arm; d <= arm; d++ {
		setPixel(img, x0+d, y0, crosshairColor)
		setPixel(img, x0, y0+d, crosshairColor)
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}
