package detection

import (
	"math"

	"github.com/shotmetrics/target-score/internal/target"
)

// DetectedCircle is one candidate circular feature: a bullet hole found by
// FindHoles. Coordinates and radius are in pixels of the analyzed frame.
// Values are immutable once produced.
type DetectedCircle struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
	Radius  float64 `json:"radius"`

	// Intensity is the mean grayscale value over the blob's pixels,
	// kept for overlay diagnostics. Zero when not sampled.
	Intensity float64 `json:"intensity,omitempty"`
}

// DistanceTo returns the Euclidean distance from the circle center to (x, y).
func (c DetectedCircle) DistanceTo(x, y float64) float64 {
	dx := c.CenterX - x
	dy := c.CenterY - y
	return math.Sqrt(dx*dx + dy*dy)
}

// TargetCalibration anchors the pixel-to-millimeter mapping at the target's
// detected (or asserted) center. PixelsPerMm must be positive; both the
// automatic and manual construction paths guarantee that.
type TargetCalibration struct {
	CenterX     float64 `json:"center_x"`
	CenterY     float64 `json:"center_y"`
	RadiusPx    float64 `json:"radius_px"`
	PixelsPerMm float64 `json:"pixels_per_mm"`
}

// MmToPx converts a millimeter length to pixels.
func (c TargetCalibration) MmToPx(mm float64) float64 {
	return mm * c.PixelsPerMm
}

// PxToMm converts a pixel length to millimeters.
func (c TargetCalibration) PxToMm(px float64) float64 {
	return px / c.PixelsPerMm
}

// CalibrationFromPoints builds a manual calibration from two user-picked
// points: the target center and any point on the black-area boundary. The
// radius is their distance and the scale interprets that circle as the
// configured black-area diameter, exactly as automatic detection does.
func CalibrationFromPoints(centerX, centerY, edgeX, edgeY float64, cfg *target.Config) TargetCalibration {
	dx := edgeX - centerX
	dy := edgeY - centerY
	radius := math.Sqrt(dx*dx + dy*dy)
	return TargetCalibration{
		CenterX:     centerX,
		CenterY:     centerY,
		RadiusPx:    radius,
		PixelsPerMm: (2 * radius) / cfg.BlackAreaDiameterMm,
	}
}
