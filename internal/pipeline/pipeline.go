// Package pipeline chains the processing stages into the single entry point
// the service surfaces call: preprocess, calibrate, find holes, score,
// summarize. Every stage is total, so a Result is always produced; a bad
// photograph degrades to zero holes on a fallback calibration rather than
// an error.
package pipeline

import (
	"image"

	"github.com/shotmetrics/target-score/internal/detection"
	"github.com/shotmetrics/target-score/internal/imaging"
	"github.com/shotmetrics/target-score/internal/scoring"
	"github.com/shotmetrics/target-score/internal/target"
)

// Options selects the optional stages of a run.
type Options struct {
	// ApplyPerspective enables quadrilateral detection and projective
	// rectification before analysis. Off by default: straight-on photos
	// don't need it and a spurious quad would distort them.
	ApplyPerspective bool

	// Manual, when non-nil, replaces automatic target detection with a
	// caller-supplied calibration (e.g. from two user-picked points).
	Manual *detection.TargetCalibration
}

// Result is a full analysis of one photograph.
type Result struct {
	Calibration detection.TargetCalibration `json:"calibration"`
	Holes       []detection.DetectedCircle  `json:"holes"`
	Scored      []scoring.ScoredHole        `json:"scored"`
	Summary     scoring.Summary             `json:"summary"`

	// Gray is the preprocessed raster the detections ran on.
	Gray *image.Gray `json:"-"`

	// ColorRef is the (possibly rectified) color image, kept for overlay
	// rendering.
	ColorRef image.Image `json:"-"`
}

// Process runs the complete pipeline on a decoded photograph.
func Process(img image.Image, cfg *target.Config, opts Options) Result {
	gray, colorRef := imaging.Preprocess(img, opts.ApplyPerspective)
	result := Analyze(gray, cfg, opts.Manual)
	result.ColorRef = colorRef
	return result
}

// Analyze runs the detection and scoring stages on an already preprocessed
// grayscale frame. A nil manual calibration triggers automatic target
// detection.
func Analyze(gray *image.Gray, cfg *target.Config, manual *detection.TargetCalibration) Result {
	var calib detection.TargetCalibration
	if manual != nil {
		calib = *manual
	} else {
		calib = detection.DetectTarget(gray, cfg)
	}

	holes := detection.FindHoles(gray, calib, cfg)
	scored := scoring.ScoreAll(holes, calib, cfg)

	return Result{
		Calibration: calib,
		Holes:       holes,
		Scored:      scored,
		Summary:     scoring.Summarize(scored),
		Gray:        gray,
	}
}
