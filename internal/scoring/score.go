// Package scoring converts detected bullet holes into ring scores and
// aggregates them into a per-card summary.
//
// Scoring follows the ISSF edge-scoring convention: a bullet scores the
// highest ring its edge touches, so the hole-center distance is reduced by
// the bullet's own radius before the ring lookup, and the ring boundary is
// inclusive. All functions here are pure; nothing carries state between
// shots except the explicit Session type used for live frame-to-frame
// scoring.
package scoring

import (
	"math"

	"github.com/shotmetrics/target-score/internal/detection"
	"github.com/shotmetrics/target-score/internal/target"
)

// MissRingName labels a hole outside every scoring ring.
const MissRingName = "Miss"

// ScoredHole pairs a detected hole with the ring it struck.
// Created only by Score; immutable afterwards.
type ScoredHole struct {
	Hole detection.DetectedCircle `json:"hole"`

	// Score is the awarded ring value, 0 for a miss.
	Score float64 `json:"score"`

	// RingName is the struck ring's label, or "Miss".
	RingName string `json:"ring"`

	// DistanceFromCenterMm is the hole center's distance to the target
	// center in millimeters, always >= 0.
	DistanceFromCenterMm float64 `json:"distance_from_center_mm"`
}

// Score determines the ring a single hole struck. It never fails.
//
// The rings are walked in their stored ascending-diameter order and the
// first ring whose radius is >= the edge-scoring distance wins; equality
// counts as inside, so a shot exactly on a ring boundary takes the better
// ring. A hole beyond the outermost ring scores 0 as a miss.
//
// The caller guarantees cfg passed target validation; Score does not
// re-check ring ordering.
func Score(hole detection.DetectedCircle, calib detection.TargetCalibration, cfg *target.Config) ScoredHole {
	distanceMm := calib.PxToMm(hole.DistanceTo(calib.CenterX, calib.CenterY))

	// Edge scoring: the bullet only needs to touch a ring to take it.
	scoringDistance := distanceMm - cfg.BulletRadiusMm()

	for _, ring := range cfg.Rings {
		if scoringDistance <= ring.RadiusMm() {
			return ScoredHole{
				Hole:                 hole,
				Score:                ring.Score,
				RingName:             ring.Name,
				DistanceFromCenterMm: distanceMm,
			}
		}
	}

	return ScoredHole{
		Hole:                 hole,
		Score:                0,
		RingName:             MissRingName,
		DistanceFromCenterMm: distanceMm,
	}
}

// ScoreAll scores every hole independently, preserving input order.
func ScoreAll(holes []detection.DetectedCircle, calib detection.TargetCalibration, cfg *target.Config) []ScoredHole {
	scored := make([]ScoredHole, 0, len(holes))
	for _, hole := range holes {
		scored = append(scored, Score(hole, calib, cfg))
	}
	return scored
}

// TotalScore sums the awarded scores. Order-independent.
func TotalScore(scored []ScoredHole) float64 {
	total := 0.0
	for _, h := range scored {
		total += h.Score
	}
	return total
}

// round2 rounds to 2 decimal places, the precision reported to shooters.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
