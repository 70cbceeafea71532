// Package detection locates the target and its bullet holes in a
// preprocessed grayscale frame.
//
// Two detectors build on the same gradient machinery:
//
//   - DetectTarget runs a Hough-style circular feature search over edge
//     gradients to find the target's black aiming area, producing a
//     TargetCalibration (center, radius, pixels-per-millimeter). It never
//     fails: when no circle stands out it falls back to the image midpoint
//     and an assumed target size, because a low-confidence scoring attempt
//     the shooter can inspect beats no attempt at all.
//
//   - FindHoles searches the calibrated disc for bullet-hole-like blobs.
//     Candidates are swept across binarization thresholds and kept only when
//     their area, circularity, convexity, and inertia ratio all match hole
//     statistics. The search runs on the image and on its inversion, since a
//     hole reads darker or lighter than the paper depending on backing and
//     light; near-duplicates across the two passes collapse to the
//     first-found candidate.
//
// Both detectors are pure functions of their inputs and are safe to run
// concurrently on independent frames.
//
// # Manual calibration
//
// When automatic detection misjudges the target, a caller may supply a
// TargetCalibration directly -- typically via CalibrationFromPoints, built
// from a user-picked center and edge point. Downstream stages cannot tell
// the two apart.
package detection
