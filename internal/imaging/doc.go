// Package imaging provides the image preprocessing stages that feed target
// detection and hole finding.
//
// The entry point is Preprocess, which turns an arbitrary decoded image into
// the noise-reduced, contrast-normalized grayscale raster every later stage
// consumes:
//
//  1. Optional perspective rectification: detect a large 4-corner contour
//     (a screen or the target card itself) and warp it to a rectangle. If no
//     quadrilateral is found the step is skipped silently.
//  2. Grayscale conversion (ITU-R BT.601 luminance).
//  3. Gaussian blur with a 5x5 kernel to suppress sensor noise that would
//     otherwise produce false circle and blob candidates.
//  4. CLAHE (contrast-limited adaptive histogram equalization) with clip
//     limit 2.0 over an 8x8 tile grid, so unevenly lit targets still present
//     usable edge contrast.
//
// The package also exposes the shared low-level building blocks: Sobel
// gradients, Canny edge maps, convex hulls, and polygon approximation.
//
// # Coordinate System
//
// All coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Grayscale rasters are
// *image.Gray with bounds anchored at (0, 0).
//
// # Thread Safety
//
// All functions are pure: they never mutate their inputs and share no state,
// so any number of frames may be preprocessed concurrently. ImageCache is
// safe for concurrent use.
package imaging
