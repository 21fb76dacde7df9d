// Package grid provides the sample container and axis helpers shared by the
// resampling, blurring and high-pass packages.
//
// A [Field] stores rows×cols float64 samples in row-major order. NaN marks a
// masked sample (background, missing data). Fields convert to and from gonum's
// [mat.Dense], which is the image type of the public high-pass API.
//
// Axes are plain []float64 slices. They must be finite and strictly monotonic;
// [CheckAxis] reports the direction so callers can normalise decreasing axes.
package grid
