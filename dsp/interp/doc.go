// Package interp provides the one-dimensional interpolation kernels used by
// the grid resampler.
//
// Available kinds, from cheapest to highest quality:
//
//   - [Nearest]: nearest sample, support 1
//   - [Linear]:  2-point linear interpolation
//   - [Cubic]:   4-point cubic Hermite (Catmull-Rom), the default
//
// Kernels are expressed as weights over a fractional position t in [0,1)
// between samples x0 and x1, so two-dimensional resampling can form tensor
// products and skip samples whose weight is exactly zero.
package interp
