// Package conv provides the one-dimensional convolution engine behind the
// separable image blur.
//
// A [Filter1D] applies one odd-length kernel to many rows. It extends each row
// according to a [Boundary] policy and returns an output of the same length
// as the input:
//
//	f, err := conv.NewFilter1D(kernel, conv.BoundaryReflect)
//	err = f.Apply(dst, row, 0)
//
// # Boundary handling
//
// Samples beyond the ends of a row are synthesized as follows
// (input abcd, two samples of padding):
//
//	BoundaryReflect   ba|abcd|dc
//	BoundaryMirror    cb|abcd|cb
//	BoundaryNearest   aa|abcd|dd
//	BoundaryWrap      cd|abcd|ab
//	BoundaryConstant  kk|abcd|kk   (k = cval)
//
// # Algorithm selection
//
// Kernels up to 64 taps are summed directly. Longer kernels go through
// [OverlapAdd], FFT block convolution on top of algo-fft.
package conv
