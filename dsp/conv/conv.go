package conv

import "errors"

// Errors returned by the row filters.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrEmptyKernel    = errors.New("conv: empty kernel")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
	ErrEvenKernel     = errors.New("conv: filter kernel must have odd length")
	ErrBoundary       = errors.New("conv: unknown boundary mode")
)

// directThreshold is the longest kernel convolved in the sample domain.
const directThreshold = 64

// validTo writes the valid part of the convolution of a with kernel b into
// dst: only the outputs where b lies fully inside a.
// len(dst) must be len(a) - len(b) + 1.
func validTo(dst, a, b []float64) {
	m := len(b)
	for n := range dst {
		window := a[n : n+m]
		var sum float64
		for k := range window {
			sum += window[k] * b[m-1-k]
		}
		dst[n] = sum
	}
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
