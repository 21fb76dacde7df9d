package conv

import "fmt"

// Filter1D applies a fixed odd-length kernel to rows of equal or varying
// length, returning outputs of the same length as the input. The kernel is
// centered on each sample; samples beyond the edges follow the Boundary.
//
// A Filter1D holds scratch buffers and must not be used concurrently.
type Filter1D struct {
	kernel   []float64
	radius   int
	boundary Boundary

	oa     *OverlapAdd
	padded []float64
}

// NewFilter1D creates a row filter. Kernels longer than 64 taps use FFT
// overlap-add.
func NewFilter1D(kernel []float64, b Boundary) (*Filter1D, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(kernel)%2 == 0 {
		return nil, fmt.Errorf("%w: %d taps", ErrEvenKernel, len(kernel))
	}
	if !b.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrBoundary, b)
	}

	f := &Filter1D{
		kernel:   append([]float64(nil), kernel...),
		radius:   len(kernel) / 2,
		boundary: b,
	}

	if len(kernel) > directThreshold {
		oa, err := NewOverlapAdd(f.kernel, 0)
		if err != nil {
			return nil, err
		}
		f.oa = oa
	}

	return f, nil
}

// Radius returns the number of taps on each side of the center tap.
func (f *Filter1D) Radius() int {
	return f.radius
}

// Boundary returns the boundary mode.
func (f *Filter1D) Boundary() Boundary {
	return f.boundary
}

// Apply filters src into dst. cval is used by BoundaryConstant.
// dst and src must have the same length and must not overlap.
func (f *Filter1D) Apply(dst, src []float64, cval float64) error {
	if len(src) == 0 {
		return ErrEmptyInput
	}
	if len(dst) != len(src) {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), len(src))
	}

	if f.radius == 0 {
		k := f.kernel[0]
		for i, v := range src {
			dst[i] = v * k
		}
		return nil
	}

	f.padded = ensureLen(f.padded, len(src)+2*f.radius)
	if err := Extend(f.padded, src, f.radius, f.boundary, cval); err != nil {
		return err
	}

	if f.oa != nil {
		return f.oa.ProcessValidTo(dst, f.padded)
	}

	validTo(dst, f.padded, f.kernel)

	return nil
}
