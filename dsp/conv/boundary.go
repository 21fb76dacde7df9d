package conv

import (
	"fmt"
	"strings"
)

// Boundary selects how samples beyond the ends of a row are synthesized.
type Boundary int

const (
	// BoundaryReflect reflects about the outer edge, repeating the edge sample.
	BoundaryReflect Boundary = iota
	// BoundaryMirror reflects about the edge sample without repeating it.
	BoundaryMirror
	// BoundaryNearest repeats the edge sample.
	BoundaryNearest
	// BoundaryWrap wraps around to the opposite edge.
	BoundaryWrap
	// BoundaryConstant fills with a constant value.
	BoundaryConstant
)

var boundaryNames = [...]string{
	BoundaryReflect:  "reflect",
	BoundaryMirror:   "mirror",
	BoundaryNearest:  "nearest",
	BoundaryWrap:     "wrap",
	BoundaryConstant: "constant",
}

func (b Boundary) String() string {
	if b.Valid() {
		return boundaryNames[b]
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// Valid reports whether b is a known boundary mode.
func (b Boundary) Valid() bool {
	return b >= BoundaryReflect && b <= BoundaryConstant
}

// ParseBoundary maps a name such as "reflect" to its Boundary.
func ParseBoundary(s string) (Boundary, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range boundaryNames {
		if n == name {
			return Boundary(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBoundary, s)
}

// Index maps a possibly out-of-range index i onto [0, n).
// ok is false when i lies outside and b is BoundaryConstant.
func (b Boundary) Index(i, n int) (idx int, ok bool) {
	if i >= 0 && i < n {
		return i, true
	}

	switch b {
	case BoundaryReflect:
		period := 2 * n
		m := mod(i, period)
		if m >= n {
			m = period - 1 - m
		}
		return m, true
	case BoundaryMirror:
		if n == 1 {
			return 0, true
		}
		period := 2*n - 2
		m := mod(i, period)
		if m >= n {
			m = period - m
		}
		return m, true
	case BoundaryNearest:
		if i < 0 {
			return 0, true
		}
		return n - 1, true
	case BoundaryWrap:
		return mod(i, n), true
	default:
		return 0, false
	}
}

// Extend writes src extended by pad samples on each side into dst.
// len(dst) must be len(src) + 2*pad.
func Extend(dst, src []float64, pad int, b Boundary, cval float64) error {
	if len(src) == 0 {
		return ErrEmptyInput
	}
	if len(dst) != len(src)+2*pad {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, len(src)+2*pad, len(dst))
	}
	if !b.Valid() {
		return fmt.Errorf("%w: %v", ErrBoundary, b)
	}

	copy(dst[pad:], src)

	n := len(src)
	for k := 0; k < pad; k++ {
		dst[k] = sampleAt(src, k-pad, n, b, cval)
		dst[pad+n+k] = sampleAt(src, n+k, n, b, cval)
	}

	return nil
}

func sampleAt(src []float64, i, n int, b Boundary, cval float64) float64 {
	idx, ok := b.Index(i, n)
	if !ok {
		return cval
	}
	return src[idx]
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
