package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Direction describes the ordering of an axis.
type Direction int

const (
	Increasing Direction = iota
	Decreasing
)

// CheckAxis validates that axis is non-empty, finite and strictly monotonic.
// A single-sample axis is reported as Increasing.
func CheckAxis(axis []float64) (Direction, error) {
	if len(axis) == 0 {
		return Increasing, ErrEmpty
	}

	for i, v := range axis {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Increasing, fmt.Errorf("%w: axis[%d] = %v", ErrNonFinite, i, v)
		}
	}

	if len(axis) == 1 {
		return Increasing, nil
	}

	dir := Increasing
	if axis[1] < axis[0] {
		dir = Decreasing
	}

	for i := 1; i < len(axis); i++ {
		d := axis[i] - axis[i-1]
		if (dir == Increasing && d <= 0) || (dir == Decreasing && d >= 0) {
			return dir, fmt.Errorf("%w: axis[%d]=%v, axis[%d]=%v", ErrNotMonotonic, i-1, axis[i-1], i, axis[i])
		}
	}

	return dir, nil
}

// CheckAxes validates an x/y axis pair against a field shape.
func CheckAxes(f Field, x, y []float64) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if len(x) != f.Cols {
		return fmt.Errorf("%w: x axis has %d samples, field has %d columns", ErrShape, len(x), f.Cols)
	}
	if len(y) != f.Rows {
		return fmt.Errorf("%w: y axis has %d samples, field has %d rows", ErrShape, len(y), f.Rows)
	}
	if _, err := CheckAxis(x); err != nil {
		return fmt.Errorf("x axis: %w", err)
	}
	if _, err := CheckAxis(y); err != nil {
		return fmt.Errorf("y axis: %w", err)
	}

	return nil
}

// MeanSpacing returns the signed average sample spacing, (last-first)/(n-1).
// It returns 0 for axes with fewer than two samples.
func MeanSpacing(axis []float64) float64 {
	if len(axis) < 2 {
		return 0
	}

	return (axis[len(axis)-1] - axis[0]) / float64(len(axis)-1)
}

// Linspace returns n evenly spaced samples from lo to hi inclusive. The
// endpoints are exact.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}

	out := floats.Span(make([]float64, n), lo, hi)
	out[n-1] = hi

	return out
}

// Reversed returns a reversed copy of axis.
func Reversed(axis []float64) []float64 {
	out := make([]float64, len(axis))
	for i, v := range axis {
		out[len(axis)-1-i] = v
	}

	return out
}
