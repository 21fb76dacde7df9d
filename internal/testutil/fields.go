package testutil

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-expkernel/grid"
)

// PixelAxis returns n integer-spaced coordinates centered on zero:
// -n/2 ... n-1-n/2.
func PixelAxis(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i - n/2)
	}
	return out
}

// GaussianBlob returns amp·exp(-((x-cx)²+(y-cy)²)/(2σ²)) sampled on the x/y
// axes. Distances are measured in axis units.
func GaussianBlob(x, y []float64, cx, cy, sigma, amp float64) *mat.Dense {
	m := mat.NewDense(len(y), len(x), nil)
	for i, yv := range y {
		for j, xv := range x {
			dx, dy := xv-cx, yv-cy
			m.Set(i, j, amp*math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma)))
		}
	}
	return m
}

// NoiseField returns a rows×cols field of uniform noise in [-amp, amp) with a
// fixed seed for reproducibility.
func NoiseField(seed int64, amp float64, rows, cols int) grid.Field {
	rng := rand.New(rand.NewSource(seed))
	f := grid.Field{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
	for i := range f.Data {
		f.Data[i] = (rng.Float64()*2 - 1) * amp
	}
	return f
}

// Filled returns a rows×cols matrix with every element set to v.
func Filled(rows, cols int, v float64) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, v)
		}
	}
	return m
}
