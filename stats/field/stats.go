// Package field computes summary statistics of 2D sample fields.
//
// NaN samples are treated as masked: they are counted but excluded from every
// moment and extremum.
package field

import (
	"math"

	"github.com/cwbudde/algo-expkernel/grid"
)

// Stats holds field statistics over the finite samples.
type Stats struct {
	Rows, Cols int
	Count      int // finite samples
	NaNs       int
	Mean       float64
	RMS        float64
	Max        float64
	MaxRow     int
	MaxCol     int
	Min        float64
	MinRow     int
	MinCol     int
	Peak       float64 // max(|max|, |min|)
	Range      float64 // max - min
	Variance   float64
	StdDev     float64
}

// PeakToTrough returns Max / |Min|. It is +Inf when Min is zero and NaN when
// the field has no finite samples.
func (s Stats) PeakToTrough() float64 {
	if s.Count == 0 {
		return math.NaN()
	}
	if s.Min == 0 {
		return math.Inf(1)
	}

	return s.Max / math.Abs(s.Min)
}

func emptyStats(f grid.Field) Stats {
	nan := math.NaN()
	return Stats{
		Rows:     f.Rows,
		Cols:     f.Cols,
		NaNs:     len(f.Data),
		Mean:     nan,
		RMS:      nan,
		Max:      nan,
		MaxRow:   -1,
		MaxCol:   -1,
		Min:      nan,
		MinRow:   -1,
		MinCol:   -1,
		Peak:     nan,
		Range:    nan,
		Variance: nan,
		StdDev:   nan,
	}
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for the variance.
func Calculate(f grid.Field) Stats {
	var (
		n      int
		mean   float64
		m2     float64
		sumSq  float64
		maxVal = math.Inf(-1)
		minVal = math.Inf(1)
		maxPos = -1
		minPos = -1
	)

	for i, x := range f.Data {
		if math.IsNaN(x) {
			continue
		}

		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)

		sumSq += x * x

		if x > maxVal {
			maxVal = x
			maxPos = i
		}
		if x < minVal {
			minVal = x
			minPos = i
		}
	}

	if n == 0 {
		return emptyStats(f)
	}

	nf := float64(n)
	variance := m2 / nf
	cols := max(f.Cols, 1)

	return Stats{
		Rows:     f.Rows,
		Cols:     f.Cols,
		Count:    n,
		NaNs:     len(f.Data) - n,
		Mean:     mean,
		RMS:      math.Sqrt(sumSq / nf),
		Max:      maxVal,
		MaxRow:   maxPos / cols,
		MaxCol:   maxPos % cols,
		Min:      minVal,
		MinRow:   minPos / cols,
		MinCol:   minPos % cols,
		Peak:     math.Max(math.Abs(maxVal), math.Abs(minVal)),
		Range:    maxVal - minVal,
		Variance: variance,
		StdDev:   math.Sqrt(variance),
	}
}
