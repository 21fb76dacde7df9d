package field

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-expkernel/grid"
)

const tolerance = 1e-12

func almostEqual(a, b, tol float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func TestCalculateBasic(t *testing.T) {
	f, _ := grid.FromData(2, 3, []float64{
		1, -2, 3,
		4, 0, -5,
	})

	s := Calculate(f)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"Mean", s.Mean, 1.0 / 6},
		{"RMS", s.RMS, math.Sqrt(55.0 / 6)},
		{"Max", s.Max, 4},
		{"Min", s.Min, -5},
		{"Peak", s.Peak, 5},
		{"Range", s.Range, 9},
		{"Variance", s.Variance, 55.0/6 - 1.0/36},
	}
	for _, c := range checks {
		if !almostEqual(c.got, c.want, tolerance) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if s.MaxRow != 1 || s.MaxCol != 0 {
		t.Errorf("max at (%d,%d), want (1,0)", s.MaxRow, s.MaxCol)
	}
	if s.MinRow != 1 || s.MinCol != 2 {
		t.Errorf("min at (%d,%d), want (1,2)", s.MinRow, s.MinCol)
	}
	if s.Count != 6 || s.NaNs != 0 {
		t.Errorf("Count=%d NaNs=%d", s.Count, s.NaNs)
	}
	if !almostEqual(s.PeakToTrough(), 0.8, tolerance) {
		t.Errorf("PeakToTrough = %v, want 0.8", s.PeakToTrough())
	}
}

func TestCalculateSkipsNaN(t *testing.T) {
	nan := math.NaN()
	f, _ := grid.FromData(2, 2, []float64{nan, 2, 4, nan})

	s := Calculate(f)
	if s.Count != 2 || s.NaNs != 2 {
		t.Fatalf("Count=%d NaNs=%d, want 2/2", s.Count, s.NaNs)
	}
	if !almostEqual(s.Mean, 3, tolerance) {
		t.Fatalf("Mean = %v, want 3", s.Mean)
	}
	if s.Min != 2 || s.Max != 4 {
		t.Fatalf("Min=%v Max=%v", s.Min, s.Max)
	}
}

func TestCalculateAllNaN(t *testing.T) {
	f, _ := grid.Filled(3, 3, math.NaN())

	s := Calculate(f)
	if s.Count != 0 || s.NaNs != 9 {
		t.Fatalf("Count=%d NaNs=%d", s.Count, s.NaNs)
	}
	if !math.IsNaN(s.Mean) || !math.IsNaN(s.Max) || s.MaxRow != -1 {
		t.Fatalf("unexpected stats for all-NaN field: %+v", s)
	}
	if !math.IsNaN(s.PeakToTrough()) {
		t.Fatalf("PeakToTrough = %v, want NaN", s.PeakToTrough())
	}
}
