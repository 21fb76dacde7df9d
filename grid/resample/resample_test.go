package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-expkernel/dsp/interp"
	"github.com/cwbudde/algo-expkernel/grid"
)

func planeField(x, y []float64, a, b, c float64) grid.Field {
	f, _ := grid.New(len(y), len(x))
	for i := range y {
		for j := range x {
			f.Set(i, j, a*x[j]+b*y[i]+c)
		}
	}
	return f
}

func mustNew(t *testing.T, f grid.Field, x, y []float64, opts ...Option) *Resampler {
	t.Helper()

	r, err := New(f, x, y, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestExactAtKnots(t *testing.T) {
	x := []float64{-2, -1, 0, 1.5, 3, 4}
	y := []float64{0, 1, 2, 4, 8}

	f, _ := grid.New(len(y), len(x))
	for i := range f.Data {
		f.Data[i] = math.Sin(float64(i)*1.7) * 10
	}

	for _, k := range interp.Kinds() {
		t.Run(k.String(), func(t *testing.T) {
			r := mustNew(t, f, x, y, WithKind(k))

			for i := range y {
				for j := range x {
					if got := r.At(x[j], y[i]); got != f.At(i, j) {
						t.Fatalf("At(%v,%v) = %v, want %v", x[j], y[i], got, f.At(i, j))
					}
				}
			}
		})
	}
}

func TestPlaneReproduced(t *testing.T) {
	x := grid.Linspace(-1, 1, 9)
	y := grid.Linspace(-2, 2, 11)
	f := planeField(x, y, 1.5, -0.75, 3)

	for _, k := range []interp.Kind{interp.Linear, interp.Cubic} {
		t.Run(k.String(), func(t *testing.T) {
			r := mustNew(t, f, x, y, WithKind(k))

			qx := grid.Linspace(-1, 1, 37)
			qy := grid.Linspace(-2, 2, 29)
			out, err := r.Grid(qx, qy)
			if err != nil {
				t.Fatalf("Grid: %v", err)
			}

			for i := range qy {
				for j := range qx {
					want := 1.5*qx[j] - 0.75*qy[i] + 3
					if got := out.At(i, j); math.Abs(got-want) > 1e-12 {
						t.Fatalf("(%v,%v) = %v, want %v", qx[j], qy[i], got, want)
					}
				}
			}
		})
	}
}

func TestCubicReproducesQuadraticInterior(t *testing.T) {
	x := grid.Linspace(0, 10, 11)
	y := []float64{0, 1, 2, 3}

	f, _ := grid.New(len(y), len(x))
	for i := range y {
		for j := range x {
			f.Set(i, j, x[j]*x[j])
		}
	}

	r := mustNew(t, f, x, y)
	for _, q := range []float64{1.25, 4.5, 7.9} {
		if got := r.At(q, 1.5); math.Abs(got-q*q) > 1e-12 {
			t.Fatalf("At(%v) = %v, want %v", q, got, q*q)
		}
	}
}

func TestNearest(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{0, 1}
	f, _ := grid.FromData(2, 3, []float64{1, 2, 3, 4, 5, 6})

	r := mustNew(t, f, x, y, WithKind(interp.Nearest))

	tests := []struct {
		qx, qy, want float64
	}{
		{0.4, 0.2, 1},
		{0.6, 0.2, 2},
		{1.5, 0.7, 6},
		{2, 1, 6},
	}
	for _, tt := range tests {
		if got := r.At(tt.qx, tt.qy); got != tt.want {
			t.Errorf("At(%v,%v) = %v, want %v", tt.qx, tt.qy, got, tt.want)
		}
	}
}

func TestFillPolicies(t *testing.T) {
	x := grid.Linspace(0, 3, 4)
	y := grid.Linspace(0, 3, 4)
	f := planeField(x, y, 1, 10, 0)

	t.Run("nearest", func(t *testing.T) {
		r := mustNew(t, f, x, y)
		if got := r.At(-5, 1); got != 10 {
			t.Fatalf("At(-5,1) = %v, want 10", got)
		}
		if got := r.At(7, 9); got != 33 {
			t.Fatalf("At(7,9) = %v, want 33", got)
		}
	})

	t.Run("nan", func(t *testing.T) {
		r := mustNew(t, f, x, y, WithFill(FillNaN))
		if r.Fill() != FillNaN {
			t.Fatalf("Fill() = %v, want FillNaN", r.Fill())
		}
		if got := r.At(-0.5, 1); !math.IsNaN(got) {
			t.Fatalf("At(-0.5,1) = %v, want NaN", got)
		}
		if got := r.At(1, 3.1); !math.IsNaN(got) {
			t.Fatalf("At(1,3.1) = %v, want NaN", got)
		}
		// Within the tolerance the edge value is returned.
		if got := r.At(3+1e-12, 0); math.Abs(got-3) > 1e-9 {
			t.Fatalf("At(3+eps,0) = %v, want 3", got)
		}
	})
}

func TestNaNWeightRule(t *testing.T) {
	x := grid.Linspace(0, 6, 7)
	y := grid.Linspace(0, 6, 7)
	f := planeField(x, y, 1, 1, 0)
	f.Set(3, 3, math.NaN())

	t.Run("linear", func(t *testing.T) {
		r := mustNew(t, f, x, y, WithKind(interp.Linear))
		if got := r.At(2.5, 2.5); !math.IsNaN(got) {
			t.Fatalf("cell touching NaN = %v, want NaN", got)
		}
		if got := r.At(1.5, 1.5); math.IsNaN(got) {
			t.Fatal("distant cell contaminated")
		}
		// On a neighbouring knot the NaN carries zero weight.
		if got := r.At(2, 3); got != 5 {
			t.Fatalf("knot next to NaN = %v, want 5", got)
		}
	})

	t.Run("cubic", func(t *testing.T) {
		r := mustNew(t, f, x, y)
		if got := r.At(1.5, 3); !math.IsNaN(got) {
			t.Fatalf("cubic support over NaN = %v, want NaN", got)
		}
		if got := r.At(0.5, 3); math.IsNaN(got) {
			t.Fatal("cubic support beyond NaN contaminated")
		}
		if got := r.At(2, 3); got != 5 {
			t.Fatalf("knot next to NaN = %v, want 5", got)
		}
	})
}

func TestDecreasingAxes(t *testing.T) {
	x := grid.Linspace(2, -2, 9)
	y := grid.Linspace(3, -1, 6)
	f := planeField(x, y, 2, -1, 0.5)

	for _, k := range interp.Kinds() {
		r := mustNew(t, f, x, y, WithKind(k))
		for i := range y {
			for j := range x {
				if got := r.At(x[j], y[i]); got != f.At(i, j) {
					t.Fatalf("%v: knot (%d,%d) = %v, want %v", k, i, j, got, f.At(i, j))
				}
			}
		}
	}

	r := mustNew(t, f, x, y, WithKind(interp.Linear))
	if got, want := r.At(0.25, 0.3), 2*0.25-0.3+0.5; math.Abs(got-want) > 1e-12 {
		t.Fatalf("At = %v, want %v", got, want)
	}

	// The source field must not be modified by the internal flip.
	if f.At(0, 0) != 2*2-3+0.5 {
		t.Fatalf("source mutated: %v", f.At(0, 0))
	}
}

func TestWorkerInvariance(t *testing.T) {
	x := grid.Linspace(-3, 3, 31)
	y := grid.Linspace(-2, 2, 23)
	f, _ := grid.New(len(y), len(x))
	for i := range y {
		for j := range x {
			f.Set(i, j, math.Exp(-x[j]*x[j]-y[i]*y[i])+0.1*math.Sin(5*x[j]))
		}
	}

	qx := make([]float64, 17*19)
	qy := make([]float64, 17*19)
	for k := range qx {
		qx[k] = -3.5 + 7*math.Mod(float64(k)*0.618, 1)
		qy[k] = -2.5 + 5*math.Mod(float64(k)*0.414, 1)
	}

	base, err := mustNew(t, f, x, y).Points(qx, qy, 17, 19)
	if err != nil {
		t.Fatalf("Points: %v", err)
	}

	for _, n := range []int{2, 3, 8, 64} {
		got, err := mustNew(t, f, x, y, WithWorkers(n)).Points(qx, qy, 17, 19)
		if err != nil {
			t.Fatalf("workers=%d: %v", n, err)
		}
		for k := range base.Data {
			if got.Data[k] != base.Data[k] {
				t.Fatalf("workers=%d: [%d] = %v, want %v", n, k, got.Data[k], base.Data[k])
			}
		}
	}
}

func TestNewErrors(t *testing.T) {
	f, _ := grid.New(3, 3)
	x := []float64{0, 1, 2}

	tests := []struct {
		name string
		x, y []float64
		opts []Option
		want error
	}{
		{"cubic too few", x, x, nil, ErrTooFewPoints},
		{"unknown kind", x, x, []Option{WithKind(interp.Kind(9))}, interp.ErrUnknownKind},
		{"unknown fill", x, x, []Option{WithKind(interp.Linear), WithFill(Fill(5))}, ErrUnknownFill},
		{"shape", []float64{0, 1}, x, []Option{WithKind(interp.Linear)}, grid.ErrShape},
		{"non finite", []float64{0, math.Inf(1), 2}, x, []Option{WithKind(interp.Linear)}, grid.ErrNonFinite},
		{"not monotonic", []float64{0, 2, 1}, x, []Option{WithKind(interp.Linear)}, grid.ErrNotMonotonic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(f, tt.x, tt.y, tt.opts...); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPointsErrors(t *testing.T) {
	x := []float64{0, 1}
	f, _ := grid.New(2, 2)
	r := mustNew(t, f, x, x, WithKind(interp.Linear))

	if _, err := r.Points([]float64{0, 1}, []float64{0}, 1, 2); !errors.Is(err, grid.ErrShape) {
		t.Fatalf("err = %v, want ErrShape", err)
	}
	if _, err := r.Points([]float64{0, math.NaN()}, []float64{0, 0}, 1, 2); !errors.Is(err, grid.ErrNonFinite) {
		t.Fatalf("err = %v, want ErrNonFinite", err)
	}
	if !math.IsNaN(r.At(math.NaN(), 0)) {
		t.Fatal("At(NaN) not NaN")
	}
}

func TestParseFill(t *testing.T) {
	for _, f := range []Fill{FillNearest, FillNaN} {
		got, err := ParseFill(f.String())
		if err != nil || got != f {
			t.Fatalf("ParseFill(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseFill("zero"); !errors.Is(err, ErrUnknownFill) {
		t.Fatalf("err = %v, want ErrUnknownFill", err)
	}
}
