package conv

import (
	"errors"
	"math"
	"testing"
)

func TestBoundaryIndex(t *testing.T) {
	src := []float64{1, 2, 3, 4} // a b c d

	tests := []struct {
		boundary Boundary
		want     []float64 // two samples of padding per side
	}{
		{BoundaryReflect, []float64{2, 1, 1, 2, 3, 4, 4, 3}},
		{BoundaryMirror, []float64{3, 2, 1, 2, 3, 4, 3, 2}},
		{BoundaryNearest, []float64{1, 1, 1, 2, 3, 4, 4, 4}},
		{BoundaryWrap, []float64{3, 4, 1, 2, 3, 4, 1, 2}},
		{BoundaryConstant, []float64{-7, -7, 1, 2, 3, 4, -7, -7}},
	}

	for _, tt := range tests {
		t.Run(tt.boundary.String(), func(t *testing.T) {
			dst := make([]float64, len(src)+4)
			if err := Extend(dst, src, 2, tt.boundary, -7); err != nil {
				t.Fatalf("Extend: %v", err)
			}
			for i := range tt.want {
				if dst[i] != tt.want[i] {
					t.Fatalf("dst = %v, want %v", dst, tt.want)
				}
			}
		})
	}
}

func TestBoundaryLongPadding(t *testing.T) {
	src := []float64{1, 2}

	dst := make([]float64, len(src)+10)
	if err := Extend(dst, src, 5, BoundaryReflect, 0); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	// Reflect with period 2n: ... 2 1 | 1 2 | 2 1 ...
	want := []float64{1, 1, 2, 2, 1, 1, 2, 2, 1, 1, 2, 2}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}

	one := make([]float64, 7)
	if err := Extend(one, []float64{5}, 3, BoundaryMirror, 0); err != nil {
		t.Fatalf("Extend mirror n=1: %v", err)
	}
	for i, v := range one {
		if v != 5 {
			t.Fatalf("one[%d] = %v, want 5", i, v)
		}
	}
}

func TestParseBoundary(t *testing.T) {
	for _, name := range []string{"reflect", "mirror", "nearest", "wrap", "constant"} {
		b, err := ParseBoundary(name)
		if err != nil {
			t.Fatalf("ParseBoundary(%q): %v", name, err)
		}
		if b.String() != name {
			t.Fatalf("round trip %q -> %q", name, b.String())
		}
	}

	if _, err := ParseBoundary("periodic"); !errors.Is(err, ErrBoundary) {
		t.Fatalf("err = %v, want ErrBoundary", err)
	}
	if Boundary(99).Valid() {
		t.Fatal("Boundary(99) reported valid")
	}
}

func TestNewFilter1DErrors(t *testing.T) {
	if _, err := NewFilter1D(nil, BoundaryReflect); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("err = %v, want ErrEmptyKernel", err)
	}
	if _, err := NewFilter1D([]float64{0.5, 0.5}, BoundaryReflect); !errors.Is(err, ErrEvenKernel) {
		t.Fatalf("err = %v, want ErrEvenKernel", err)
	}
	if _, err := NewFilter1D([]float64{1}, Boundary(42)); !errors.Is(err, ErrBoundary) {
		t.Fatalf("err = %v, want ErrBoundary", err)
	}
}

// naiveFilter evaluates the centered kernel sum explicitly.
func naiveFilter(src, kernel []float64, b Boundary, cval float64) []float64 {
	r := len(kernel) / 2
	out := make([]float64, len(src))
	for i := range src {
		var sum float64
		for k := -r; k <= r; k++ {
			v := cval
			if idx, ok := b.Index(i+k, len(src)); ok {
				v = src[idx]
			}
			sum += v * kernel[r-k]
		}
		out[i] = sum
	}
	return out
}

func TestFilter1DMatchesNaive(t *testing.T) {
	src := make([]float64, 300)
	for i := range src {
		src[i] = math.Sin(float64(i)*0.07) + 0.3*math.Cos(float64(i)*0.31)
	}

	for _, taps := range []int{1, 5, 31, 65, 151} {
		kernel := make([]float64, taps)
		for i := range kernel {
			kernel[i] = 1 / float64(1+i) // asymmetric on purpose
		}

		for _, b := range []Boundary{BoundaryReflect, BoundaryMirror, BoundaryNearest, BoundaryWrap, BoundaryConstant} {
			f, err := NewFilter1D(kernel, b)
			if err != nil {
				t.Fatalf("NewFilter1D: %v", err)
			}

			got := make([]float64, len(src))
			if err := f.Apply(got, src, 0.5); err != nil {
				t.Fatalf("Apply: %v", err)
			}

			want := naiveFilter(src, kernel, b, 0.5)
			for i := range want {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					t.Fatalf("taps=%d boundary=%v: out[%d] = %v, want %v", taps, b, i, got[i], want[i])
				}
			}
		}
	}
}

func TestFilter1DShortRowLongKernel(t *testing.T) {
	kernel := make([]float64, 101)
	for i := range kernel {
		kernel[i] = 1.0 / 101
	}

	f, err := NewFilter1D(kernel, BoundaryReflect)
	if err != nil {
		t.Fatalf("NewFilter1D: %v", err)
	}

	src := []float64{2, 2, 2, 2, 2}
	dst := make([]float64, len(src))
	if err := f.Apply(dst, src, 0); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for i, v := range dst {
		if math.Abs(v-2) > 1e-9 {
			t.Fatalf("dst[%d] = %v, want 2", i, v)
		}
	}
}

func TestFilter1DLengthMismatch(t *testing.T) {
	f, err := NewFilter1D([]float64{0.25, 0.5, 0.25}, BoundaryNearest)
	if err != nil {
		t.Fatalf("NewFilter1D: %v", err)
	}
	if err := f.Apply(make([]float64, 3), make([]float64, 4), 0); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("err = %v, want ErrLengthMismatch", err)
	}
	if f.Radius() != 1 || f.Boundary() != BoundaryNearest {
		t.Fatalf("Radius=%d Boundary=%v", f.Radius(), f.Boundary())
	}
}
