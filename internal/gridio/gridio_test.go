package gridio

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/cwbudde/algo-expkernel/grid"
)

func TestRead(t *testing.T) {
	in := `# header
1 2 3
4,5,6

  7	nan  -9e-3
`
	f, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Rows != 3 || f.Cols != 3 {
		t.Fatalf("shape %dx%d, want 3x3", f.Rows, f.Cols)
	}

	want := []float64{1, 2, 3, 4, 5, 6, 7, math.NaN(), -9e-3}
	for i, w := range want {
		got := f.Data[i]
		if math.IsNaN(w) != math.IsNaN(got) || (!math.IsNaN(w) && got != w) {
			t.Fatalf("Data[%d] = %v, want %v", i, got, w)
		}
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrNoData},
		{"comments only", "# a\n# b\n", ErrNoData},
		{"ragged", "1 2\n3\n", ErrRagged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Read(strings.NewReader("1 x\n")); err == nil || !strings.Contains(err.Error(), "line 1, column 2") {
		t.Fatalf("err = %v, want position", err)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	f, _ := grid.FromData(2, 3, []float64{0.1, -2, math.NaN(), 1e-300, 4, math.Inf(1)})

	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != "0.1 -2 nan\n1e-300 4 +Inf\n" {
		t.Fatalf("Write = %q", got)
	}

	back, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for i, v := range f.Data {
		got := back.Data[i]
		if math.IsNaN(v) != math.IsNaN(got) || (!math.IsNaN(v) && got != v) {
			t.Fatalf("round trip [%d] = %v, want %v", i, got, v)
		}
	}
}

func TestWriteInvalid(t *testing.T) {
	if err := Write(&bytes.Buffer{}, grid.Field{}); !errors.Is(err, grid.ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}
