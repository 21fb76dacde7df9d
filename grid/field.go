package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Field is a rows×cols block of samples stored in row-major order.
// Data[i*Cols+j] is the sample in row i (y index) and column j (x index).
type Field struct {
	Rows int
	Cols int
	Data []float64
}

// New returns a zeroed field with the given shape.
func New(rows, cols int) (Field, error) {
	if rows <= 0 || cols <= 0 {
		return Field{}, fmt.Errorf("%w: %dx%d", ErrEmpty, rows, cols)
	}

	return Field{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}, nil
}

// Filled returns a field with every sample set to v.
func Filled(rows, cols int, v float64) (Field, error) {
	f, err := New(rows, cols)
	if err != nil {
		return Field{}, err
	}

	for i := range f.Data {
		f.Data[i] = v
	}

	return f, nil
}

// FromData wraps data as a rows×cols field without copying.
func FromData(rows, cols int, data []float64) (Field, error) {
	if rows <= 0 || cols <= 0 {
		return Field{}, fmt.Errorf("%w: %dx%d", ErrEmpty, rows, cols)
	}
	if len(data) != rows*cols {
		return Field{}, fmt.Errorf("%w: %d samples for %dx%d field", ErrShape, len(data), rows, cols)
	}

	return Field{Rows: rows, Cols: cols, Data: data}, nil
}

// FromMatrix copies m into a new field.
func FromMatrix(m mat.Matrix) (Field, error) {
	if m == nil {
		return Field{}, fmt.Errorf("%w: nil matrix", ErrEmpty)
	}

	rows, cols := m.Dims()

	f, err := New(rows, cols)
	if err != nil {
		return Field{}, err
	}

	if d, ok := m.(mat.RawMatrixer); ok {
		raw := d.RawMatrix()
		for i := 0; i < rows; i++ {
			copy(f.Data[i*cols:(i+1)*cols], raw.Data[i*raw.Stride:i*raw.Stride+cols])
		}
		return f, nil
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			f.Data[i*cols+j] = m.At(i, j)
		}
	}

	return f, nil
}

// Dense returns a gonum copy of the field.
func (f Field) Dense() *mat.Dense {
	return mat.NewDense(f.Rows, f.Cols, f.Clone().Data)
}

// At returns the sample at row i, column j.
func (f Field) At(i, j int) float64 {
	return f.Data[i*f.Cols+j]
}

// Set stores v at row i, column j.
func (f Field) Set(i, j int, v float64) {
	f.Data[i*f.Cols+j] = v
}

// Row returns row i as a sub-slice of Data.
func (f Field) Row(i int) []float64 {
	return f.Data[i*f.Cols : (i+1)*f.Cols]
}

// Clone returns a deep copy.
func (f Field) Clone() Field {
	return Field{Rows: f.Rows, Cols: f.Cols, Data: append([]float64(nil), f.Data...)}
}

// SameShape reports whether f and g have identical dimensions.
func (f Field) SameShape(g Field) bool {
	return f.Rows == g.Rows && f.Cols == g.Cols
}

// Validate checks that the field is non-empty and Data matches the shape.
func (f Field) Validate() error {
	if f.Rows <= 0 || f.Cols <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmpty, f.Rows, f.Cols)
	}
	if len(f.Data) != f.Rows*f.Cols {
		return fmt.Errorf("%w: %d samples for %dx%d field", ErrShape, len(f.Data), f.Rows, f.Cols)
	}

	return nil
}

// HasNaN reports whether any sample is NaN.
func (f Field) HasNaN() bool {
	return floats.HasNaN(f.Data)
}

// NaNCount returns the number of NaN samples.
func (f Field) NaNCount() int {
	n := 0
	for _, v := range f.Data {
		if math.IsNaN(v) {
			n++
		}
	}

	return n
}
