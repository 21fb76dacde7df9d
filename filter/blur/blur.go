// Package blur applies a separable Gaussian blur to a 2D field.
//
// Widths are given in grid-index units along each axis. Samples beyond the
// field edges follow a conv.Boundary policy; the default is BoundaryReflect.
//
// NaN samples are masked: the result is the normalized convolution
//
//	blur(data·m) / blur(m)
//
// where m is 1 on finite samples and 0 on NaN. Masked samples stay NaN in the
// output. A finite sample whose normalization weight drops below 1e-12 is
// also set to NaN. Fields without NaN skip the mask.
//
// The kernel half-width is truncate·sigma, capped at four times the length of
// the axis it runs along.
package blur

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-expkernel/dsp/conv"
	"github.com/cwbudde/algo-expkernel/dsp/window"
	"github.com/cwbudde/algo-expkernel/grid"
)

// ErrInvalidSigma is returned for negative or non-finite widths.
var ErrInvalidSigma = window.ErrInvalidSigma

// minWeight is the smallest mask weight that still yields a finite output.
const minWeight = 1e-12

// radiusPerSample bounds the kernel half-width relative to the axis length.
const radiusPerSample = 4

// Option configures a blur.
type Option func(*config)

type config struct {
	boundary   conv.Boundary
	cval       float64
	truncate   float64
	integrated bool
}

func defaultConfig() config {
	return config{
		boundary: conv.BoundaryReflect,
		truncate: window.DefaultTruncate,
	}
}

// WithBoundary selects the edge policy.
func WithBoundary(b conv.Boundary) Option {
	return func(c *config) {
		c.boundary = b
	}
}

// WithCval sets the fill value for conv.BoundaryConstant.
func WithCval(v float64) Option {
	return func(c *config) {
		c.cval = v
	}
}

// WithTruncate sets the kernel half-width in units of sigma. Values <= 0
// are ignored.
func WithTruncate(v float64) Option {
	return func(c *config) {
		if v > 0 && !math.IsInf(v, 0) {
			c.truncate = v
		}
	}
}

// WithIntegrated selects pixel-integrated kernel weights.
func WithIntegrated() Option {
	return func(c *config) {
		c.integrated = true
	}
}

// Isotropic blurs src with the same width along both axes.
func Isotropic(src grid.Field, sigma float64, opts ...Option) (grid.Field, error) {
	return Gaussian(src, sigma, sigma, opts...)
}

// Gaussian blurs src with width sigmaRow along the row index (vertical) and
// sigmaCol along the column index (horizontal). src is not modified.
func Gaussian(src grid.Field, sigmaRow, sigmaCol float64, opts ...Option) (grid.Field, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := src.Validate(); err != nil {
		return grid.Field{}, fmt.Errorf("blur: %w", err)
	}
	if !cfg.boundary.Valid() {
		return grid.Field{}, fmt.Errorf("blur: %w: %v", conv.ErrBoundary, cfg.boundary)
	}

	rowPass, err := newPass(sigmaCol, src.Cols, cfg)
	if err != nil {
		return grid.Field{}, fmt.Errorf("blur: column width: %w", err)
	}
	colPass, err := newPass(sigmaRow, src.Rows, cfg)
	if err != nil {
		return grid.Field{}, fmt.Errorf("blur: row width: %w", err)
	}

	if !src.HasNaN() {
		out := src.Clone()
		if err := separable(out, rowPass, colPass, cfg.cval); err != nil {
			return grid.Field{}, err
		}
		return out, nil
	}

	return masked(src, rowPass, colPass, cfg)
}

// newPass returns the filter for an axis of n samples, or nil when sigma is
// small enough that the kernel is the identity.
func newPass(sigma float64, n int, cfg config) (*conv.Filter1D, error) {
	r := min(window.Radius(sigma, cfg.truncate), radiusPerSample*n)
	wopts := []window.Option{window.WithRadius(r)}
	if cfg.integrated {
		wopts = append(wopts, window.WithIntegrated())
	}

	kernel, err := window.Gaussian(sigma, wopts...)
	if err != nil {
		return nil, err
	}
	if len(kernel) == 1 {
		return nil, nil
	}

	return conv.NewFilter1D(kernel, cfg.boundary)
}

// separable filters every row with rowPass, then every column with colPass,
// in place. A nil pass is skipped.
func separable(f grid.Field, rowPass, colPass *conv.Filter1D, cval float64) error {
	if rowPass != nil {
		tmp := make([]float64, f.Cols)
		for i := 0; i < f.Rows; i++ {
			row := f.Row(i)
			if err := rowPass.Apply(tmp, row, cval); err != nil {
				return fmt.Errorf("blur: row %d: %w", i, err)
			}
			copy(row, tmp)
		}
	}

	if colPass != nil {
		col := make([]float64, f.Rows)
		tmp := make([]float64, f.Rows)
		for j := 0; j < f.Cols; j++ {
			for i := range col {
				col[i] = f.Data[i*f.Cols+j]
			}
			if err := colPass.Apply(tmp, col, cval); err != nil {
				return fmt.Errorf("blur: column %d: %w", j, err)
			}
			for i, v := range tmp {
				f.Data[i*f.Cols+j] = v
			}
		}
	}

	return nil
}

func masked(src grid.Field, rowPass, colPass *conv.Filter1D, cfg config) (grid.Field, error) {
	num := src.Clone()
	weight := grid.Field{Rows: src.Rows, Cols: src.Cols, Data: make([]float64, len(src.Data))}

	for i, v := range num.Data {
		if math.IsNaN(v) {
			num.Data[i] = 0
			continue
		}
		weight.Data[i] = 1
	}

	if err := separable(num, rowPass, colPass, cfg.cval); err != nil {
		return grid.Field{}, err
	}
	// Constant padding counts as valid data.
	if err := separable(weight, rowPass, colPass, 1); err != nil {
		return grid.Field{}, err
	}

	inv := weight.Data
	for i, w := range inv {
		if w < minWeight {
			inv[i] = math.NaN()
			continue
		}
		inv[i] = 1 / w
	}

	out := num
	vecmath.MulBlockInPlace(out.Data, inv)

	for i, v := range src.Data {
		if math.IsNaN(v) {
			out.Data[i] = math.NaN()
		}
	}

	return out, nil
}
