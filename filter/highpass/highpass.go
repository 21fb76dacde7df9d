// Package highpass removes the large-scale background of an image with a
// Gaussian kernel whose width grows with radius as a power law,
//
//	w(r) = w0 · (r/r0)^γ
//
// where r is measured from the origin of the x/y axes.
//
// The filter solves the variable-width convolution by changing coordinates.
// The image is resampled onto a radially stretched grid on which the kernel
// width is constant. There it is blurred with a fixed Gaussian and then
// resampled back onto the original grid. The result of that round trip is
// the background; the residual is image − background.
//
// γ = 0 is the ordinary constant-kernel high-pass filter. See package
// filter/stretch for the coordinate map and its limits.
//
// All entry points are pure: a call allocates its own buffers and keeps no
// state between calls.
package highpass

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-expkernel/filter/blur"
	"github.com/cwbudde/algo-expkernel/filter/stretch"
	"github.com/cwbudde/algo-expkernel/grid"
	"github.com/cwbudde/algo-expkernel/grid/resample"
)

// Result holds both halves of a decomposition.
type Result struct {
	Background *mat.Dense
	Residual   *mat.Dense

	// Grid is the stretched grid the blur ran on.
	Grid stretch.Grid
}

// Filter is a configured filter. It is immutable and safe for concurrent use.
type Filter struct {
	m   stretch.Map
	cfg Config
	log *slog.Logger
}

// New validates the kernel parameters and options.
func New(gamma, w0 float64, opts ...Option) (*Filter, error) {
	if math.IsNaN(w0) || math.IsInf(w0, 0) || w0 <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidWidth, w0)
	}
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidGamma, gamma)
	}

	cfg := ApplyOptions(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m, err := stretch.New(stretch.Params{W0: w0, Gamma: gamma, R0: cfg.R0})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	log := cfg.Logger
	if log == nil {
		log = newNopLogger()
	}

	return &Filter{m: m, cfg: cfg, log: log}, nil
}

// Params returns the kernel parameters.
func (f *Filter) Params() stretch.Params {
	return f.m.Params()
}

// Config returns the filter options.
func (f *Filter) Config() Config {
	return f.cfg
}

// Residual returns image − background.
func (f *Filter) Residual(img mat.Matrix, x, y []float64) (*mat.Dense, error) {
	res, err := f.Decompose(img, x, y)
	if err != nil {
		return nil, err
	}
	return res.Residual, nil
}

// Background returns the variable-width blur of img.
func (f *Filter) Background(img mat.Matrix, x, y []float64) (*mat.Dense, error) {
	res, err := f.Decompose(img, x, y)
	if err != nil {
		return nil, err
	}
	return res.Background, nil
}

// Decompose splits img, sampled at columns x and rows y, into background
// and residual. Background + Residual equals img wherever both are finite.
func (f *Filter) Decompose(img mat.Matrix, x, y []float64) (Result, error) {
	src, err := f.checkInput(img, x, y)
	if err != nil {
		return Result{}, err
	}

	g, err := f.m.Grid(x, y)
	if err != nil {
		return Result{}, fmt.Errorf("highpass: stretch: %w", err)
	}

	p := f.m.Params()
	f.log.Debug("highpass: stretched grid",
		"rows", src.Rows, "cols", src.Cols,
		"gamma", p.Gamma, "w0", p.W0, "r0", p.R0,
		"u", [2]float64{g.U[0], g.U[len(g.U)-1]},
		"v", [2]float64{g.V[0], g.V[len(g.V)-1]},
		"sigma_x", g.SigmaX, "sigma_y", g.SigmaY,
		"nan", src.NaNCount())

	// At gamma = 0 both grids coincide and the blur runs on the input.
	identity := f.m.Identity()

	stretched := src
	if !identity {
		stretched, err = f.forward(src, x, y, g)
		if err != nil {
			return Result{}, err
		}
	}

	blurred, err := blur.Gaussian(stretched, g.SigmaY, g.SigmaX, f.cfg.blurOptions()...)
	if err != nil {
		return Result{}, fmt.Errorf("highpass: blur: %w", err)
	}
	f.log.Debug("highpass: blurred", "nan", blurred.NaNCount())

	background := blurred
	if !identity {
		background, err = f.inverse(blurred, x, y, g)
		if err != nil {
			return Result{}, err
		}
	}

	residual := make([]float64, len(src.Data))
	floats.SubTo(residual, src.Data, background.Data)

	f.log.Debug("highpass: done",
		"background_nan", background.NaNCount(),
		"identity_grid", identity)

	return Result{
		Background: mat.NewDense(src.Rows, src.Cols, background.Data),
		Residual:   mat.NewDense(src.Rows, src.Cols, residual),
		Grid:       g,
	}, nil
}

func (f *Filter) checkInput(img mat.Matrix, x, y []float64) (grid.Field, error) {
	if img == nil {
		return grid.Field{}, fmt.Errorf("%w: nil image", ErrShapeMismatch)
	}

	rows, cols := img.Dims()
	if len(x) != cols || len(y) != rows {
		return grid.Field{}, fmt.Errorf("%w: image %dx%d, x %d, y %d",
			ErrShapeMismatch, rows, cols, len(x), len(y))
	}

	src, err := grid.FromMatrix(img)
	if err != nil {
		return grid.Field{}, fmt.Errorf("highpass: image: %w", err)
	}
	if _, err := grid.CheckAxis(x); err != nil {
		return grid.Field{}, fmt.Errorf("highpass: x axis: %w", err)
	}
	if _, err := grid.CheckAxis(y); err != nil {
		return grid.Field{}, fmt.Errorf("highpass: y axis: %w", err)
	}

	return src, nil
}

// forward samples src at the original-space position of every stretched
// grid node.
func (f *Filter) forward(src grid.Field, x, y []float64, g stretch.Grid) (grid.Field, error) {
	rs, err := resample.New(src, x, y, f.cfg.resampleOptions()...)
	if err != nil {
		return grid.Field{}, fmt.Errorf("highpass: forward resample: %w", err)
	}

	qx, qy := f.m.UnstretchGrid(g)
	out, err := rs.Points(qx, qy, len(g.V), len(g.U))
	if err != nil {
		return grid.Field{}, fmt.Errorf("highpass: forward resample: %w", err)
	}

	f.log.Debug("highpass: forward resample", "kind", rs.Kind(), "fill", rs.Fill(), "nan", out.NaNCount())

	return out, nil
}

// inverse samples the blurred stretched field at the stretched position of
// every original grid node.
func (f *Filter) inverse(blurred grid.Field, x, y []float64, g stretch.Grid) (grid.Field, error) {
	rs, err := resample.New(blurred, g.U, g.V, f.cfg.resampleOptions()...)
	if err != nil {
		return grid.Field{}, fmt.Errorf("highpass: inverse resample: %w", err)
	}

	qx, qy := f.m.StretchGrid(x, y)
	out, err := rs.Points(qx, qy, len(y), len(x))
	if err != nil {
		return grid.Field{}, fmt.Errorf("highpass: inverse resample: %w", err)
	}

	f.log.Debug("highpass: inverse resample", "kind", rs.Kind(), "fill", rs.Fill(), "nan", out.NaNCount())

	return out, nil
}

// ComputeResidual filters img, sampled at columns x and rows y, and returns
// the residual image − background. With WithReturnBackground(true) it
// returns the background instead. The defaults are cubic interpolation and
// residual output.
func ComputeResidual(img mat.Matrix, x, y []float64, gamma, w0 float64, opts ...Option) (*mat.Dense, error) {
	f, err := New(gamma, w0, opts...)
	if err != nil {
		return nil, err
	}

	res, err := f.Decompose(img, x, y)
	if err != nil {
		return nil, err
	}

	if f.cfg.ReturnBackground {
		return res.Background, nil
	}
	return res.Residual, nil
}

// Decompose is ComputeResidual returning both background and residual.
func Decompose(img mat.Matrix, x, y []float64, gamma, w0 float64, opts ...Option) (Result, error) {
	f, err := New(gamma, w0, opts...)
	if err != nil {
		return Result{}, err
	}
	return f.Decompose(img, x, y)
}
