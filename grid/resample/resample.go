// Package resample interpolates a field sampled on a rectilinear grid at
// arbitrary query points.
//
// Interpolation is separable: the 1D kernels from dsp/interp are evaluated
// in index space along each axis and combined as a tensor product. Cubic
// interpolation reads one sample beyond each edge; those ghost samples are
// extrapolated linearly from the two outermost samples.
//
// Queries outside the axis span follow the Fill policy. FillNearest clamps
// the query onto the edge, FillNaN returns NaN.
//
// A query result is NaN if any sample that contributes a non-zero weight is
// NaN. A query landing exactly on a knot uses only that knot.
package resample

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/cwbudde/algo-expkernel/dsp/interp"
	"github.com/cwbudde/algo-expkernel/grid"
)

var (
	// ErrTooFewPoints reports an axis shorter than the kernel support.
	ErrTooFewPoints = errors.New("resample: too few points for interpolation kind")
	// ErrUnknownFill reports an invalid fill policy.
	ErrUnknownFill = errors.New("resample: unknown fill policy")
)

// Fill selects how queries outside the source axes are answered.
type Fill int

const (
	// FillNearest clamps out-of-range coordinates onto the nearest edge.
	FillNearest Fill = iota
	// FillNaN returns NaN for out-of-range coordinates.
	FillNaN
)

// String returns the fill policy name.
func (f Fill) String() string {
	switch f {
	case FillNearest:
		return "nearest"
	case FillNaN:
		return "nan"
	default:
		return fmt.Sprintf("Fill(%d)", int(f))
	}
}

// Valid reports whether f is a known fill policy.
func (f Fill) Valid() bool {
	return f == FillNearest || f == FillNaN
}

// ParseFill parses "nearest" or "nan".
func ParseFill(s string) (Fill, error) {
	switch s {
	case "nearest":
		return FillNearest, nil
	case "nan":
		return FillNaN, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFill, s)
}

// outsideTolerance is the relative slack, in units of the axis span, before a
// query counts as outside the domain.
const outsideTolerance = 1e-9

// Option configures a Resampler.
type Option func(*config)

type config struct {
	kind    interp.Kind
	fill    Fill
	workers int
}

func defaultConfig() config {
	return config{
		kind:    interp.Cubic,
		fill:    FillNearest,
		workers: 1,
	}
}

// WithKind selects the interpolation kernel. Default is interp.Cubic.
func WithKind(k interp.Kind) Option {
	return func(c *config) {
		c.kind = k
	}
}

// WithFill selects the out-of-domain policy. Default is FillNearest.
func WithFill(f Fill) Option {
	return func(c *config) {
		c.fill = f
	}
}

// WithWorkers evaluates query rows on n goroutines. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// axis is an increasing knot vector.
type axis struct {
	knots []float64
	tol   float64
}

func newAxis(knots []float64) axis {
	span := knots[len(knots)-1] - knots[0]
	tol := outsideTolerance * span
	if span == 0 {
		tol = outsideTolerance * math.Max(1, math.Abs(knots[0]))
	}
	return axis{knots: knots, tol: tol}
}

// locate returns the cell index i and fraction t in [0,1) of q. For q on the
// last knot it returns i = n-1, t = 0. ok is false when q lies outside the
// axis and fill is FillNaN.
func (a axis) locate(q float64, fill Fill) (i int, t float64, ok bool) {
	n := len(a.knots)
	lo, hi := a.knots[0], a.knots[n-1]

	if q < lo {
		if fill == FillNaN && lo-q > a.tol {
			return 0, 0, false
		}
		return 0, 0, true
	}
	if q > hi {
		if fill == FillNaN && q-hi > a.tol {
			return 0, 0, false
		}
		return n - 1, 0, true
	}

	i = sort.SearchFloat64s(a.knots, q)
	if i < n && a.knots[i] == q {
		return i, 0, true
	}

	// knots[i-1] < q < knots[i]
	i--
	return i, (q - a.knots[i]) / (a.knots[i+1] - a.knots[i]), true
}

// Resampler interpolates one source field. It is safe for concurrent use.
type Resampler struct {
	src  grid.Field
	x, y axis
	cfg  config
}

// New prepares src, sampled at columns x and rows y, for interpolation.
// Decreasing axes are accepted. src is copied.
func New(src grid.Field, x, y []float64, opts ...Option) (*Resampler, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if !cfg.kind.Valid() {
		return nil, fmt.Errorf("resample: %w: %v", interp.ErrUnknownKind, cfg.kind)
	}
	if !cfg.fill.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFill, cfg.fill)
	}
	if err := grid.CheckAxes(src, x, y); err != nil {
		return nil, fmt.Errorf("resample: %w", err)
	}

	support := cfg.kind.Support()
	if len(x) < support || len(y) < support {
		return nil, fmt.Errorf("%w: %s needs %d per axis, have %dx%d",
			ErrTooFewPoints, cfg.kind, support, len(x), len(y))
	}

	data := src.Clone()
	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)

	if len(xs) > 1 && xs[1] < xs[0] {
		xs = grid.Reversed(xs)
		flipCols(data)
	}
	if len(ys) > 1 && ys[1] < ys[0] {
		ys = grid.Reversed(ys)
		flipRows(data)
	}

	return &Resampler{
		src: data,
		x:   newAxis(xs),
		y:   newAxis(ys),
		cfg: cfg,
	}, nil
}

// Kind returns the interpolation kind.
func (r *Resampler) Kind() interp.Kind {
	return r.cfg.kind
}

// Fill returns the out-of-domain policy.
func (r *Resampler) Fill() Fill {
	return r.cfg.fill
}

// At interpolates the source at (qx, qy). Non-finite coordinates yield NaN.
func (r *Resampler) At(qx, qy float64) float64 {
	if math.IsNaN(qx) || math.IsInf(qx, 0) || math.IsNaN(qy) || math.IsInf(qy, 0) {
		return math.NaN()
	}

	ix, tx, okx := r.x.locate(qx, r.cfg.fill)
	iy, ty, oky := r.y.locate(qy, r.cfg.fill)
	if !okx || !oky {
		return math.NaN()
	}

	var wx, wy [4]float64
	ox := r.cfg.kind.Weights(wx[:], tx)
	oy := r.cfg.kind.Weights(wy[:], ty)
	support := r.cfg.kind.Support()

	var sum float64
	for a := 0; a < support; a++ {
		if wy[a] == 0 {
			continue
		}
		row := iy + oy + a
		for b := 0; b < support; b++ {
			if wx[b] == 0 {
				continue
			}
			sum += wy[a] * wx[b] * r.sample(row, ix+ox+b)
		}
	}

	return sum
}

// sample returns src[i][j], extrapolating linearly for indices one or two
// steps outside the field.
func (r *Resampler) sample(i, j int) float64 {
	rows, cols := r.src.Rows, r.src.Cols

	switch {
	case i < 0:
		return 2*r.sample(0, j) - r.sample(1, j)
	case i >= rows:
		return 2*r.sample(rows-1, j) - r.sample(rows-2, j)
	case j < 0:
		return 2*r.sample(i, 0) - r.sample(i, 1)
	case j >= cols:
		return 2*r.sample(i, cols-1) - r.sample(i, cols-2)
	}

	return r.src.Data[i*cols+j]
}

// Points interpolates at rows×cols scattered query points given in row-major
// order.
func (r *Resampler) Points(qx, qy []float64, rows, cols int) (grid.Field, error) {
	out, err := grid.New(rows, cols)
	if err != nil {
		return grid.Field{}, fmt.Errorf("resample: %w", err)
	}
	if len(qx) != rows*cols || len(qy) != rows*cols {
		return grid.Field{}, fmt.Errorf("resample: %w: %d/%d queries for %dx%d output",
			grid.ErrShape, len(qx), len(qy), rows, cols)
	}
	if err := checkFinite(qx); err != nil {
		return grid.Field{}, fmt.Errorf("resample: x queries: %w", err)
	}
	if err := checkFinite(qy); err != nil {
		return grid.Field{}, fmt.Errorf("resample: y queries: %w", err)
	}

	r.forRows(rows, func(i int) {
		for j := 0; j < cols; j++ {
			k := i*cols + j
			out.Data[k] = r.At(qx[k], qy[k])
		}
	})

	return out, nil
}

// Grid interpolates on the rectilinear grid spanned by x (columns) and
// y (rows).
func (r *Resampler) Grid(x, y []float64) (grid.Field, error) {
	if len(x) == 0 || len(y) == 0 {
		return grid.Field{}, fmt.Errorf("resample: %w: %dx%d target", grid.ErrEmpty, len(y), len(x))
	}
	if err := checkFinite(x); err != nil {
		return grid.Field{}, fmt.Errorf("resample: x target: %w", err)
	}
	if err := checkFinite(y); err != nil {
		return grid.Field{}, fmt.Errorf("resample: y target: %w", err)
	}

	out, err := grid.New(len(y), len(x))
	if err != nil {
		return grid.Field{}, fmt.Errorf("resample: %w", err)
	}

	r.forRows(len(y), func(i int) {
		row := out.Row(i)
		for j := range x {
			row[j] = r.At(x[j], y[i])
		}
	})

	return out, nil
}

// forRows calls fn for every row index, spreading contiguous bands over the
// configured number of workers.
func (r *Resampler) forRows(rows int, fn func(i int)) {
	workers := min(r.cfg.workers, rows)
	if workers <= 1 {
		for i := 0; i < rows; i++ {
			fn(i)
		}
		return
	}

	band := (rows + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < rows; start += band {
		end := min(start+band, rows)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}

func checkFinite(v []float64) error {
	for i, q := range v {
		if math.IsNaN(q) || math.IsInf(q, 0) {
			return fmt.Errorf("%w: [%d] = %v", grid.ErrNonFinite, i, q)
		}
	}
	return nil
}

func flipCols(f grid.Field) {
	for i := 0; i < f.Rows; i++ {
		row := f.Row(i)
		for a, b := 0, len(row)-1; a < b; a, b = a+1, b-1 {
			row[a], row[b] = row[b], row[a]
		}
	}
}

func flipRows(f grid.Field) {
	for a, b := 0, f.Rows-1; a < b; a, b = a+1, b-1 {
		ra, rb := f.Row(a), f.Row(b)
		for j := range ra {
			ra[j], rb[j] = rb[j], ra[j]
		}
	}
}
