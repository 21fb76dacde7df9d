// Package stretch maps image coordinates into a radially stretched space in
// which a power-law kernel width becomes constant.
//
// The desired Gaussian width at radius r is
//
//	w(r) = W0 · (r/R0)^γ
//
// Integrating dF/dr = W0/w(r) from the origin gives the radial stretch
//
//	F(r)   = R0^γ · r^(1-γ) / (1-γ)
//	F⁻¹(s) = ((1-γ) · s · R0^(-γ))^(1/(1-γ))
//
// A constant width W0 in F-space corresponds to a radial width of w(r) in the
// original coordinates. The tangential width is (1-γ)·w(r), because the map
// scales arcs by F(r)/r rather than F'(r).
//
// γ = 0 is the identity map. γ >= 1 has no finite stretch; [Map.Grid] reports
// it as [ErrDomain]. Negative γ shrinks the kernel with radius.
package stretch

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-expkernel/grid"
)

var (
	// ErrInvalidParams reports an unusable width, exponent or reference radius.
	ErrInvalidParams = errors.New("stretch: invalid kernel parameters")
	// ErrDomain reports a stretch that is undefined, non-finite or
	// non-monotonic over the requested axes.
	ErrDomain = errors.New("stretch: numerical domain error")
)

// Params are the power-law kernel parameters.
type Params struct {
	W0    float64 // kernel width at R0, in original pixels
	Gamma float64 // power-law exponent
	R0    float64 // reference radius, in axis units
}

// DefaultR0 is the reference radius used when Params.R0 is zero.
const DefaultR0 = 1.0

// Validate checks W0 > 0, R0 > 0 and finite Gamma. It does not reject
// γ >= 1; that is a domain error detected by Map.Grid.
func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.W0) || math.IsInf(p.W0, 0) || p.W0 <= 0:
		return fmt.Errorf("%w: w0 must be finite and > 0, got %v", ErrInvalidParams, p.W0)
	case math.IsNaN(p.Gamma) || math.IsInf(p.Gamma, 0):
		return fmt.Errorf("%w: gamma must be finite, got %v", ErrInvalidParams, p.Gamma)
	case math.IsNaN(p.R0) || math.IsInf(p.R0, 0) || p.R0 <= 0:
		return fmt.Errorf("%w: r0 must be finite and > 0, got %v", ErrInvalidParams, p.R0)
	}
	return nil
}

// Width returns w(r) = W0·(r/R0)^γ.
func (p Params) Width(r float64) float64 {
	if p.Gamma == 0 {
		return p.W0
	}
	return p.W0 * math.Pow(r/p.R0, p.Gamma)
}

// Map is the radial stretch for one parameter set. The zero value is not
// usable; construct with New.
type Map struct {
	params Params

	exp   float64 // 1 - γ
	scale float64 // R0^γ / (1-γ)
}

// New validates p and returns its Map. A zero R0 is replaced by DefaultR0.
func New(p Params) (Map, error) {
	if p.R0 == 0 {
		p.R0 = DefaultR0
	}
	if err := p.Validate(); err != nil {
		return Map{}, err
	}

	m := Map{params: p, exp: 1 - p.Gamma}
	if m.exp != 0 {
		m.scale = math.Pow(p.R0, p.Gamma) / m.exp
	}

	return m, nil
}

// Params returns the parameters the map was built from.
func (m Map) Params() Params {
	return m.params
}

// Identity reports whether the map is the identity (γ = 0).
func (m Map) Identity() bool {
	return m.params.Gamma == 0
}

// Stretch returns F(r) for r >= 0.
func (m Map) Stretch(r float64) float64 {
	if m.Identity() || r == 0 {
		return r
	}
	return m.scale * math.Pow(r, m.exp)
}

// Unstretch returns F⁻¹(s) for s >= 0.
func (m Map) Unstretch(s float64) float64 {
	if m.Identity() || s == 0 {
		return s
	}
	return math.Pow(s/m.scale, 1/m.exp)
}

// StretchCoord applies F to a signed one-dimensional coordinate.
func (m Map) StretchCoord(x float64) float64 {
	return math.Copysign(m.Stretch(math.Abs(x)), x)
}

// UnstretchCoord applies F⁻¹ to a signed one-dimensional coordinate.
func (m Map) UnstretchCoord(u float64) float64 {
	return math.Copysign(m.Unstretch(math.Abs(u)), u)
}

// StretchPoint maps an original-space point radially into stretched space.
func (m Map) StretchPoint(x, y float64) (u, v float64) {
	if m.Identity() {
		return x, y
	}

	r := math.Hypot(x, y)
	if r == 0 {
		return 0, 0
	}

	s := m.Stretch(r)
	return s * (x / r), s * (y / r)
}

// UnstretchPoint maps a stretched-space point back into original space.
func (m Map) UnstretchPoint(u, v float64) (x, y float64) {
	if m.Identity() {
		return u, v
	}

	s := math.Hypot(u, v)
	if s == 0 {
		return 0, 0
	}

	r := m.Unstretch(s)
	return r * (u / s), r * (v / s)
}

// Spacing returns dF⁻¹/ds at F(r), the original-space length of one unit of
// stretched space at radius r. It equals w(r)/W0.
func (m Map) Spacing(r float64) float64 {
	if m.Identity() {
		return 1
	}
	return math.Pow(r/m.params.R0, m.params.Gamma)
}

// Grid is the stretched sample grid derived for one call.
type Grid struct {
	// U and V are the stretched-space axes, with the same lengths as the
	// original x and y axes. They are evenly spaced unless the map is the
	// identity, in which case they equal x and y.
	U, V []float64

	// SigmaX and SigmaY are the kernel width W0 in stretched-grid index units
	// along U and V.
	SigmaX, SigmaY float64
}

// Grid builds the stretched axes for the original axes x and y.
// Each stretched axis runs evenly from F(first) to F(last). The identity map
// returns copies of x and y unchanged, even when they are unevenly spaced.
func (m Map) Grid(x, y []float64) (Grid, error) {
	if m.exp <= 0 && !m.Identity() {
		return Grid{}, fmt.Errorf("%w: gamma %v >= 1 has no finite stretch", ErrDomain, m.params.Gamma)
	}

	u, sx, err := m.axis(x)
	if err != nil {
		return Grid{}, fmt.Errorf("x axis: %w", err)
	}

	v, sy, err := m.axis(y)
	if err != nil {
		return Grid{}, fmt.Errorf("y axis: %w", err)
	}

	return Grid{U: u, V: v, SigmaX: sx, SigmaY: sy}, nil
}

func (m Map) axis(a []float64) ([]float64, float64, error) {
	if _, err := grid.CheckAxis(a); err != nil {
		return nil, 0, err
	}

	if m.Identity() {
		return append([]float64(nil), a...), m.params.W0, nil
	}

	lo := m.StretchCoord(a[0])
	hi := m.StretchCoord(a[len(a)-1])
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return nil, 0, fmt.Errorf("%w: stretched extent [%v, %v] is not finite", ErrDomain, lo, hi)
	}

	out := grid.Linspace(lo, hi, len(a))
	if _, err := grid.CheckAxis(out); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDomain, err)
	}

	if len(a) < 2 {
		return out, m.params.W0, nil
	}

	sigma := m.params.W0 * math.Abs(grid.MeanSpacing(a)/grid.MeanSpacing(out))
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return nil, 0, fmt.Errorf("%w: kernel width %v in stretched units", ErrDomain, sigma)
	}

	return out, sigma, nil
}

// UnstretchGrid returns the original-space positions of every stretched grid
// sample in row-major order. Element i*len(g.U)+j belongs to (g.U[j], g.V[i]).
func (m Map) UnstretchGrid(g Grid) (qx, qy []float64) {
	return m.mapGrid(g.U, g.V, m.UnstretchPoint, m.unstretchRatio)
}

// StretchGrid returns the stretched-space positions of every sample of the
// original axes, in row-major order.
func (m Map) StretchGrid(x, y []float64) (qx, qy []float64) {
	return m.mapGrid(x, y, m.StretchPoint, m.stretchRatio)
}

// mapGrid evaluates a radial point map over the x/y product. For the
// non-identity case it computes per-row radial ratios and applies them with
// block multiplies.
func (m Map) mapGrid(x, y []float64, point func(x, y float64) (float64, float64), ratio func(r float64) float64) (qx, qy []float64) {
	rows, cols := len(y), len(x)
	qx = make([]float64, rows*cols)
	qy = make([]float64, rows*cols)

	if m.Identity() {
		for i := 0; i < rows; i++ {
			copy(qx[i*cols:(i+1)*cols], x)
			for j := 0; j < cols; j++ {
				qy[i*cols+j] = y[i]
			}
		}
		return qx, qy
	}

	ratios := make([]float64, cols)
	ys := make([]float64, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			ratios[j] = ratio(math.Hypot(x[j], y[i]))
			ys[j] = y[i]
		}

		vecmath.MulBlock(qx[i*cols:(i+1)*cols], x, ratios)
		vecmath.MulBlock(qy[i*cols:(i+1)*cols], ys, ratios)

		// The ratio form is 0/0 at the origin.
		for j := 0; j < cols; j++ {
			if x[j] == 0 && y[i] == 0 {
				qx[i*cols+j], qy[i*cols+j] = point(0, 0)
			}
		}
	}

	return qx, qy
}

// stretchRatio returns F(r)/r, or 0 at r = 0.
func (m Map) stretchRatio(r float64) float64 {
	if r == 0 {
		return 0
	}
	return m.Stretch(r) / r
}

// unstretchRatio returns F⁻¹(s)/s, or 0 at s = 0.
func (m Map) unstretchRatio(s float64) float64 {
	if s == 0 {
		return 0
	}
	return m.Unstretch(s) / s
}
