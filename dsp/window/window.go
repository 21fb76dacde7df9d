// Package window generates the one-dimensional Gaussian kernels used by the
// separable blur.
//
// Two sampling schemes are available:
//
//   - point-sampled: w[k] = exp(-k²/2σ²), the scheme of most image libraries
//   - pixel-integrated: w[k] is the Gaussian mass over [k-½, k+½], which stays
//     accurate for σ well below one sample
//
// Kernels are centered, have odd length 2r+1 and are normalized to unit sum.
package window

import "math"

// DefaultTruncate is the kernel half-width in units of sigma.
const DefaultTruncate = 4.0

// MaxRadius is the largest kernel half-width in samples.
const MaxRadius = 1 << 20

// Option configures kernel generation.
type Option func(*config)

type config struct {
	truncate   float64
	radius     int
	integrated bool
}

func defaultConfig() config {
	return config{
		truncate: DefaultTruncate,
		radius:   -1,
	}
}

// WithTruncate sets the half-width in units of sigma. Values <= 0 are ignored.
func WithTruncate(v float64) Option {
	return func(c *config) {
		if v > 0 && !math.IsInf(v, 0) {
			c.truncate = v
		}
	}
}

// WithRadius fixes the half-width in samples, overriding the truncation.
// Negative values are ignored; values above MaxRadius are clamped.
func WithRadius(r int) Option {
	return func(c *config) {
		if r >= 0 {
			c.radius = r
		}
	}
}

// WithIntegrated selects pixel-integrated weights.
func WithIntegrated() Option {
	return func(c *config) {
		c.integrated = true
	}
}

// Radius returns the half-width in samples for sigma and truncate,
// rounded to the nearest sample and clamped to MaxRadius.
func Radius(sigma, truncate float64) int {
	r := truncate*sigma + 0.5
	if !(r < MaxRadius) {
		return MaxRadius
	}
	return int(r)
}

// Gaussian returns a normalized Gaussian kernel of standard deviation sigma
// (in samples). A sigma of zero yields the identity kernel {1}.
func Gaussian(sigma float64, opts ...Option) ([]float64, error) {
	if err := validateSigma(sigma); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if sigma == 0 {
		return []float64{1}, nil
	}

	r := cfg.radius
	if r < 0 {
		r = Radius(sigma, cfg.truncate)
	}
	r = min(r, MaxRadius)

	out := make([]float64, 2*r+1)
	for k := -r; k <= r; k++ {
		x := float64(k)
		if cfg.integrated {
			out[k+r] = integratedAt(x, sigma)
		} else {
			out[k+r] = math.Exp(-0.5 * x * x / (sigma * sigma))
		}
	}

	if err := Normalize(out); err != nil {
		return nil, err
	}

	return out, nil
}

// Normalize scales coeffs in place to unit sum.
func Normalize(coeffs []float64) error {
	if len(coeffs) == 0 {
		return errEmptyCoeffs
	}

	sum := 0.0
	for _, v := range coeffs {
		sum += v
	}
	if sum == 0 {
		return errZeroSum
	}

	inv := 1 / sum
	for i := range coeffs {
		coeffs[i] *= inv
	}

	return nil
}

// integratedAt returns the Gaussian mass over [x-0.5, x+0.5].
func integratedAt(x, sigma float64) float64 {
	s := sigma * math.Sqrt2
	return 0.5 * (math.Erf((x+0.5)/s) - math.Erf((x-0.5)/s))
}
