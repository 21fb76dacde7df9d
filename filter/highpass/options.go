package highpass

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-expkernel/dsp/conv"
	"github.com/cwbudde/algo-expkernel/dsp/interp"
	"github.com/cwbudde/algo-expkernel/dsp/window"
	"github.com/cwbudde/algo-expkernel/filter/blur"
	"github.com/cwbudde/algo-expkernel/filter/stretch"
	"github.com/cwbudde/algo-expkernel/grid/resample"
)

// Config holds the optional filter settings.
type Config struct {
	// Interp is the resampling kernel for both grid transfers.
	Interp interp.Kind
	// ReturnBackground makes ComputeResidual return the blurred map
	// instead of the residual.
	ReturnBackground bool
	// R0 is the radius, in axis units, at which the kernel width equals w0.
	R0 float64

	// Boundary, Cval, Truncate and Integrated configure the blur on the
	// stretched grid.
	Boundary   conv.Boundary
	Cval       float64
	Truncate   float64
	Integrated bool

	// Fill is the out-of-domain policy of both resampling stages.
	Fill resample.Fill
	// Workers is the number of goroutines used for resampling.
	Workers int

	// Logger receives Debug records at stage boundaries. Nil disables logging.
	Logger *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns cubic interpolation, residual output, R0 = 1,
// reflect boundaries, a 4σ kernel, nearest-edge fill and one worker.
func DefaultConfig() Config {
	return Config{
		Interp:   interp.Cubic,
		R0:       stretch.DefaultR0,
		Boundary: conv.BoundaryReflect,
		Truncate: window.DefaultTruncate,
		Fill:     resample.FillNearest,
		Workers:  1,
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case !c.Interp.Valid():
		return fmt.Errorf("%w: %v", ErrUnknownInterp, c.Interp)
	case math.IsNaN(c.R0) || math.IsInf(c.R0, 0) || c.R0 <= 0:
		return fmt.Errorf("%w: r0 = %v", ErrInvalidOption, c.R0)
	case !c.Boundary.Valid():
		return fmt.Errorf("%w: boundary %v", ErrInvalidOption, c.Boundary)
	case math.IsNaN(c.Cval) || math.IsInf(c.Cval, 0):
		return fmt.Errorf("%w: cval = %v", ErrInvalidOption, c.Cval)
	case math.IsNaN(c.Truncate) || math.IsInf(c.Truncate, 0) || c.Truncate <= 0:
		return fmt.Errorf("%w: truncate = %v", ErrInvalidOption, c.Truncate)
	case !c.Fill.Valid():
		return fmt.Errorf("%w: fill %v", ErrInvalidOption, c.Fill)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers = %d", ErrInvalidOption, c.Workers)
	}
	return nil
}

// WithInterp selects the resampling kernel. Default is interp.Cubic.
func WithInterp(k interp.Kind) Option {
	return func(c *Config) {
		c.Interp = k
	}
}

// WithReturnBackground selects the blurred map as the output of
// ComputeResidual.
func WithReturnBackground(v bool) Option {
	return func(c *Config) {
		c.ReturnBackground = v
	}
}

// WithR0 sets the reference radius of the width law.
func WithR0(r0 float64) Option {
	return func(c *Config) {
		c.R0 = r0
	}
}

// WithBoundary selects the blur edge policy.
func WithBoundary(b conv.Boundary) Option {
	return func(c *Config) {
		c.Boundary = b
	}
}

// WithCval sets the fill value for conv.BoundaryConstant.
func WithCval(v float64) Option {
	return func(c *Config) {
		c.Cval = v
	}
}

// WithTruncate sets the blur kernel half-width in units of sigma.
func WithTruncate(v float64) Option {
	return func(c *Config) {
		c.Truncate = v
	}
}

// WithIntegrated selects pixel-integrated blur weights.
func WithIntegrated(v bool) Option {
	return func(c *Config) {
		c.Integrated = v
	}
}

// WithFill selects the resampling out-of-domain policy.
func WithFill(f resample.Fill) Option {
	return func(c *Config) {
		c.Fill = f
	}
}

// WithWorkers sets the number of resampling goroutines.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// WithLogger sets the logger for one filter.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func (c Config) resampleOptions() []resample.Option {
	return []resample.Option{
		resample.WithKind(c.Interp),
		resample.WithFill(c.Fill),
		resample.WithWorkers(c.Workers),
	}
}

func (c Config) blurOptions() []blur.Option {
	opts := []blur.Option{
		blur.WithBoundary(c.Boundary),
		blur.WithCval(c.Cval),
		blur.WithTruncate(c.Truncate),
	}
	if c.Integrated {
		opts = append(opts, blur.WithIntegrated())
	}
	return opts
}
