package highpass

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-expkernel/filter/stretch"
)

// ErrConfig is the category of every configuration error. Configuration
// errors are reported before any resampling is attempted.
var ErrConfig = errors.New("highpass: configuration error")

// Specific configuration errors. Each also matches ErrConfig.
var (
	ErrInvalidWidth  = fmt.Errorf("%w: w0 must be finite and > 0", ErrConfig)
	ErrInvalidGamma  = fmt.Errorf("%w: gamma must be finite", ErrConfig)
	ErrShapeMismatch = fmt.Errorf("%w: axis lengths do not match image shape", ErrConfig)
	ErrUnknownInterp = fmt.Errorf("%w: unknown interpolation kind", ErrConfig)
	ErrInvalidOption = fmt.Errorf("%w: invalid option value", ErrConfig)
)

// ErrDomain reports a stretch that is undefined or degenerate for the
// requested axes, for example gamma >= 1.
var ErrDomain = stretch.ErrDomain
