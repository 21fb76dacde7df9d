package grid

import "errors"

// Errors returned by field and axis validation.
var (
	ErrEmpty        = errors.New("grid: empty field or axis")
	ErrShape        = errors.New("grid: shape mismatch")
	ErrNonFinite    = errors.New("grid: non-finite coordinate")
	ErrNotMonotonic = errors.New("grid: axis is not strictly monotonic")
)
