package window

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSigma is returned for negative or non-finite kernel widths.
	ErrInvalidSigma = errors.New("window: gaussian sigma must be finite and >= 0")

	errEmptyCoeffs = errors.New("window coefficients must not be empty")
	errZeroSum     = errors.New("window coefficients sum to zero")
)

func validateSigma(sigma float64) error {
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}
	return nil
}
