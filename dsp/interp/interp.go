package interp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when parsing an unsupported interpolation name.
var ErrUnknownKind = errors.New("interp: unknown interpolation kind")

// Kind selects an interpolation kernel.
type Kind int

const (
	// Cubic is 4-point cubic Hermite interpolation (Catmull-Rom).
	Cubic Kind = iota
	// Linear is 2-point linear interpolation.
	Linear
	// Nearest picks the closest sample.
	Nearest
)

var kindNames = map[Kind]string{
	Cubic:   "cubic",
	Linear:  "linear",
	Nearest: "nearest",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// Support returns the number of samples the kernel reads along one axis.
// It is also the minimum axis length the kernel accepts.
func (k Kind) Support() int {
	switch k {
	case Nearest:
		return 1
	case Linear:
		return 2
	case Cubic:
		return 4
	default:
		return 0
	}
}

// ParseKind maps a name such as "cubic" to its Kind. Matching ignores case
// and surrounding space.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Kinds returns all supported kinds in a stable order.
func Kinds() []Kind {
	return []Kind{Nearest, Linear, Cubic}
}

// CubicWeights returns the Catmull-Rom weights of the samples at offsets
// -1, 0, 1, 2 for fractional position t in [0, 1). They reproduce quadratics.
// At t == 0 the weights are exactly {0, 1, 0, 0}.
func CubicWeights(t float64) [4]float64 {
	t2 := t * t
	t3 := t2 * t
	return [4]float64{
		-0.5*t + t2 - 0.5*t3,
		1 - 2.5*t2 + 1.5*t3,
		0.5*t + 2*t2 - 1.5*t3,
		-0.5*t2 + 0.5*t3,
	}
}

// Weights fills w with the kernel weights for fractional position t and
// returns the offset of w[0] relative to the left sample x0.
// len(w) must be at least k.Support().
func (k Kind) Weights(w []float64, t float64) int {
	switch k {
	case Nearest:
		w[0] = 1
		if t < 0.5 {
			return 0
		}
		return 1
	case Linear:
		w[0] = 1 - t
		w[1] = t
		return 0
	default:
		cw := CubicWeights(t)
		copy(w, cw[:])
		return -1
	}
}
