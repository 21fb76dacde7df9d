// Package preview renders fields as false-colour images for quick inspection.
package preview

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/cwbudde/algo-expkernel/grid"
)

// ErrNoFinite is returned when the colour range cannot be taken from the data.
var ErrNoFinite = errors.New("preview: field has no finite samples")

// Scale maps sample values to colours.
type Scale int

const (
	// Diverging maps -limit..0..+limit to blue, white, red. Suited to residuals.
	Diverging Scale = iota
	// Sequential maps lo..hi to black..white. Suited to backgrounds.
	Sequential
)

// String implements fmt.Stringer.
func (s Scale) String() string {
	switch s {
	case Diverging:
		return "diverging"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Scale(%d)", int(s))
	}
}

// Options controls Render.
type Options struct {
	Scale Scale
	// Limit fixes the colour range: ±Limit for Diverging, 0..Limit for
	// Sequential. Zero takes the range from the data.
	Limit float64
}

// Render draws f with row 0 at the top. NaN samples are transparent.
func Render(f grid.Field, opts Options) (*gg.Pixmap, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	lo, hi, err := colourRange(f, opts)
	if err != nil {
		return nil, err
	}

	pm := gg.NewPixmap(f.Cols, f.Rows)
	for i := 0; i < f.Rows; i++ {
		row := f.Row(i)
		for j, v := range row {
			pm.SetPixel(j, i, colour(v, lo, hi, opts.Scale))
		}
	}
	return pm, nil
}

// Encode renders f and writes it to w as PNG.
func Encode(w io.Writer, f grid.Field, opts Options) error {
	pm, err := Render(f, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, pm.ToImage())
}

// Save renders f to a PNG file.
func Save(path string, f grid.Field, opts Options) error {
	pm, err := Render(f, opts)
	if err != nil {
		return err
	}
	return pm.SavePNG(path)
}

func colourRange(f grid.Field, opts Options) (lo, hi float64, err error) {
	if opts.Limit > 0 && !math.IsInf(opts.Limit, 0) {
		if opts.Scale == Diverging {
			return -opts.Limit, opts.Limit, nil
		}
		return 0, opts.Limit, nil
	}

	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo > hi {
		return 0, 0, ErrNoFinite
	}

	if opts.Scale == Diverging {
		m := max(math.Abs(lo), math.Abs(hi))
		return -m, m, nil
	}
	return lo, hi, nil
}

func colour(v, lo, hi float64, s Scale) gg.RGBA {
	if math.IsNaN(v) {
		return gg.Transparent
	}

	t := 0.5
	if hi > lo {
		t = (v - lo) / (hi - lo)
	}
	t = min(max(t, 0), 1)

	if s == Sequential {
		return gg.Black.Lerp(gg.White, t)
	}
	if t < 0.5 {
		return gg.Blue.Lerp(gg.White, 2*t)
	}
	return gg.White.Lerp(gg.Red, 2*t-1)
}
