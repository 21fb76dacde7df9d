// Package gridio reads and writes fields as plain-text matrices.
//
// One line per row, values separated by whitespace or commas. Blank lines and
// lines starting with '#' are skipped. Masked samples are written as "nan";
// any spelling accepted by strconv.ParseFloat is read.
package gridio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-expkernel/grid"
)

var (
	// ErrRagged reports rows of unequal length.
	ErrRagged = errors.New("gridio: rows have different lengths")
	// ErrNoData reports input without any sample rows.
	ErrNoData = errors.New("gridio: no data rows")
)

// Read parses a text matrix.
func Read(r io.Reader) (grid.Field, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		data []float64
		rows int
		cols = -1
		line int
	)

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if cols < 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return grid.Field{}, fmt.Errorf("%w: line %d has %d values, want %d", ErrRagged, line, len(fields), cols)
		}

		for k, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return grid.Field{}, fmt.Errorf("gridio: line %d, column %d: %w", line, k+1, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return grid.Field{}, fmt.Errorf("gridio: %w", err)
	}
	if rows == 0 || cols == 0 {
		return grid.Field{}, ErrNoData
	}

	return grid.FromData(rows, cols, data)
}

// Write formats f with one row per line, values separated by single spaces.
func Write(w io.Writer, f grid.Field) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("gridio: %w", err)
	}

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)

	for i := 0; i < f.Rows; i++ {
		for j, v := range f.Row(i) {
			if j > 0 {
				_ = bw.WriteByte(' ')
			}
			buf = appendValue(buf[:0], v)
			_, _ = bw.Write(buf)
		}
		_ = bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("gridio: %w", err)
	}
	return nil
}

func appendValue(buf []byte, v float64) []byte {
	if math.IsNaN(v) {
		return append(buf, "nan"...)
	}
	return strconv.AppendFloat(buf, v, 'g', -1, 64)
}
