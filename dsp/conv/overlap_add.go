package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// OverlapAdd convolves padded rows with a fixed long kernel by FFT block
// convolution. Each block of the row is zero-padded to the FFT size,
// multiplied with the kernel spectrum, and added back at its offset.
//
// An OverlapAdd holds scratch buffers and must not be used concurrently.
type OverlapAdd struct {
	kernelFFT []complex128

	kernelLen int
	blockSize int
	fftSize   int // blockSize + kernelLen - 1, rounded to power of 2

	plan *algofft.Plan[complex128]

	scratch []complex128
	full    []float64
}

// NewOverlapAdd prepares the kernel spectrum. blockSize is the row segment
// length; 0 picks max(256, next power of two of the kernel length).
func NewOverlapAdd(kernel []float64, blockSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	kernelLen := len(kernel)

	if blockSize <= 0 {
		blockSize = nextPowerOf2(kernelLen)
		if blockSize < 256 {
			blockSize = 256
		}
	}

	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	oa := &OverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: kernelLen,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		scratch:   make([]complex128, fftSize),
	}

	for i, v := range kernel {
		oa.scratch[i] = complex(v, 0)
	}

	if err := plan.Forward(oa.kernelFFT, oa.scratch); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return oa, nil
}

// ProcessValidTo writes the valid part of the convolution of input with the
// kernel into dst.
// len(dst) must be len(input) - kernelLen + 1.
func (oa *OverlapAdd) ProcessValidTo(dst, input []float64) error {
	want := len(input) - oa.kernelLen + 1
	if want <= 0 || len(dst) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(dst))
	}

	oa.full = ensureLen(oa.full, len(input)+oa.kernelLen-1)
	if err := oa.accumulate(oa.full, input); err != nil {
		return err
	}

	copy(dst, oa.full[oa.kernelLen-1:len(input)])

	return nil
}

// accumulate computes the full convolution of input into output, which must
// have length len(input)+kernelLen-1.
func (oa *OverlapAdd) accumulate(output, input []float64) error {
	for i := range output {
		output[i] = 0
	}

	for start := 0; start < len(input); start += oa.blockSize {
		end := min(start+oa.blockSize, len(input))
		blockLen := end - start

		for i := range oa.scratch {
			oa.scratch[i] = 0
		}
		for i := 0; i < blockLen; i++ {
			oa.scratch[i] = complex(input[start+i], 0)
		}

		if err := oa.plan.Forward(oa.scratch, oa.scratch); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}

		for i := range oa.scratch {
			oa.scratch[i] *= oa.kernelFFT[i]
		}

		if err := oa.plan.Inverse(oa.scratch, oa.scratch); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		// A block of length L convolved with a kernel of length M spans L + M - 1 samples.
		resultLen := blockLen + oa.kernelLen - 1
		for i := 0; i < resultLen && start+i < len(output); i++ {
			output[start+i] += real(oa.scratch[i])
		}
	}

	return nil
}

func ensureLen(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}
