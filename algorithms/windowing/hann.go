package windowing

import (
	"math"
)

// Hann is a precomputed Hann window function
type Hann struct {
	size         int
	coefficients []float64
}

// NewHann creates a Hann window of the given size. A symmetric window
// uses size-1 in the denominator; periodic windows suit STFT-style
// analysis.
func NewHann(size int, symmetric bool) *Hann {
	h := &Hann{
		size:         size,
		coefficients: make([]float64, size),
	}

	denominator := float64(size)
	if symmetric {
		denominator = float64(size - 1)
	}
	for i := 0; i < size; i++ {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
	return h
}

// Apply returns a windowed copy of the signal, or nil when the length
// does not match the window size.
func (h *Hann) Apply(signal []float64) []float64 {
	if len(signal) != h.size {
		return nil
	}

	windowed := make([]float64, h.size)
	for i, v := range signal {
		windowed[i] = v * h.coefficients[i]
	}
	return windowed
}

// Size returns the window size
func (h *Hann) Size() int {
	return h.size
}
