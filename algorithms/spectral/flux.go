package spectral

import (
	"math"
)

// Flux computes spectral flux, a measure of frame-to-frame spectral
// change. Positive flux emphasizes note attacks.
type Flux struct{}

// NewFlux creates a new spectral flux calculator
func NewFlux() *Flux {
	return &Flux{}
}

// Positive computes the flux between two magnitude spectra counting
// only bins that gained energy.
func (sf *Flux) Positive(prev, cur []float64) float64 {
	n := len(cur)
	if len(prev) < n {
		n = len(prev)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		if diff := cur[i] - prev[i]; diff > 0 {
			sum += diff * diff
		}
	}
	return math.Sqrt(sum)
}

// Total computes the flux between two magnitude spectra counting all
// changes, positive and negative.
func (sf *Flux) Total(prev, cur []float64) float64 {
	n := len(cur)
	if len(prev) < n {
		n = len(prev)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		diff := cur[i] - prev[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
