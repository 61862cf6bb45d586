package temporal

import (
	"github.com/groovemeter/groovemeter/algorithms/spectral"
	"github.com/groovemeter/groovemeter/algorithms/windowing"
)

// OnsetMethod selects how the onset series is derived.
type OnsetMethod int

const (
	// OnsetEnergy uses the positive first-order difference of the energy
	// envelope. This is the default.
	OnsetEnergy OnsetMethod = iota

	// OnsetSpectralFlux uses positive spectral flux between the FFT
	// magnitudes of consecutive envelope windows.
	OnsetSpectralFlux
)

// OnsetDetector derives a rising-energy series from an envelope. The
// series has the same length as the envelope so the tempo estimator can
// pair them index by index.
type OnsetDetector struct {
	method OnsetMethod
	fft    *spectral.FFT
	flux   *spectral.Flux
}

// NewOnsetDetector creates an onset detector using the energy method.
func NewOnsetDetector() *OnsetDetector {
	return NewOnsetDetectorWithMethod(OnsetEnergy)
}

// NewOnsetDetectorWithMethod creates an onset detector with an explicit
// method.
func NewOnsetDetectorWithMethod(method OnsetMethod) *OnsetDetector {
	return &OnsetDetector{
		method: method,
		fft:    spectral.NewFFT(),
		flux:   spectral.NewFlux(),
	}
}

// Detect computes the onset series for an envelope. The signal argument
// is the mono buffer the envelope was built from; only the spectral flux
// method reads it. Output values are non-negative and smoothed with a
// 3-point moving average, boundary values passed through unsmoothed.
func (od *OnsetDetector) Detect(env *EnergyEnvelope, signal []float64) []float64 {
	if env == nil || len(env.Values) == 0 {
		return []float64{}
	}

	var raw []float64
	switch od.method {
	case OnsetSpectralFlux:
		raw = od.spectralFlux(env, signal)
	default:
		raw = od.energyDifference(env.Values)
	}

	return smooth3(raw)
}

// energyDifference clamps the forward difference of the envelope at
// zero: only energy increases count as onsets.
func (od *OnsetDetector) energyDifference(envelope []float64) []float64 {
	onsets := make([]float64, len(envelope))
	for i := 0; i+1 < len(envelope); i++ {
		if diff := envelope[i+1] - envelope[i]; diff > 0 {
			onsets[i] = diff
		}
	}
	return onsets
}

// spectralFlux computes positive flux between the Hann-windowed FFT
// magnitudes of consecutive envelope windows. Window boundaries match
// the envelope exactly so both series share a time base.
func (od *OnsetDetector) spectralFlux(env *EnergyEnvelope, signal []float64) []float64 {
	numWindows := len(env.Values)
	onsets := make([]float64, numWindows)
	if env.WindowSize <= 0 || len(signal) < numWindows*env.WindowSize {
		return onsets
	}

	hann := windowing.NewHann(env.WindowSize, false)
	spectra := make([][]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		start := i * env.WindowSize
		frame := hann.Apply(signal[start : start+env.WindowSize])
		spectra[i] = od.fft.Magnitudes(frame)
	}

	for i := 1; i < numWindows; i++ {
		onsets[i] = od.flux.Positive(spectra[i-1], spectra[i])
	}
	return onsets
}

// smooth3 applies a 3-point moving average. The first and last values
// pass through unsmoothed.
func smooth3(series []float64) []float64 {
	if len(series) < 3 {
		return series
	}

	smoothed := make([]float64, len(series))
	smoothed[0] = series[0]
	smoothed[len(series)-1] = series[len(series)-1]
	for i := 1; i+1 < len(series); i++ {
		smoothed[i] = (series[i-1] + series[i] + series[i+1]) / 3.0
	}
	return smoothed
}
