package chroma

import (
	"math"

	"github.com/groovemeter/groovemeter/algorithms/common"
	"github.com/groovemeter/groovemeter/algorithms/stats"
)

// ChromagramParams contains parameters for chromagram construction
type ChromagramParams struct {
	// WindowSeconds is the duration of one pitch-detection window.
	WindowSeconds float64 `json:"window_seconds"`

	// MaxAnalysisSeconds caps how much audio is analyzed.
	MaxAnalysisSeconds float64 `json:"max_analysis_seconds"`

	// MinFrequency and MaxFrequency bound the pitch search in Hz.
	MinFrequency float64 `json:"min_frequency"`
	MaxFrequency float64 `json:"max_frequency"`

	// NoiseFloor is the minimum autocorrelation for a window to
	// contribute to the chromagram.
	NoiseFloor float64 `json:"noise_floor"`

	// HarmonicTolerance is the fraction of the peak autocorrelation a
	// folded-down lag must reach to be taken as the fundamental period.
	HarmonicTolerance float64 `json:"harmonic_tolerance"`
}

// DefaultChromagramParams returns the default construction parameters.
func DefaultChromagramParams() ChromagramParams {
	return ChromagramParams{
		WindowSeconds:      0.1,
		MaxAnalysisSeconds: 30.0,
		MinFrequency:       80.0,
		MaxFrequency:       2000.0,
		NoiseFloor:         0.01,
		HarmonicTolerance:  0.9,
	}
}

// Chromagram is a 12-bin histogram of detected pitch energy per pitch
// class. Bins sum to 1 when any window contributed, else stay all zero.
type Chromagram struct {
	Bins    []float64 `json:"bins"`
	Windows int       `json:"windows"` // windows that contributed energy
}

// Peak returns the strongest pitch class and its bin value.
func (c *Chromagram) Peak() (int, float64) {
	idx := common.MaxIndex(c.Bins)
	if idx < 0 {
		return 0, 0.0
	}
	return idx, c.Bins[idx]
}

// ChromagramBuilder accumulates per-window pitch detections into a
// chromagram. Pitch detection is an autocorrelation search for the
// dominant period, mirroring the tempo search at audio rate.
type ChromagramBuilder struct {
	params ChromagramParams
}

// NewChromagramBuilder creates a builder with default parameters
func NewChromagramBuilder() *ChromagramBuilder {
	return NewChromagramBuilderWithParams(DefaultChromagramParams())
}

// NewChromagramBuilderWithParams creates a builder with custom
// parameters
func NewChromagramBuilderWithParams(params ChromagramParams) *ChromagramBuilder {
	return &ChromagramBuilder{params: params}
}

// Compute builds the chromagram of a mono signal. Windows whose best
// autocorrelation stays below the noise floor are skipped; a signal
// with no tonal content yields an all-zero chromagram.
func (cb *ChromagramBuilder) Compute(signal []float64, sampleRate int) *Chromagram {
	gram := &Chromagram{Bins: make([]float64, NumPitchClasses)}

	windowSize := int(math.Round(float64(sampleRate) * cb.params.WindowSeconds))
	if windowSize <= 0 || len(signal) < windowSize {
		return gram
	}

	n := len(signal)
	if cb.params.MaxAnalysisSeconds > 0 {
		if limit := int(cb.params.MaxAnalysisSeconds * float64(sampleRate)); n > limit {
			n = limit
		}
	}

	minLag := int(math.Round(float64(sampleRate) / cb.params.MaxFrequency))
	maxLag := int(math.Round(float64(sampleRate) / cb.params.MinFrequency))

	numWindows := n / windowSize
	for i := 0; i < numWindows; i++ {
		start := i * windowSize
		window := common.RemoveMean(signal[start : start+windowSize])

		lag, score := stats.PeakLag(window, minLag, maxLag)
		if lag == 0 || score < cb.params.NoiseFloor {
			continue
		}
		lag = cb.fundamentalLag(window, lag, score, minLag)

		freq := float64(sampleRate) / float64(lag)
		gram.Bins[PitchClassForFrequency(freq)] += score
		gram.Windows++
	}

	common.NormalizeSum(gram.Bins)
	return gram
}

// fundamentalLag folds a peak lag back to its shortest integer divisor
// whose autocorrelation stays within HarmonicTolerance of the peak.
// A periodic signal correlates with itself at every multiple of its
// period, and phase quantization can rank a multiple slightly above
// the fundamental, which would bin the window a subharmonic down.
func (cb *ChromagramBuilder) fundamentalLag(window []float64, lag int, score float64, minLag int) int {
	if minLag < 1 {
		minLag = 1
	}
	for divisor := lag / minLag; divisor >= 2; divisor-- {
		folded := int(math.Round(float64(lag) / float64(divisor)))
		if folded < minLag {
			continue
		}
		if stats.AutoLagProduct(window, folded, 0) >= cb.params.HarmonicTolerance*score {
			return folded
		}
	}
	return lag
}
