package temporal

import (
	"math"

	"github.com/groovemeter/groovemeter/algorithms/common"
)

const (
	// DefaultWindowSeconds is the duration of one envelope window (~23 ms).
	DefaultWindowSeconds = 0.023

	// DefaultMaxAnalysisSeconds caps how much audio the envelope covers.
	// Tempo and key are assumed globally stable within this span.
	DefaultMaxAnalysisSeconds = 30.0
)

// EnergyEnvelope is a coarse loudness curve: one RMS value per
// fixed-duration, non-overlapping window of the source signal.
type EnergyEnvelope struct {
	Values     []float64 `json:"values"`
	WindowSize int       `json:"window_size"` // samples per window
	SampleRate int       `json:"sample_rate"` // source rate in Hz
}

// Rate returns the envelope rate in windows per second.
func (e *EnergyEnvelope) Rate() float64 {
	if e.WindowSize <= 0 {
		return 0.0
	}
	return float64(e.SampleRate) / float64(e.WindowSize)
}

// Duration returns the analyzed duration in seconds.
func (e *EnergyEnvelope) Duration() float64 {
	if e.SampleRate <= 0 {
		return 0.0
	}
	return float64(len(e.Values)*e.WindowSize) / float64(e.SampleRate)
}

// Envelope builds energy envelopes from mono sample buffers.
type Envelope struct {
	windowSeconds float64
	maxSeconds    float64
}

// NewEnvelope creates an envelope builder with default window and cap.
func NewEnvelope() *Envelope {
	return NewEnvelopeWithParams(DefaultWindowSeconds, DefaultMaxAnalysisSeconds)
}

// NewEnvelopeWithParams creates an envelope builder with a custom window
// duration and analysis cap, both in seconds. A maxSeconds <= 0 disables
// the cap.
func NewEnvelopeWithParams(windowSeconds, maxSeconds float64) *Envelope {
	return &Envelope{
		windowSeconds: windowSeconds,
		maxSeconds:    maxSeconds,
	}
}

// ComputeRMS computes the RMS energy envelope of a mono signal. Windows
// never overlap; a trailing partial window is dropped. Signals shorter
// than one window produce an envelope with no values.
func (e *Envelope) ComputeRMS(signal []float64, sampleRate int) *EnergyEnvelope {
	windowSize := int(math.Round(float64(sampleRate) * e.windowSeconds))

	env := &EnergyEnvelope{
		Values:     []float64{},
		WindowSize: windowSize,
		SampleRate: sampleRate,
	}
	if windowSize <= 0 || len(signal) < windowSize {
		return env
	}

	n := len(signal)
	if e.maxSeconds > 0 {
		if limit := int(e.maxSeconds * float64(sampleRate)); n > limit {
			n = limit
		}
	}

	numWindows := n / windowSize
	env.Values = make([]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		start := i * windowSize
		env.Values[i] = common.RMS(signal[start : start+windowSize])
	}

	return env
}
