// Package analysis estimates the tempo and musical key of a decoded
// PCM buffer. The engine is pure and deterministic: identical input
// buffers always produce identical results, and no I/O happens inside.
package analysis

import (
	"sync"
	"time"

	"github.com/groovemeter/groovemeter/algorithms/chroma"
	"github.com/groovemeter/groovemeter/algorithms/temporal"
	"github.com/groovemeter/groovemeter/algorithms/tonal"
	"github.com/groovemeter/groovemeter/logging"
	"github.com/groovemeter/groovemeter/wav"
)

// Params holds configuration for the analyzer
type Params struct {
	// EnvelopeWindowSeconds is the energy envelope window (~23 ms).
	EnvelopeWindowSeconds float64 `json:"envelope_window_seconds"`

	// MaxAnalysisSeconds caps the tempo pipeline to the start of the
	// buffer. The key pipeline follows it unless
	// Chromagram.MaxAnalysisSeconds is set to a non-zero value of its
	// own.
	MaxAnalysisSeconds float64 `json:"max_analysis_seconds"`

	// OnsetMethod selects the onset series used for beat emphasis.
	OnsetMethod temporal.OnsetMethod `json:"onset_method"`

	// EnableBeatGrid adds individual beat positions to the result.
	EnableBeatGrid bool `json:"enable_beat_grid"`

	Tempo      temporal.TempoParams    `json:"tempo"`
	Chromagram chroma.ChromagramParams `json:"chromagram"`
	Key        tonal.KeyParams         `json:"key"`
}

// DefaultParams returns the default analyzer configuration.
func DefaultParams() Params {
	return Params{
		EnvelopeWindowSeconds: temporal.DefaultWindowSeconds,
		MaxAnalysisSeconds:    temporal.DefaultMaxAnalysisSeconds,
		OnsetMethod:           temporal.OnsetEnergy,
		EnableBeatGrid:        false,
		Tempo:                 temporal.DefaultTempoParams(),
		Chromagram:            chroma.DefaultChromagramParams(),
		Key:                   tonal.DefaultKeyParams(),
	}
}

// Key is a detected musical key.
type Key struct {
	PitchClass int        `json:"pitch_class"` // 0=C ... 11=B
	Mode       tonal.Mode `json:"mode"`
	Name       string     `json:"name"` // e.g. "A minor"
}

// Result is the combined outcome of one analysis. A BPM of 0 means the
// tempo is unknown; a nil Key means the key is unknown. Neither is an
// error: silence and degenerate input produce an all-unknown result.
type Result struct {
	BPM           int       `json:"bpm,omitempty"`
	TempoStrength float64   `json:"tempo_strength,omitempty"`
	Key           *Key      `json:"key,omitempty"`
	KeyScore      float64   `json:"key_score,omitempty"`
	Chroma        []float64 `json:"chroma,omitempty"`
	Beats         []float64 `json:"beats,omitempty"` // seconds, only with EnableBeatGrid

	SampleRate int           `json:"sample_rate"`
	Duration   time.Duration `json:"duration"`
}

// Analyzer runs the tempo and key pipelines over mono sample buffers.
// It holds no per-call state and is safe for concurrent use.
type Analyzer struct {
	params Params

	envelope *temporal.Envelope
	onsets   *temporal.OnsetDetector
	tempo    *temporal.TempoEstimator
	beats    *temporal.BeatGrid
	chroma   *chroma.ChromagramBuilder
	key      *tonal.KeyEstimator

	logger logging.Logger
}

// NewAnalyzer creates an analyzer with default parameters
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithParams(DefaultParams())
}

// NewAnalyzerWithParams creates an analyzer with custom parameters
func NewAnalyzerWithParams(params Params) *Analyzer {
	chromaParams := params.Chromagram
	if chromaParams.MaxAnalysisSeconds == 0 {
		chromaParams.MaxAnalysisSeconds = params.MaxAnalysisSeconds
	}

	return &Analyzer{
		params:   params,
		envelope: temporal.NewEnvelopeWithParams(params.EnvelopeWindowSeconds, params.MaxAnalysisSeconds),
		onsets:   temporal.NewOnsetDetectorWithMethod(params.OnsetMethod),
		tempo:    temporal.NewTempoEstimatorWithParams(params.Tempo),
		beats:    temporal.NewBeatGrid(),
		chroma:   chroma.NewChromagramBuilderWithParams(chromaParams),
		key:      tonal.NewKeyEstimatorWithParams(params.Key),
		logger: logging.WithFields(logging.Fields{
			"component": "analyzer",
		}),
	}
}

// Analyze estimates tempo and key for a mono buffer of normalized
// samples. The two pipelines read the same immutable buffer and write
// disjoint state, so they run concurrently and join before returning.
func (a *Analyzer) Analyze(samples []float64, sampleRate int) *Result {
	result := &Result{SampleRate: sampleRate}
	if len(samples) == 0 || sampleRate <= 0 {
		return result
	}
	result.Duration = time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second))

	start := time.Now()

	var (
		tempoResult temporal.TempoResult
		beats       []float64
		keyResult   tonal.KeyResult
		gram        *chroma.Chromagram
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		env := a.envelope.ComputeRMS(samples, sampleRate)
		onsets := a.onsets.Detect(env, samples)
		tempoResult = a.tempo.Estimate(env, onsets)
		if a.params.EnableBeatGrid {
			beats = a.beats.Extract(env, onsets, tempoResult.BPM)
		}
	}()

	go func() {
		defer wg.Done()
		gram = a.chroma.Compute(samples, sampleRate)
		keyResult = a.key.Estimate(gram)
	}()

	wg.Wait()

	if tempoResult.Detected {
		result.BPM = tempoResult.BPM
		result.TempoStrength = tempoResult.Strength
	}
	result.Beats = beats
	result.Chroma = gram.Bins
	if keyResult.Detected {
		result.Key = &Key{
			PitchClass: keyResult.PitchClass,
			Mode:       keyResult.Mode,
			Name:       keyResult.Name,
		}
		result.KeyScore = keyResult.Score
	}

	a.logger.Debug("analysis completed", logging.Fields{
		"duration_ms":      time.Since(start).Milliseconds(),
		"sample_rate":      sampleRate,
		"samples":          len(samples),
		"bpm":              result.BPM,
		"tempo_candidates": len(tempoResult.Candidates),
		"key":              keyName(result.Key),
		"chroma_windows":   gram.Windows,
	})

	return result
}

// AnalyzeWAV decodes a 16-bit PCM WAV buffer and analyzes it. Format
// and structural errors from the reader propagate to the caller.
func (a *Analyzer) AnalyzeWAV(data []byte) (*Result, error) {
	audio, err := wav.Decode(data)
	if err != nil {
		return nil, err
	}
	return a.Analyze(audio.PCM, audio.SampleRate), nil
}

func keyName(k *Key) string {
	if k == nil {
		return "unknown"
	}
	return k.Name
}
