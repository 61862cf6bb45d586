package tonal

import (
	"gonum.org/v1/gonum/floats"

	"github.com/groovemeter/groovemeter/algorithms/chroma"
)

// Mode represents major or minor mode
type Mode int

const (
	ModeMajor Mode = iota
	ModeMinor
)

func (m Mode) String() string {
	if m == ModeMinor {
		return "minor"
	}
	return "major"
}

// Krumhansl-Schmuckler key profiles, empirically derived from listener
// ratings. Index 0 is the tonic. Never mutated.
var (
	majorProfile = [chroma.NumPitchClasses]float64{
		6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88,
	}
	minorProfile = [chroma.NumPitchClasses]float64{
		6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17,
	}
)

// KeyParams contains parameters for key estimation
type KeyParams struct {
	// MinChromaPeak gates estimation on the strongest chroma bin. A
	// chromagram whose peak stays below it counts as having no tonal
	// content.
	MinChromaPeak float64 `json:"min_chroma_peak"`

	// MinScore optionally gates the winning profile score. The default
	// of 0 keeps the permissive behavior of always reporting the best
	// guess for tonal input.
	MinScore float64 `json:"min_score"`
}

// DefaultKeyParams returns the default estimation parameters.
func DefaultKeyParams() KeyParams {
	return KeyParams{
		MinChromaPeak: 0.01,
		MinScore:      0.0,
	}
}

// KeyCandidate scores one (tonic, mode) pair against the chromagram.
type KeyCandidate struct {
	PitchClass int     `json:"pitch_class"`
	Mode       Mode    `json:"mode"`
	Score      float64 `json:"score"`
}

// KeyResult contains the outcome of a key estimation
type KeyResult struct {
	PitchClass int            `json:"pitch_class"`
	Mode       Mode           `json:"mode"`
	Name       string         `json:"name"` // e.g. "A minor"
	Score      float64        `json:"score"`
	Detected   bool           `json:"detected"`
	Candidates []KeyCandidate `json:"candidates,omitempty"`
}

// KeyEstimator estimates the musical key of a chromagram by profile
// matching.
type KeyEstimator struct {
	params KeyParams
}

// NewKeyEstimator creates a key estimator with default parameters
func NewKeyEstimator() *KeyEstimator {
	return NewKeyEstimatorWithParams(DefaultKeyParams())
}

// NewKeyEstimatorWithParams creates a key estimator with custom
// parameters
func NewKeyEstimatorWithParams(params KeyParams) *KeyEstimator {
	return &KeyEstimator{params: params}
}

// Estimate scores all 24 (tonic, mode) pairs against the chromagram
// and returns the best fit. Iteration order is tonic 0 through 11 with
// major before minor; ties keep the first encountered, which makes the
// result deterministic. An empty or gated chromagram yields an
// undetected result.
func (ke *KeyEstimator) Estimate(gram *chroma.Chromagram) KeyResult {
	if gram == nil || len(gram.Bins) != chroma.NumPitchClasses {
		return KeyResult{}
	}
	if _, peak := gram.Peak(); peak < ke.params.MinChromaPeak {
		return KeyResult{}
	}

	candidates := make([]KeyCandidate, 0, 2*chroma.NumPitchClasses)
	for tonic := 0; tonic < chroma.NumPitchClasses; tonic++ {
		rotated := rotateToTonic(gram.Bins, tonic)
		candidates = append(candidates,
			KeyCandidate{
				PitchClass: tonic,
				Mode:       ModeMajor,
				Score:      floats.Dot(rotated, majorProfile[:]),
			},
			KeyCandidate{
				PitchClass: tonic,
				Mode:       ModeMinor,
				Score:      floats.Dot(rotated, minorProfile[:]),
			})
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Score > best.Score {
			best = c
		}
	}

	if best.Score < ke.params.MinScore {
		return KeyResult{Candidates: candidates}
	}

	return KeyResult{
		PitchClass: best.PitchClass,
		Mode:       best.Mode,
		Name:       KeyName(best.PitchClass, best.Mode),
		Score:      best.Score,
		Detected:   true,
		Candidates: candidates,
	}
}

// rotateToTonic shifts the chromagram so the candidate tonic sits at
// index 0.
func rotateToTonic(bins []float64, tonic int) []float64 {
	rotated := make([]float64, chroma.NumPitchClasses)
	for i := range rotated {
		rotated[i] = bins[(i+tonic)%chroma.NumPitchClasses]
	}
	return rotated
}

// KeyName returns a human-readable key name, e.g. "C major".
func KeyName(pitchClass int, mode Mode) string {
	return chroma.PitchClassName(pitchClass) + " " + mode.String()
}

// RelativeKey returns the relative major or minor of a key.
func RelativeKey(pitchClass int, mode Mode) (int, Mode) {
	if mode == ModeMajor {
		return (pitchClass + 9) % chroma.NumPitchClasses, ModeMinor
	}
	return (pitchClass + 3) % chroma.NumPitchClasses, ModeMajor
}
