package temporal

import (
	"math"

	"github.com/groovemeter/groovemeter/algorithms/common"
	"github.com/groovemeter/groovemeter/algorithms/stats"
)

// TempoParams contains parameters for tempo estimation
type TempoParams struct {
	MinBPM float64 `json:"min_bpm"`
	MaxBPM float64 `json:"max_bpm"`

	// NoiseFloor is the minimum normalized correlation for a period to
	// become a candidate.
	NoiseFloor float64 `json:"noise_floor"`

	// MaxOverlapSeconds bounds the correlation overlap window.
	MaxOverlapSeconds float64 `json:"max_overlap_seconds"`

	// OnsetWeight scales how strongly the onset series emphasizes beat
	// attacks in the correlation.
	OnsetWeight float64 `json:"onset_weight"`

	// OctaveStrengthRatio is the relative strength a doubled or halved
	// candidate needs to displace the raw best candidate.
	OctaveStrengthRatio float64 `json:"octave_strength_ratio"`

	// OctaveBPMTolerance is the relative BPM distance within which a
	// candidate counts as the doubled or halved tempo.
	OctaveBPMTolerance float64 `json:"octave_bpm_tolerance"`
}

// DefaultTempoParams returns the default estimation parameters.
func DefaultTempoParams() TempoParams {
	return TempoParams{
		MinBPM:              60.0,
		MaxBPM:              200.0,
		NoiseFloor:          0.01,
		MaxOverlapSeconds:   2.0,
		OnsetWeight:         2.0,
		OctaveStrengthRatio: 0.7,
		OctaveBPMTolerance:  0.04,
	}
}

// TempoCandidate is a tempo hypothesis with its autocorrelation score.
type TempoCandidate struct {
	BPM      float64 `json:"bpm"`
	Strength float64 `json:"strength"`
}

// TempoResult contains the outcome of a tempo estimation
type TempoResult struct {
	BPM        int              `json:"bpm"`      // rounded estimate, 0 when not detected
	RawBPM     float64          `json:"raw_bpm"`  // estimate before rounding
	Strength   float64          `json:"strength"` // winning correlation score
	Detected   bool             `json:"detected"`
	Candidates []TempoCandidate `json:"candidates,omitempty"`
}

// TempoEstimator estimates a single global tempo from an energy
// envelope and its onset series.
type TempoEstimator struct {
	params TempoParams
}

// NewTempoEstimator creates a tempo estimator with default parameters
func NewTempoEstimator() *TempoEstimator {
	return NewTempoEstimatorWithParams(DefaultTempoParams())
}

// NewTempoEstimatorWithParams creates a tempo estimator with custom
// parameters
func NewTempoEstimatorWithParams(params TempoParams) *TempoEstimator {
	return &TempoEstimator{params: params}
}

// Estimate runs candidate generation and octave resolution over an
// envelope/onset pair. A nil or empty envelope, or one with no period
// above the noise floor, yields an undetected result.
func (te *TempoEstimator) Estimate(env *EnergyEnvelope, onsets []float64) TempoResult {
	candidates := te.Candidates(env, onsets)
	if len(candidates) == 0 {
		return TempoResult{}
	}

	best := te.ResolveOctave(candidates)
	return TempoResult{
		BPM:        int(math.Round(best.BPM)),
		RawBPM:     best.BPM,
		Strength:   best.Strength,
		Detected:   true,
		Candidates: candidates,
	}
}

// Candidates scores every integer period in the BPM range against the
// envelope, weighting positions by the onset series, and keeps the
// periods whose normalized correlation clears the noise floor. The
// envelope is centered and scaled to unit variance first, so the
// scores and the noise floor are independent of the signal level.
// Candidates are ordered by ascending period (descending BPM).
func (te *TempoEstimator) Candidates(env *EnergyEnvelope, onsets []float64) []TempoCandidate {
	if env == nil || len(env.Values) == 0 {
		return nil
	}

	rate := env.Rate()
	minPeriod := int(math.Ceil(60.0 * rate / te.params.MaxBPM))
	maxPeriod := int(math.Floor(60.0 * rate / te.params.MinBPM))
	if minPeriod < 1 {
		minPeriod = 1
	}
	if maxPeriod >= len(env.Values) {
		maxPeriod = len(env.Values) - 1
	}

	// A flat envelope has no periodicity to score.
	centered := common.RemoveMean(env.Values)
	sigma := common.RMS(centered)
	if sigma == 0 {
		return nil
	}

	normalized := make([]float64, len(centered))
	weighted := make([]float64, len(centered))
	for i, v := range centered {
		normalized[i] = v / sigma
		w := 1.0
		if i < len(onsets) {
			w += te.params.OnsetWeight * onsets[i]
		}
		weighted[i] = normalized[i] * w
	}

	maxOverlap := int(te.params.MaxOverlapSeconds * rate)

	var candidates []TempoCandidate
	for period := minPeriod; period <= maxPeriod; period++ {
		score := stats.LagProduct(weighted, normalized, period, maxOverlap)
		if score > te.params.NoiseFloor {
			candidates = append(candidates, TempoCandidate{
				BPM:      60.0 * rate / float64(period),
				Strength: score,
			})
		}
	}
	return candidates
}

// ResolveOctave picks the final tempo from a candidate list, correcting
// the common half-tempo and double-tempo failure modes. The strongest
// candidate wins unless its doubled BPM (or, above 120 BPM, its halved
// BPM) has a candidate of comparable strength nearby.
func (te *TempoEstimator) ResolveOctave(candidates []TempoCandidate) TempoCandidate {
	if len(candidates) == 0 {
		return TempoCandidate{}
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Strength > best.Strength {
			best = c
		}
	}

	if doubled := best.BPM * 2.0; doubled <= te.params.MaxBPM {
		if c, ok := te.nearestCandidate(candidates, doubled); ok &&
			c.Strength >= te.params.OctaveStrengthRatio*best.Strength {
			return c
		}
	}

	if best.BPM > 120.0 {
		if halved := best.BPM / 2.0; halved >= te.params.MinBPM {
			if c, ok := te.nearestCandidate(candidates, halved); ok &&
				c.Strength >= te.params.OctaveStrengthRatio*best.Strength {
				return c
			}
		}
	}

	return best
}

// nearestCandidate finds the strongest candidate within the relative
// BPM tolerance of target.
func (te *TempoEstimator) nearestCandidate(candidates []TempoCandidate, target float64) (TempoCandidate, bool) {
	var best TempoCandidate
	found := false
	for _, c := range candidates {
		if math.Abs(c.BPM-target) > te.params.OctaveBPMTolerance*target {
			continue
		}
		if !found || c.Strength > best.Strength {
			best, found = c, true
		}
	}
	return best, found
}
