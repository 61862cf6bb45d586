package temporal

import (
	"sort"

	"github.com/goccmack/godsp"
	"github.com/goccmack/godsp/peaks"
)

// DefaultBeatSeparationSeconds is the minimum spacing between detected
// beats when no tempo estimate is available (250 ms, i.e. 240 BPM).
const DefaultBeatSeparationSeconds = 0.25

// BeatGrid locates individual beat positions by peak-picking the onset
// series. The grid is enrichment on top of the global BPM estimate: a
// caller can use it to snap edits onto beats.
type BeatGrid struct{}

// NewBeatGrid creates a beat grid extractor.
func NewBeatGrid() *BeatGrid {
	return &BeatGrid{}
}

// Extract returns beat offsets in seconds from the start of the
// analyzed audio, ascending. The bpm argument sets the minimum peak
// separation at three quarters of a beat period; pass 0 to fall back to
// DefaultBeatSeparationSeconds.
func (bg *BeatGrid) Extract(env *EnergyEnvelope, onsets []float64, bpm int) []float64 {
	if env == nil || len(onsets) == 0 {
		return []float64{}
	}

	rate := env.Rate()
	if rate <= 0 {
		return []float64{}
	}

	avg := godsp.Average(onsets)
	if avg <= 0 {
		// No rising energy anywhere: nothing to pick.
		return []float64{}
	}
	normalized := godsp.DivS(append([]float64(nil), onsets...), avg)

	sep := int(DefaultBeatSeparationSeconds * rate)
	if bpm > 0 {
		sep = int(0.75 * 60.0 * rate / float64(bpm))
	}
	if sep < 1 {
		sep = 1
	}

	frames := peaks.Get(normalized, sep)
	sort.Ints(frames)

	beats := make([]float64, len(frames))
	for i, frame := range frames {
		beats[i] = float64(frame) / rate
	}
	return beats
}
