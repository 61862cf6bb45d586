package tonal

import (
	"testing"

	"github.com/groovemeter/groovemeter/algorithms/chroma"
	"github.com/groovemeter/groovemeter/algorithms/common"
)

func chromagramFromBins(bins []float64) *chroma.Chromagram {
	gram := &chroma.Chromagram{
		Bins:    append([]float64(nil), bins...),
		Windows: 1,
	}
	common.NormalizeSum(gram.Bins)
	return gram
}

func TestEstimateTriadChroma(t *testing.T) {
	// Tonic-weighted triads: the tonic bin carries twice the weight of
	// the third and fifth.
	cases := []struct {
		name  string
		tonic int
		third int
		fifth int
		mode  Mode
	}{
		{"C major", 0, 4, 7, ModeMajor},
		{"G major", 7, 11, 2, ModeMajor},
		{"A minor", 9, 0, 4, ModeMinor},
		{"C minor", 0, 3, 7, ModeMinor},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			bins := make([]float64, chroma.NumPitchClasses)
			bins[c.tonic] = 2.0
			bins[c.third] = 1.0
			bins[c.fifth] = 1.0

			result := NewKeyEstimator().Estimate(chromagramFromBins(bins))
			if !result.Detected {
				t.Fatal("want key detected")
			}
			if result.PitchClass != c.tonic || result.Mode != c.mode {
				t.Errorf("want %s, got %s", c.name, result.Name)
			}
			if result.Name != c.name {
				t.Errorf("want name %q, got %q", c.name, result.Name)
			}
			if len(result.Candidates) != 2*chroma.NumPitchClasses {
				t.Errorf("want 24 candidates, got %d", len(result.Candidates))
			}
		})
	}
}

func TestEstimateMinorProfileChroma(t *testing.T) {
	// A chromagram shaped like the rotated minor profile scores highest
	// against that profile at the matching tonic.
	for _, tonic := range []int{0, 6, 9} {
		bins := make([]float64, chroma.NumPitchClasses)
		for i := range bins {
			bins[i] = minorProfile[((i-tonic)%chroma.NumPitchClasses+chroma.NumPitchClasses)%chroma.NumPitchClasses]
		}

		result := NewKeyEstimator().Estimate(chromagramFromBins(bins))
		if !result.Detected {
			t.Fatalf("tonic %d: want key detected", tonic)
		}
		if result.PitchClass != tonic || result.Mode != ModeMinor {
			t.Errorf("want %s minor, got %s", chroma.PitchClassName(tonic), result.Name)
		}
	}
}

func TestEstimateSingleTone(t *testing.T) {
	// All energy at A. The tonic weight decides, and the major profile
	// edges out the minor one at the tonic (6.35 vs 6.33).
	bins := make([]float64, chroma.NumPitchClasses)
	bins[9] = 1.0

	result := NewKeyEstimator().Estimate(chromagramFromBins(bins))
	if !result.Detected {
		t.Fatal("want key detected")
	}
	if result.PitchClass != 9 || result.Mode != ModeMajor {
		t.Errorf("want A major, got %s", result.Name)
	}
}

func TestEstimateUniformChroma(t *testing.T) {
	// A flat chromagram scores every tonic of a mode identically; the
	// first-wins tie break makes the result C, and the minor profile's
	// larger total weight makes it minor. Runs twice to pin determinism.
	bins := make([]float64, chroma.NumPitchClasses)
	for i := range bins {
		bins[i] = 1.0
	}

	estimator := NewKeyEstimator()
	first := estimator.Estimate(chromagramFromBins(bins))
	second := estimator.Estimate(chromagramFromBins(bins))

	if !first.Detected {
		t.Fatal("want key detected")
	}
	if first.PitchClass != 0 || first.Mode != ModeMinor {
		t.Errorf("want C minor, got %s", first.Name)
	}
	if second.PitchClass != first.PitchClass || second.Mode != first.Mode {
		t.Error("estimation must be deterministic")
	}
}

func TestEstimateGatedChroma(t *testing.T) {
	t.Run("empty chromagram", func(t *testing.T) {
		result := NewKeyEstimator().Estimate(&chroma.Chromagram{
			Bins: make([]float64, chroma.NumPitchClasses),
		})
		if result.Detected {
			t.Error("all-zero chromagram must not detect a key")
		}
	})

	t.Run("nil chromagram", func(t *testing.T) {
		if result := NewKeyEstimator().Estimate(nil); result.Detected {
			t.Error("nil chromagram must not detect a key")
		}
	})

	t.Run("wrong bin count", func(t *testing.T) {
		result := NewKeyEstimator().Estimate(&chroma.Chromagram{Bins: []float64{1, 0, 0}})
		if result.Detected {
			t.Error("malformed chromagram must not detect a key")
		}
	})

	t.Run("peak below gate", func(t *testing.T) {
		bins := make([]float64, chroma.NumPitchClasses)
		bins[4] = 0.009
		result := NewKeyEstimator().Estimate(&chroma.Chromagram{Bins: bins})
		if result.Detected {
			t.Error("peak below the chroma gate must not detect a key")
		}
	})
}

func TestEstimateMinScoreThreshold(t *testing.T) {
	bins := make([]float64, chroma.NumPitchClasses)
	bins[9] = 1.0

	params := DefaultKeyParams()
	params.MinScore = 100.0
	result := NewKeyEstimatorWithParams(params).Estimate(chromagramFromBins(bins))

	if result.Detected {
		t.Error("score below MinScore must not detect a key")
	}
	if len(result.Candidates) != 2*chroma.NumPitchClasses {
		t.Errorf("undetected result must still carry candidates, got %d", len(result.Candidates))
	}
}

func TestRelativeKey(t *testing.T) {
	cases := []struct {
		pitchClass int
		mode       Mode
		wantClass  int
		wantMode   Mode
	}{
		{0, ModeMajor, 9, ModeMinor},  // C major -> A minor
		{9, ModeMinor, 0, ModeMajor},  // A minor -> C major
		{7, ModeMajor, 4, ModeMinor},  // G major -> E minor
		{2, ModeMinor, 5, ModeMajor},  // D minor -> F major
	}

	for _, c := range cases {
		gotClass, gotMode := RelativeKey(c.pitchClass, c.mode)
		if gotClass != c.wantClass || gotMode != c.wantMode {
			t.Errorf("RelativeKey(%s) = %s, want %s",
				KeyName(c.pitchClass, c.mode),
				KeyName(gotClass, gotMode),
				KeyName(c.wantClass, c.wantMode))
		}
	}
}

func TestKeyName(t *testing.T) {
	if got := KeyName(9, ModeMinor); got != "A minor" {
		t.Errorf("want A minor, got %q", got)
	}
	if got := KeyName(1, ModeMajor); got != "C# major" {
		t.Errorf("want C# major, got %q", got)
	}
}
