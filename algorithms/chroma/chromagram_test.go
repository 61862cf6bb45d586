package chroma

import (
	"math"
	"testing"
)

func TestPitchClassForFrequency(t *testing.T) {
	cases := []struct {
		name string
		freq float64
		want int
	}{
		{"A4", 440.0, 9},
		{"A5", 880.0, 9},
		{"A3", 220.0, 9},
		{"middle C", 261.63, 0},
		{"E5", 659.26, 4},
		{"non-positive", 0, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := PitchClassForFrequency(c.freq); got != c.want {
				t.Errorf("want %d (%s), got %d (%s)",
					c.want, PitchClassName(c.want), got, PitchClassName(got))
			}
		})
	}
}

func TestPitchClassName(t *testing.T) {
	if got := PitchClassName(9); got != "A" {
		t.Errorf("want A, got %s", got)
	}
	if got := PitchClassName(-3); got != "A" {
		t.Errorf("negative classes must wrap, want A, got %s", got)
	}
}

func TestComputeSingleTone(t *testing.T) {
	const sampleRate = 8000
	signal := make([]float64, 2*sampleRate)
	for i := range signal {
		signal[i] = 0.8 * math.Sin(2*math.Pi*440.0*float64(i)/sampleRate)
	}

	gram := NewChromagramBuilder().Compute(signal, sampleRate)

	peakClass, peakValue := gram.Peak()
	if peakClass != 9 {
		t.Errorf("440 Hz tone: want peak at A (9), got %d (%s)", peakClass, PitchClassName(peakClass))
	}
	if peakValue <= 0.5 {
		t.Errorf("a single sustained tone must dominate its bin, got peak %v", peakValue)
	}

	total := 0.0
	for _, b := range gram.Bins {
		if b < 0 {
			t.Fatalf("bins must be non-negative, got %v", b)
		}
		total += b
	}
	if math.Abs(total-1.0) > 1e-9 {
		t.Errorf("bins must sum to 1, got %v", total)
	}
	if gram.Windows == 0 {
		t.Error("want contributing windows for a sustained tone")
	}
}

func TestComputePitchedTones(t *testing.T) {
	// Autocorrelation also peaks at integer multiples of the true
	// period, and phase quantization can rank a multiple above the
	// fundamental. The builder must fold such peaks back down instead
	// of binning a subharmonic.
	cases := []struct {
		name string
		freq float64
		want int
	}{
		{"A4", 440.0, 9},
		{"C4", 261.63, 0},
		{"E5", 659.26, 4},
		{"A5", 880.0, 9},
	}

	const sampleRate = 8000
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			signal := make([]float64, sampleRate)
			for i := range signal {
				signal[i] = 0.8 * math.Sin(2*math.Pi*c.freq*float64(i)/sampleRate)
			}

			gram := NewChromagramBuilder().Compute(signal, sampleRate)
			peakClass, _ := gram.Peak()
			if peakClass != c.want {
				t.Errorf("%v Hz: want peak at %s (%d), got %s (%d)",
					c.freq, PitchClassName(c.want), c.want, PitchClassName(peakClass), peakClass)
			}
		})
	}
}

func TestComputeSilence(t *testing.T) {
	gram := NewChromagramBuilder().Compute(make([]float64, 16000), 8000)

	for i, b := range gram.Bins {
		if b != 0 {
			t.Errorf("silence must keep bin %d at 0, got %v", i, b)
		}
	}
	if gram.Windows != 0 {
		t.Errorf("silence must contribute no windows, got %d", gram.Windows)
	}
}

func TestComputeDegenerateInput(t *testing.T) {
	gram := NewChromagramBuilder().Compute(nil, 44100)
	if len(gram.Bins) != NumPitchClasses {
		t.Fatalf("want %d bins, got %d", NumPitchClasses, len(gram.Bins))
	}
	if _, peak := gram.Peak(); peak != 0 {
		t.Errorf("empty signal must stay all-zero, got peak %v", peak)
	}
}

func TestComputeAnalysisCap(t *testing.T) {
	const sampleRate = 8000
	// Identical for the first 2 seconds, arbitrary afterwards.
	base := make([]float64, 4*sampleRate)
	for i := 0; i < 2*sampleRate; i++ {
		base[i] = 0.8 * math.Sin(2*math.Pi*440.0*float64(i)/sampleRate)
	}
	other := append([]float64(nil), base...)
	for i := 2 * sampleRate; i < len(other); i++ {
		other[i] = 0.8 * math.Sin(2*math.Pi*523.25*float64(i)/sampleRate)
	}

	params := DefaultChromagramParams()
	params.MaxAnalysisSeconds = 2.0
	builder := NewChromagramBuilderWithParams(params)

	a := builder.Compute(base, sampleRate)
	b := builder.Compute(other, sampleRate)
	for i := range a.Bins {
		if a.Bins[i] != b.Bins[i] {
			t.Fatalf("bin %d differs across the cap boundary: %v vs %v", i, a.Bins[i], b.Bins[i])
		}
	}
}
