package temporal

import (
	"sort"
	"testing"
)

func TestBeatGridExtract(t *testing.T) {
	rate := 44100.0 / 1014.0
	length := int(10.0 * rate)
	period := 60.0 * rate / 120.0

	env := impulseEnvelope(length, period)
	onsets := NewOnsetDetector().Detect(env, nil)

	beats := NewBeatGrid().Extract(env, onsets, 120)
	if len(beats) == 0 {
		t.Fatal("want at least one beat from a clean impulse train")
	}
	if !sort.Float64sAreSorted(beats) {
		t.Error("beat offsets must be ascending")
	}
	for _, b := range beats {
		if b < 0 || b > env.Duration() {
			t.Errorf("beat offset %v outside analyzed span [0, %v]", b, env.Duration())
		}
	}
}

func TestBeatGridSilence(t *testing.T) {
	env := &EnergyEnvelope{
		Values:     make([]float64, 200),
		WindowSize: 1014,
		SampleRate: 44100,
	}
	onsets := NewOnsetDetector().Detect(env, nil)

	beats := NewBeatGrid().Extract(env, onsets, 0)
	if len(beats) != 0 {
		t.Errorf("silence must yield no beats, got %d", len(beats))
	}
}

func TestBeatGridEmpty(t *testing.T) {
	if beats := NewBeatGrid().Extract(&EnergyEnvelope{}, nil, 120); len(beats) != 0 {
		t.Errorf("want no beats, got %d", len(beats))
	}
}
