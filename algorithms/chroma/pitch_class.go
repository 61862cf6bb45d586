package chroma

import (
	"math"
)

// NumPitchClasses is the number of pitch classes in the chromatic scale.
const NumPitchClasses = 12

// ReferenceA4 is the tuning reference in Hz.
const ReferenceA4 = 440.0

// C0 is the frequency of pitch class 0 in the lowest octave,
// 4.75 octaves below A4 (~16.35 Hz).
var C0 = ReferenceA4 * math.Pow(2, -4.75)

var pitchClassNames = [NumPitchClasses]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// PitchClassName returns the note name for a pitch class (0=C ... 11=B).
func PitchClassName(class int) string {
	return pitchClassNames[((class%NumPitchClasses)+NumPitchClasses)%NumPitchClasses]
}

// PitchClassForFrequency folds a frequency in Hz onto its pitch class,
// ignoring octave. Non-positive frequencies fold to 0.
func PitchClassForFrequency(freq float64) int {
	if freq <= 0 {
		return 0
	}

	semitones := int(math.Round(NumPitchClasses * math.Log2(freq/C0)))
	return ((semitones % NumPitchClasses) + NumPitchClasses) % NumPitchClasses
}
