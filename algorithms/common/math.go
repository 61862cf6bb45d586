package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Basic statistical helpers shared across algorithms, backed by gonum.

// Mean calculates the arithmetic mean of a slice using gonum
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// Sum calculates the sum of a slice using gonum
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Max returns the maximum value of a slice, 0 for empty input
func Max(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Max(data)
}

// MaxIndex returns the index of the maximum value. Ties resolve to the
// lowest index. Returns -1 for empty input.
func MaxIndex(data []float64) int {
	if len(data) == 0 {
		return -1
	}
	best := 0
	for i, v := range data {
		if v > data[best] {
			best = i
		}
	}
	return best
}

// RMS calculates root mean square
func RMS(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, val := range data {
		sumSquares += val * val
	}

	return math.Sqrt(sumSquares / float64(len(data)))
}

// RemoveMean returns a copy of data shifted to zero mean
func RemoveMean(data []float64) []float64 {
	if len(data) == 0 {
		return []float64{}
	}

	mean := Mean(data)
	centered := make([]float64, len(data))
	for i, val := range data {
		centered[i] = val - mean
	}
	return centered
}

// NormalizeSum scales data in place so it sums to 1. All-zero input is
// left untouched.
func NormalizeSum(data []float64) {
	total := Sum(data)
	if total <= 0 {
		return
	}
	floats.Scale(1.0/total, data)
}
