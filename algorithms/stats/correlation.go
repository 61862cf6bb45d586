package stats

// Lag-product correlation primitives shared by the tempo and pitch
// estimators. Both scan a bounded lag range of the same signal; the only
// difference is the time base (envelope frames vs audio samples).

// LagProduct computes the normalized product of x against y shifted by
// lag samples: sum(x[i]*y[i+lag]) / n, with i bounded by maxOverlap.
// A maxOverlap <= 0 means no bound. Degenerate input returns 0.
func LagProduct(x, y []float64, lag, maxOverlap int) float64 {
	if lag <= 0 || len(y) <= lag || len(x) == 0 {
		return 0.0
	}

	n := len(y) - lag
	if n > len(x) {
		n = len(x)
	}
	if maxOverlap > 0 && n > maxOverlap {
		n = maxOverlap
	}
	if n <= 0 {
		return 0.0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += x[i] * y[i+lag]
	}
	return sum / float64(n)
}

// AutoLagProduct computes the normalized self lag product of a signal.
func AutoLagProduct(signal []float64, lag, maxOverlap int) float64 {
	return LagProduct(signal, signal, lag, maxOverlap)
}

// PeakLag scans [minLag, maxLag] and returns the lag with the highest
// normalized self lag product along with its score. Ties resolve to the
// smallest lag. Returns (0, 0) when the range is empty or out of bounds.
func PeakLag(signal []float64, minLag, maxLag int) (int, float64) {
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(signal) {
		maxLag = len(signal) - 1
	}

	bestLag, bestScore := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		score := AutoLagProduct(signal, lag, 0)
		if score > bestScore {
			bestLag, bestScore = lag, score
		}
	}
	return bestLag, bestScore
}
