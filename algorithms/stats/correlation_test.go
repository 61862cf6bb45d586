package stats

import (
	"math"
	"testing"
)

func TestLagProductBounds(t *testing.T) {
	sig := []float64{1, 0, 1, 0, 1, 0}

	if got := LagProduct(sig, sig, 0, 0); got != 0 {
		t.Errorf("lag 0 must return 0, got: %v", got)
	}
	if got := LagProduct(sig, sig, len(sig), 0); got != 0 {
		t.Errorf("lag beyond signal must return 0, got: %v", got)
	}
	if got := LagProduct(nil, nil, 1, 0); got != 0 {
		t.Errorf("empty signal must return 0, got: %v", got)
	}
}

func TestAutoLagProductPeriodic(t *testing.T) {
	// Impulse train with period 4: self-similarity at lag 4 beats lag 2.
	sig := make([]float64, 64)
	for i := 0; i < len(sig); i += 4 {
		sig[i] = 1.0
	}

	at4 := AutoLagProduct(sig, 4, 0)
	at2 := AutoLagProduct(sig, 2, 0)
	if at4 <= at2 {
		t.Errorf("lag 4 score (%v) must exceed lag 2 score (%v)", at4, at2)
	}
}

func TestAutoLagProductOverlapCap(t *testing.T) {
	sig := make([]float64, 100)
	for i := range sig {
		sig[i] = 1.0
	}

	capped := AutoLagProduct(sig, 10, 20)
	full := AutoLagProduct(sig, 10, 0)
	if math.Abs(capped-full) > 1e-12 {
		t.Errorf("constant signal: capped (%v) and full (%v) scores must agree", capped, full)
	}
}

func TestPeakLag(t *testing.T) {
	// Sine with period 20 samples.
	sig := make([]float64, 400)
	for i := range sig {
		sig[i] = math.Sin(2 * math.Pi * float64(i) / 20.0)
	}

	lag, score := PeakLag(sig, 10, 30)
	if lag != 20 {
		t.Errorf("want lag 20, got: %d (score %v)", lag, score)
	}
	if score <= 0 {
		t.Errorf("want positive score, got: %v", score)
	}

	if lag, score := PeakLag(nil, 1, 10); lag != 0 || score != 0 {
		t.Errorf("empty signal: want (0, 0), got (%d, %v)", lag, score)
	}
}
