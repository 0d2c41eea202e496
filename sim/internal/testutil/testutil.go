// Package testutil provides shared test infrastructure for the league
// simulator. It has no dependency on sim/ so every package's tests can use it.
package testutil

import (
	"math"
	"math/rand"
	"testing"
)

// NewRNG returns a math/rand stream with a fixed seed.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// BinomialTolerance returns k standard deviations of a Binomial(n, p) count,
// for statistical assertions on simulated outcomes.
func BinomialTolerance(n int, p, k float64) float64 {
	return k * math.Sqrt(float64(n)*p*(1-p))
}
