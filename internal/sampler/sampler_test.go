package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleWithinBounds(t *testing.T) {
	s := New(42, 1/0.6931471805599453)
	for i := 0; i < 10000; i++ {
		l := s.Sample()
		assert.GreaterOrEqual(t, l, 0)
		assert.LessOrEqual(t, l, MaxLayer)
	}
}

func TestSampleDeterministicForSeed(t *testing.T) {
	a := New(7, 1.4426950408889634)
	b := New(7, 1.4426950408889634)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Sample(), b.Sample())
	}
}

func TestSampleDistributionSkewsLow(t *testing.T) {
	s := New(1, 1.4426950408889634)
	zeros := 0
	const n = 5000
	for i := 0; i < n; i++ {
		if s.Sample() == 0 {
			zeros++
		}
	}
	// With ml = 1/ln 2 a draw lands on layer 0 exactly when r > 1/2, so
	// about half of all samples are layer 0, more than any other layer.
	assert.InDelta(t, n/2, zeros, 0.05*n)
}
