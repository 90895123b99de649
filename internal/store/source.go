package store

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// seedFunc returns a pseudo-random seed (override for deterministic tests).
var seedFunc = func() int64 { return time.Now().UnixNano() }

// SetSeedFunc overrides seed generation for deterministic testing.
func SetSeedFunc(f func() int64) { seedFunc = f }

// RealizationSource yields one terminal outcome of the external
// stochastic process per call. Implementations own all randomness; the
// sampler treats consecutive values as independent trials and never
// validates that independence.
type RealizationSource interface {
	Next() decimal.Decimal
}

// NormalSource draws realizations from a seeded normal distribution.
// It stands in for the external engine's equity-curve recalculation
// when the sampler runs against the in-memory store.
type NormalSource struct {
	Mean   float64
	StdDev float64
	rng    *rand.Rand
}

// NewNormalSource creates a normal source. A zero seed is replaced
// with a time-based one.
func NewNormalSource(mean, stdDev float64, seed int64) *NormalSource {
	if seed == 0 {
		seed = seedFunc()
	}
	return &NormalSource{
		Mean:   mean,
		StdDev: stdDev,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next normal variate.
func (s *NormalSource) Next() decimal.Decimal {
	return decimal.NewFromFloat(s.rng.NormFloat64()*s.StdDev + s.Mean)
}

// SequenceSource replays a fixed sequence of realizations, cycling
// when exhausted. Intended for tests and deterministic replays.
type SequenceSource struct {
	values []decimal.Decimal
	next   int
}

// NewSequenceSource creates a sequence source over the given values.
func NewSequenceSource(values ...decimal.Decimal) *SequenceSource {
	return &SequenceSource{values: values}
}

// Next returns the next value in the sequence, wrapping around at the
// end. An empty sequence yields zero.
func (s *SequenceSource) Next() decimal.Decimal {
	if len(s.values) == 0 {
		return decimal.Zero
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
