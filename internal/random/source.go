// Package random provides the seedable pseudo-random streams used by the
// simulation engines. Every engine takes a Source so tests can supply a
// fixed stream and runs can be replayed from their seed.
package random

import (
	"math"
	"math/rand/v2"
	"time"
)

// Source produces uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// New returns a PCG-backed source for the given seed and stream.
// Different streams of the same seed are independent of each other.
func New(seed, stream uint64) Source {
	return rand.New(rand.NewPCG(seed, stream))
}

// NewSeed draws a seed from the wall clock.
func NewSeed() uint64 {
	return uint64(time.Now().UnixNano())
}

// StandardNormal draws a standard-normal variate with the Box–Muller transform.
// u is redrawn while it is zero so ln(u) stays finite.
func StandardNormal(src Source) float64 {
	u := src.Float64()
	for u == 0 {
		u = src.Float64()
	}
	v := src.Float64()
	return math.Sqrt(-2*math.Log(u)) * math.Cos(2*math.Pi*v)
}

// Uniform draws a value in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Sequence replays a fixed list of uniforms, cycling when exhausted.
// It is meant for tests that need exact draws.
type Sequence struct {
	values []float64
	next   int
}

// NewSequence creates a Sequence over values.
func NewSequence(values ...float64) *Sequence {
	return &Sequence{values: values}
}

// Float64 returns the next value of the sequence.
func (s *Sequence) Float64() float64 {
	if len(s.values) == 0 {
		return 0.5
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// Draws reports how many values have been consumed.
func (s *Sequence) Draws() int {
	return s.next
}
