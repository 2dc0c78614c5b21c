package genomic

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Strategy resamples a single bounded value during mutation. Apply must be
// pure given its inputs: no state beyond the strategy's own parameters, no
// randomness beyond rng.
type Strategy[T any] interface {
	Apply(current T, rng *rand.Rand) T
}

// UniformInt resamples an integer uniformly from the inclusive range
// [Low, High], independent of the current value.
type UniformInt[T constraints.Integer] struct {
	low, high T
}

// NewUniformInt returns a bounded-uniform integer strategy. Bounds with
// low > high fail with ErrConfiguration.
func NewUniformInt[T constraints.Integer](low, high T) (UniformInt[T], error) {
	if low > high {
		return UniformInt[T]{}, fmt.Errorf("%w: uniform bounds %v > %v", ErrConfiguration, low, high)
	}
	return UniformInt[T]{low: low, high: high}, nil
}

func (s UniformInt[T]) Apply(_ T, rng *rand.Rand) T {
	span := uint64(s.high) - uint64(s.low)
	if span == ^uint64(0) {
		return T(rng.Uint64())
	}
	return T(uint64(s.low) + uniformUint64n(rng, span+1))
}

// UniformFloat resamples a float uniformly from [Low, High], independent of
// the current value. Mutation through it is replacement, not drift.
type UniformFloat[T constraints.Float] struct {
	low, high T
}

// NewUniformFloat returns a bounded-uniform float strategy. Bounds with
// low > high fail with ErrConfiguration.
func NewUniformFloat[T constraints.Float](low, high T) (UniformFloat[T], error) {
	if low > high {
		return UniformFloat[T]{}, fmt.Errorf("%w: uniform bounds %v > %v", ErrConfiguration, low, high)
	}
	return UniformFloat[T]{low: low, high: high}, nil
}

func (s UniformFloat[T]) Apply(_ T, rng *rand.Rand) T {
	return s.low + T(rng.Float64())*(s.high-s.low)
}

// FixedBits randomizes only the low Bits bits of the current value, leaving
// the rest untouched. Useful when a value's high bits carry structure that
// mutation must not destroy.
type FixedBits[T constraints.Integer] struct {
	bits int
}

// NewFixedBits returns a partial-width integer strategy. bits outside
// [1, bit width of T] fails with ErrConfiguration.
func NewFixedBits[T constraints.Integer](bits int) (FixedBits[T], error) {
	if w := bitWidth[T](); bits < 1 || bits > w {
		return FixedBits[T]{}, fmt.Errorf("%w: bit count %d outside [1, %d]", ErrConfiguration, bits, w)
	}
	return FixedBits[T]{bits: bits}, nil
}

func (s FixedBits[T]) Apply(current T, rng *rand.Rand) T {
	mask := ^uint64(0)
	if s.bits < 64 {
		mask = uint64(1)<<s.bits - 1
	}
	return T(uint64(current)&^mask | rng.Uint64()&mask)
}

// bitWidth reports the width of T in bits. The shift loop terminates for
// signed types too: the set bit reaches the sign position and then shifts
// out entirely.
func bitWidth[T constraints.Integer]() int {
	w := 0
	for v := T(1); v != 0; v <<= 1 {
		w++
	}
	return w
}

// uniformUint64n draws a uniform value in [0, n) without modulo bias.
// n must be nonzero.
func uniformUint64n(rng *rand.Rand, n uint64) uint64 {
	if n&(n-1) == 0 {
		return rng.Uint64() & (n - 1)
	}
	limit := ^uint64(0) - ^uint64(0)%n
	for {
		v := rng.Uint64()
		if v < limit {
			return v % n
		}
	}
}
