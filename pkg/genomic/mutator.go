package genomic

import (
	"fmt"
	"math"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// Mutator walks a genome's declared chromosomes during one Mutate call. It
// holds the mutation rate, the traversal's exclusive random source and the
// running count of visited fields. Contexts are created by the drivers,
// used for a single traversal and discarded.
type Mutator struct {
	rate    float64
	rng     *rand.Rand
	visited int
}

func validateMutation(rate float64, rng *rand.Rand) error {
	if rng == nil {
		return fmt.Errorf("%w: random source is required", ErrConfiguration)
	}
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return fmt.Errorf("%w: mutation rate %v outside [0, 1]", ErrConfiguration, rate)
	}
	return nil
}

func newMutator(rate float64, rng *rand.Rand) (*Mutator, error) {
	if err := validateMutation(rate, rng); err != nil {
		return nil, err
	}
	return &Mutator{rate: rate, rng: rng}, nil
}

// Rate returns the mutation rate currently in effect.
func (m *Mutator) Rate() float64 { return m.rate }

// RNG exposes the traversal's random source for custom steps.
func (m *Mutator) RNG() *rand.Rand { return m.rng }

// Visited returns the number of chromosome fields visited so far.
func (m *Mutator) Visited() int { return m.visited }

// gate draws the per-field sample and reports whether mutation triggers.
// Exactly one draw per field, compared strictly, so rate 0 never triggers
// and rate 1 always does.
func (m *Mutator) gate() bool {
	m.visited++
	return m.rng.Float64() < m.rate
}

// MutateInt visits one integer chromosome. On trigger the value is replaced
// with one drawn uniformly across the type's full representable range: a
// uniform 64-bit draw truncated to the target width, which is uniform for
// every integer width, signed or unsigned.
func MutateInt[T constraints.Integer](m *Mutator, v *T) *Mutator {
	if m.gate() {
		*v = T(m.rng.Uint64())
	}
	return m
}

// MutateBool visits one bool chromosome. On trigger the value is replaced
// with a uniformly random bool.
func MutateBool(m *Mutator, v *bool) *Mutator {
	if m.gate() {
		*v = m.rng.Intn(2) == 1
	}
	return m
}

// MutateChromosome visits one user-defined chromosome. On trigger the
// value's own Mutate runs with the traversal's random source.
func MutateChromosome[C Chromosome[C]](m *Mutator, ch C) *Mutator {
	if m.gate() {
		ch.Mutate(m.rng)
	}
	return m
}

// MutateWith visits one chromosome through a caller-supplied strategy. On
// trigger the strategy's result replaces the value. This is the only
// mutation path for types without a built-in default, floats in particular.
func MutateWith[T any](m *Mutator, s Strategy[T], v *T) *Mutator {
	if m.gate() {
		*v = s.Apply(*v, m.rng)
	}
	return m
}

// MutateReorder visits a slice as a single order-bearing chromosome. On
// trigger two distinct positions are swapped, preserving the multiset of
// elements. Slices shorter than two elements pass through unchanged.
func MutateReorder[T any](m *Mutator, vs []T) *Mutator {
	if m.gate() && len(vs) > 1 {
		i := m.rng.Intn(len(vs))
		j := m.rng.Intn(len(vs) - 1)
		if j >= i {
			j++
		}
		vs[i], vs[j] = vs[j], vs[i]
	}
	return m
}

// MutateInts visits each element of an integer slice as its own chromosome.
func MutateInts[T constraints.Integer](m *Mutator, vs []T) *Mutator {
	for i := range vs {
		MutateInt(m, &vs[i])
	}
	return m
}

// MutateBools visits each element of a bool slice as its own chromosome.
func MutateBools(m *Mutator, vs []bool) *Mutator {
	for i := range vs {
		MutateBool(m, &vs[i])
	}
	return m
}

// MutateGenome descends into a nested genome. The sub-genome's fields count
// toward this traversal, so the parent's SizeHint must include the
// sub-genome's.
func MutateGenome[G Genome[G]](m *Mutator, sub G) *Mutator {
	sub.Mutate(m)
	return m
}

// MutateSlice descends into each element genome in order.
func MutateSlice[G Genome[G]](m *Mutator, items []G) *Mutator {
	for _, item := range items {
		item.Mutate(m)
	}
	return m
}

// MutateGroup visits several values as one declared chromosome: the group
// counts as a single field on this traversal and fn runs on a child context
// sharing the rate and random source. Use it to keep SizeHint aligned when
// the crossover side groups the same values with CrossGroup.
func MutateGroup(m *Mutator, fn func(*Mutator)) *Mutator {
	m.visited++
	child := &Mutator{rate: m.rate, rng: m.rng}
	fn(child)
	return m
}

// MutateScaled runs fn with the rate scaled by factor and clamped to
// [0, 1], restoring the previous rate afterwards. Fields visited inside
// count normally. It lets a genome damp or boost mutation for a sensitive
// region without a second traversal.
func MutateScaled(m *Mutator, factor float64, fn func(*Mutator)) *Mutator {
	prev := m.rate
	m.rate = prev * factor
	if m.rate > 1 {
		m.rate = 1
	}
	if m.rate < 0 || math.IsNaN(m.rate) {
		m.rate = 0
	}
	fn(m)
	m.rate = prev
	return m
}
