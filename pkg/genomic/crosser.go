package genomic

import (
	"fmt"
	"math/rand"
)

// Crosser walks the paired chromosomes of two genomes during one Crossover
// call. It holds the traversal's exclusive random source, the swap plan
// producing per-field decisions, and the running count of visited fields.
// No rate lives at this layer: the per-field swap probability belongs to
// the chromosome (0.5 for built-ins) or to an installed CrossoverMethod.
type Crosser struct {
	rng     *rand.Rand
	plan    swapPlan
	visited int
	breach  error
}

func newCrosser(rng *rand.Rand, plan swapPlan) (*Crosser, error) {
	if rng == nil {
		return nil, fmt.Errorf("%w: random source is required", ErrConfiguration)
	}
	return &Crosser{rng: rng, plan: plan}, nil
}

// RNG exposes the traversal's random source for custom steps.
func (c *Crosser) RNG() *rand.Rand { return c.rng }

// Visited returns the number of chromosome fields visited so far.
func (c *Crosser) Visited() int { return c.visited }

func (c *Crosser) step() bool {
	c.visited++
	return c.plan.decide(c.rng)
}

// fail records the first contract breach seen mid-traversal; the driver
// surfaces it once the walk completes.
func (c *Crosser) fail(err error) {
	if c.breach == nil {
		c.breach = err
	}
}

// swapPlan produces the stream of per-field swap decisions for one
// crossover traversal.
type swapPlan interface {
	decide(rng *rand.Rand) bool
}

type uniformPlan struct{ p float64 }

func (u uniformPlan) decide(rng *rand.Rand) bool { return rng.Float64() < u.p }

type fixedPlan bool

func (f fixedPlan) decide(*rand.Rand) bool { return bool(f) }

// kpointPlan spreads a fixed number of crossover points over the genome's
// declared length; fields between an odd number of consumed points swap as
// a block. Each visit places a point with probability remaining-points /
// remaining-fields, which lands exactly the requested count when it fits.
type kpointPlan struct {
	length  int
	seen    int
	points  int
	crossed int
}

func (k *kpointPlan) decide(rng *rand.Rand) bool {
	remaining := k.length - k.seen
	k.seen++
	if remaining > 0 {
		p := float64(k.points) / float64(remaining)
		if p > 1 {
			p = 1
		}
		if rng.Float64() < p {
			k.points--
			k.crossed++
		}
	}
	return k.crossed%2 == 1
}

// CrossoverMethod selects how per-field swap decisions are produced during
// CrossoverWith. The zero value is unset and rejected; construct one with
// UniformCrossover or KPointCrossover.
type CrossoverMethod struct {
	kind   methodKind
	rate   float64
	points int
}

type methodKind int

const (
	methodUniform methodKind = iota + 1
	methodKPoint
)

// UniformCrossover swaps each field independently with probability rate/2.
// UniformCrossover(1) reproduces the default 50/50 plan exactly.
func UniformCrossover(rate float64) (CrossoverMethod, error) {
	if rate < 0 || rate > 1 {
		return CrossoverMethod{}, fmt.Errorf("%w: crossover rate %v outside [0, 1]", ErrConfiguration, rate)
	}
	return CrossoverMethod{kind: methodUniform, rate: rate}, nil
}

// KPointCrossover spreads points crossover points uniformly over the field
// positions. A count exceeding the genome's size degenerates to a point at
// every remaining field.
func KPointCrossover(points int) (CrossoverMethod, error) {
	if points < 1 {
		return CrossoverMethod{}, fmt.Errorf("%w: crossover point count %d below 1", ErrConfiguration, points)
	}
	return CrossoverMethod{kind: methodKPoint, points: points}, nil
}

func (cm CrossoverMethod) newPlan(length int) (swapPlan, error) {
	switch cm.kind {
	case methodUniform:
		return uniformPlan{p: cm.rate / 2}, nil
	case methodKPoint:
		return &kpointPlan{length: length, points: cm.points}, nil
	default:
		return nil, fmt.Errorf("%w: crossover method is unset", ErrConfiguration)
	}
}

// CrossValue visits one built-in chromosome pair, swapping the two values
// in place when the plan decides so. Any assignable type works; the swap
// never inspects the values.
func CrossValue[T any](c *Crosser, a, b *T) *Crosser {
	if c.step() {
		*a, *b = *b, *a
	}
	return c
}

// CrossChromosome visits one user-defined chromosome pair. The
// implementation decides the exchange internally with the traversal's
// random source.
func CrossChromosome[C Chromosome[C]](c *Crosser, a, b C) *Crosser {
	c.visited++
	a.Crossover(b, c.rng)
	return c
}

// CrossValues visits paired scalar slices element by element. A length
// mismatch between the two sides is a contract breach surfaced by the
// driver.
func CrossValues[T any](c *Crosser, as, bs []T) *Crosser {
	if len(as) != len(bs) {
		c.fail(fmt.Errorf("%w: paired slices of length %d and %d", ErrContract, len(as), len(bs)))
	}
	n := min(len(as), len(bs))
	for i := 0; i < n; i++ {
		CrossValue(c, &as[i], &bs[i])
	}
	return c
}

// CrossGenome descends into a nested genome pair.
func CrossGenome[G Genome[G]](c *Crosser, a, b G) *Crosser {
	a.Crossover(b, c)
	return c
}

// CrossSlice descends into paired element genomes in order. A length
// mismatch between the two sides is a contract breach surfaced by the
// driver.
func CrossSlice[G Genome[G]](c *Crosser, as, bs []G) *Crosser {
	if len(as) != len(bs) {
		c.fail(fmt.Errorf("%w: paired genome slices of length %d and %d", ErrContract, len(as), len(bs)))
	}
	n := min(len(as), len(bs))
	for i := 0; i < n; i++ {
		as[i].Crossover(bs[i], c)
	}
	return c
}

// CrossGroup draws one swap decision and pins it for every built-in step
// inside fn, so the grouped values move between the parents all-or-nothing.
// The group counts as a single field on the parent traversal; user-defined
// chromosomes inside keep their own policy.
func CrossGroup(c *Crosser, fn func(*Crosser)) *Crosser {
	c.visited++
	child := &Crosser{rng: c.rng, plan: fixedPlan(c.plan.decide(c.rng))}
	fn(child)
	if child.breach != nil {
		c.fail(child.breach)
	}
	return c
}
