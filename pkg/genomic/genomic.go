package genomic

import (
	"fmt"
	"math/rand"
)

// Mutate walks genome's declared chromosomes once, mutating each
// independently with probability rate. The genome is modified in place.
// A rate outside [0, 1] or a nil rng fails with ErrConfiguration before
// any field is touched; a SizeHint mismatch fails with ErrContract once
// the walk completes.
func Mutate[G Genome[G]](g G, rate float64, rng *rand.Rand) error {
	m, err := newMutator(rate, rng)
	if err != nil {
		return err
	}
	g.Mutate(m)
	return checkArity("mutate", m.visited, g.SizeHint(), nil)
}

// Crossover walks the paired chromosomes of a and b once, exchanging
// material per field. Both genomes are modified in place and
// symmetrically: the per-field swap decision belongs to the chromosome
// layer, not to the side that initiated the call.
func Crossover[G Genome[G]](a, b G, rng *rand.Rand) error {
	return runCrossover(a, b, uniformPlan{p: 0.5}, rng)
}

// CrossoverWith is Crossover with the swap decisions produced by method
// instead of the default 50/50 plan.
func CrossoverWith[G Genome[G]](a, b G, method CrossoverMethod, rng *rand.Rand) error {
	plan, err := method.newPlan(a.SizeHint())
	if err != nil {
		return err
	}
	return runCrossover(a, b, plan, rng)
}

func runCrossover[G Genome[G]](a, b G, plan swapPlan, rng *rand.Rand) error {
	c, err := newCrosser(rng, plan)
	if err != nil {
		return err
	}
	if a.SizeHint() != b.SizeHint() {
		return fmt.Errorf("%w: crossover pairing genomes of size %d and %d", ErrContract, a.SizeHint(), b.SizeHint())
	}
	a.Crossover(b, c)
	return checkArity("crossover", c.visited, a.SizeHint(), c.breach)
}

// Reproduce builds one offspring from two parents: a is cloned, the clone
// exchanges material with a clone of b, and the result is mutated with
// rate. Neither parent is observably modified.
func Reproduce[G interface {
	Genome[G]
	Cloner[G]
}](a, b G, rate float64, rng *rand.Rand) (G, error) {
	var zero G
	if err := validateMutation(rate, rng); err != nil {
		return zero, err
	}
	child := a.Clone()
	mate := b.Clone()
	if err := Crossover(child, mate, rng); err != nil {
		return zero, err
	}
	if err := Mutate(child, rate, rng); err != nil {
		return zero, err
	}
	return child, nil
}

// ReproducePair builds two offspring, one seeded from each parent. Each
// child is mutated with its own random source derived from one draw of
// rng, so discarding either child leaves the other's outcome unchanged.
func ReproducePair[G interface {
	Genome[G]
	Cloner[G]
}](a, b G, rate float64, rng *rand.Rand) (G, G, error) {
	var zero G
	if err := validateMutation(rate, rng); err != nil {
		return zero, zero, err
	}
	left := a.Clone()
	right := b.Clone()
	if err := Crossover(left, right, rng); err != nil {
		return zero, zero, err
	}
	leftRNG := rand.New(rand.NewSource(rng.Int63()))
	rightRNG := rand.New(rand.NewSource(rng.Int63()))
	if err := Mutate(left, rate, leftRNG); err != nil {
		return zero, zero, err
	}
	if err := Mutate(right, rate, rightRNG); err != nil {
		return zero, zero, err
	}
	return left, right, nil
}

func checkArity(op string, visited, declared int, breach error) error {
	if breach != nil {
		return breach
	}
	if visited != declared {
		return fmt.Errorf("%w: %s visited %d of %d declared chromosomes", ErrContract, op, visited, declared)
	}
	return nil
}
