package genomic

import "math/rand"

// Genome is the capability of a composite individual. Implementations
// declare which of their fields are chromosomes by driving the traversal
// context through the package-level step functions, visiting the same
// fields in the same order on every call.
//
// G is the implementing type itself, normally a pointer:
//
//	type Pair struct{ Left, Right uint32 }
//
//	func (p *Pair) Mutate(m *genomic.Mutator) {
//		genomic.MutateInt(m, &p.Left)
//		genomic.MutateInt(m, &p.Right)
//	}
//
//	func (p *Pair) Crossover(peer *Pair, c *genomic.Crosser) {
//		genomic.CrossValue(c, &p.Left, &peer.Left)
//		genomic.CrossValue(c, &p.Right, &peer.Right)
//	}
//
//	func (p *Pair) SizeHint() int { return 2 }
//
// SizeHint must equal the number of chromosome steps each traversal makes;
// the drivers verify it and report ErrContract on a mismatch.
type Genome[G any] interface {
	Mutate(m *Mutator)
	Crossover(peer G, c *Crosser)
	SizeHint() int
}

// Cloner duplicates an individual. Reproduce and ReproducePair require it
// so offspring can be assembled without touching the parents.
type Cloner[G any] interface {
	Clone() G
}

// Chromosome is the capability of a single trainable value of a
// user-defined type. Built-in integer and bool chromosomes do not implement
// it; they are served directly by MutateInt, MutateBool and CrossValue.
//
// Mutate perturbs the receiver in place. Crossover has exclusive access to
// the receiver and a peer of the same type and decides internally whether
// (and how) to exchange material; built-in equivalents swap with
// probability 0.5. Side effects must stay confined to the two values.
type Chromosome[C any] interface {
	Mutate(rng *rand.Rand)
	Crossover(peer C, rng *rand.Rand)
}
