package problems

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"

	"genomic/pkg/genomic"
)

const defaultBitCount = 64

var onemax = Problem{
	Name:        "onemax",
	Description: "maximize the number of set bits in a fixed-width bit string",
	Run:         runOneMax,
}

// BitString is the classic onemax genome.
type BitString struct {
	Bits []bool
}

func NewBitString(n int, rng *rand.Rand) *BitString {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = rng.Intn(2) == 1
	}
	return &BitString{Bits: bits}
}

func (b *BitString) Mutate(m *genomic.Mutator) {
	genomic.MutateBools(m, b.Bits)
}

func (b *BitString) Crossover(peer *BitString, c *genomic.Crosser) {
	genomic.CrossValues(c, b.Bits, peer.Bits)
}

func (b *BitString) SizeHint() int { return len(b.Bits) }

func (b *BitString) Clone() *BitString {
	return &BitString{Bits: append([]bool(nil), b.Bits...)}
}

func (b *BitString) OnesCount() int {
	count := 0
	for _, bit := range b.Bits {
		if bit {
			count++
		}
	}
	return count
}

func (b *BitString) String() string {
	var sb strings.Builder
	sb.Grow(len(b.Bits))
	for _, bit := range b.Bits {
		if bit {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func runOneMax(ctx context.Context, spec Spec) (Outcome, error) {
	size := spec.Size
	if size <= 0 {
		size = defaultBitCount
	}

	evaluator := engineEvaluator(func(b *BitString) float64 {
		return float64(b.OnesCount())
	})

	return run(ctx, spec,
		func(rng *rand.Rand) *BitString { return NewBitString(size, rng) },
		evaluator,
		func(b *BitString) (string, json.RawMessage, error) {
			payload, err := json.Marshal(struct {
				Bits string `json:"bits"`
				Ones int    `json:"ones"`
			}{Bits: b.String(), Ones: b.OnesCount()})
			return b.String(), payload, err
		},
	)
}
