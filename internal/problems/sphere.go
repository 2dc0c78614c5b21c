package problems

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"genomic/pkg/genomic"
)

const (
	defaultDimensions = 8
	sphereLow         = -5.12
	sphereHigh        = 5.12
)

var sphere = Problem{
	Name:        "sphere",
	Description: "minimize the squared norm of a bounded real vector",
	Run:         runSphere,
}

// RealVector is a bounded real-valued genome. Sphere fitness is the
// negated squared norm, so the optimum sits at the origin with fitness 0.
type RealVector struct {
	Values []float64
	step   genomic.UniformFloat[float64]
}

func NewRealVector(n int, low, high float64, rng *rand.Rand) (*RealVector, error) {
	step, err := genomic.NewUniformFloat(low, high)
	if err != nil {
		return nil, err
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = low + rng.Float64()*(high-low)
	}
	return &RealVector{Values: values, step: step}, nil
}

func (v *RealVector) Mutate(m *genomic.Mutator) {
	for i := range v.Values {
		genomic.MutateWith(m, v.step, &v.Values[i])
	}
}

func (v *RealVector) Crossover(peer *RealVector, c *genomic.Crosser) {
	genomic.CrossValues(c, v.Values, peer.Values)
}

func (v *RealVector) SizeHint() int { return len(v.Values) }

func (v *RealVector) Clone() *RealVector {
	return &RealVector{Values: append([]float64(nil), v.Values...), step: v.step}
}

func (v *RealVector) SquaredNorm() float64 {
	total := 0.0
	for _, x := range v.Values {
		total += x * x
	}
	return total
}

func runSphere(ctx context.Context, spec Spec) (Outcome, error) {
	size := spec.Size
	if size <= 0 {
		size = defaultDimensions
	}

	// The bounds are fixed constants, so the strategy is built once and
	// shared by every genome.
	step, err := genomic.NewUniformFloat(sphereLow, sphereHigh)
	if err != nil {
		return Outcome{}, err
	}

	evaluator := engineEvaluator(func(v *RealVector) float64 {
		return -v.SquaredNorm()
	})

	seed := func(rng *rand.Rand) *RealVector {
		values := make([]float64, size)
		for i := range values {
			values[i] = sphereLow + rng.Float64()*(sphereHigh-sphereLow)
		}
		return &RealVector{Values: values, step: step}
	}

	return run(ctx, spec, seed, evaluator,
		func(v *RealVector) (string, json.RawMessage, error) {
			payload, err := json.Marshal(struct {
				Values []float64 `json:"values"`
				Norm   float64   `json:"squared_norm"`
			}{Values: v.Values, Norm: v.SquaredNorm()})
			return fmt.Sprint(v.Values), payload, err
		},
	)
}
