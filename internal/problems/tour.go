package problems

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"genomic/pkg/genomic"
)

const defaultCityCount = 16

var tour = Problem{
	Name:        "tour",
	Description: "order a fixed set of cities into the shortest closed tour",
	Run:         runTour,
}

// Tour is a permutation genome over a fixed city layout. The whole order
// is one chromosome: mutation swaps two positions, crossover exchanges
// complete orders, so every genome stays a permutation.
type Tour struct {
	Order []int
}

func NewTour(n int, rng *rand.Rand) *Tour {
	return &Tour{Order: rng.Perm(n)}
}

func (t *Tour) Mutate(m *genomic.Mutator) {
	genomic.MutateReorder(m, t.Order)
}

func (t *Tour) Crossover(peer *Tour, c *genomic.Crosser) {
	genomic.CrossValue(c, &t.Order, &peer.Order)
}

func (t *Tour) SizeHint() int { return 1 }

func (t *Tour) Clone() *Tour {
	return &Tour{Order: append([]int(nil), t.Order...)}
}

type city struct {
	X, Y float64
}

// layoutCities scatters n cities deterministically for a seed, so every
// genome in a run competes on the same map.
func layoutCities(n int, seed int64) []city {
	rng := rand.New(rand.NewSource(seed))
	cities := make([]city, n)
	for i := range cities {
		cities[i] = city{X: rng.Float64(), Y: rng.Float64()}
	}
	return cities
}

func tourLength(order []int, cities []city) float64 {
	total := 0.0
	for i, idx := range order {
		next := cities[order[(i+1)%len(order)]]
		current := cities[idx]
		total += math.Hypot(next.X-current.X, next.Y-current.Y)
	}
	return total
}

func runTour(ctx context.Context, spec Spec) (Outcome, error) {
	size := spec.Size
	if size <= 0 {
		size = defaultCityCount
	}
	if size < 2 {
		return Outcome{}, fmt.Errorf("tour needs at least 2 cities, got %d", size)
	}

	cities := layoutCities(size, spec.Seed)

	evaluator := engineEvaluator(func(t *Tour) float64 {
		return -tourLength(t.Order, cities)
	})

	seed := func(rng *rand.Rand) *Tour {
		return NewTour(size, rng)
	}

	return run(ctx, spec, seed, evaluator,
		func(t *Tour) (string, json.RawMessage, error) {
			payload, err := json.Marshal(struct {
				Order  []int   `json:"order"`
				Length float64 `json:"length"`
			}{Order: t.Order, Length: tourLength(t.Order, cities)})
			return fmt.Sprint(t.Order), payload, err
		},
	)
}
