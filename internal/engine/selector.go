package engine

import (
	"fmt"
	"math/rand"
)

// Selector chooses parents from ranked genomes for replication. The ranked
// slice is sorted best-first before any selector sees it.
type Selector[G any] interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []Scored[G], eliteCount int) (G, error)
}

// NewSelector resolves a selector by name. An empty name picks the
// tournament selector.
func NewSelector[G any](name string) (Selector[G], error) {
	switch name {
	case "", "tournament":
		return TournamentSelector[G]{}, nil
	case "elite":
		return EliteSelector[G]{}, nil
	case "rank":
		return RankSelector[G]{}, nil
	default:
		return nil, fmt.Errorf("unknown selector: %s", name)
	}
}

// EliteSelector picks uniformly from the top elite set.
type EliteSelector[G any] struct{}

func (EliteSelector[G]) Name() string {
	return "elite"
}

func (EliteSelector[G]) PickParent(rng *rand.Rand, ranked []Scored[G], eliteCount int) (G, error) {
	var zero G
	if rng == nil {
		return zero, fmt.Errorf("random source is required")
	}
	if eliteCount <= 0 || eliteCount > len(ranked) {
		return zero, fmt.Errorf("invalid elite count: %d", eliteCount)
	}
	return ranked[rng.Intn(eliteCount)].Genome, nil
}

// TournamentSelector samples candidates and picks the best fitness among them.
type TournamentSelector[G any] struct {
	PoolSize       int
	TournamentSize int
}

func (TournamentSelector[G]) Name() string {
	return "tournament"
}

func (s TournamentSelector[G]) PickParent(rng *rand.Rand, ranked []Scored[G], eliteCount int) (G, error) {
	var zero G
	if rng == nil {
		return zero, fmt.Errorf("random source is required")
	}
	if eliteCount <= 0 || eliteCount > len(ranked) {
		return zero, fmt.Errorf("invalid elite count: %d", eliteCount)
	}

	poolSize := s.PoolSize
	if poolSize <= 0 {
		poolSize = eliteCount * 2
	}
	if poolSize < eliteCount {
		poolSize = eliteCount
	}
	if poolSize > len(ranked) {
		poolSize = len(ranked)
	}

	tournamentSize := s.TournamentSize
	if tournamentSize <= 0 {
		tournamentSize = 3
	}
	if tournamentSize > poolSize {
		tournamentSize = poolSize
	}

	best := ranked[rng.Intn(poolSize)]
	for i := 1; i < tournamentSize; i++ {
		candidate := ranked[rng.Intn(poolSize)]
		if candidate.Fitness > best.Fitness {
			best = candidate
		}
	}
	return best.Genome, nil
}

// RankSelector weights parents linearly by rank, favoring the front of the
// ranked slice without starving the tail.
type RankSelector[G any] struct{}

func (RankSelector[G]) Name() string {
	return "rank"
}

func (RankSelector[G]) PickParent(rng *rand.Rand, ranked []Scored[G], eliteCount int) (G, error) {
	var zero G
	if rng == nil {
		return zero, fmt.Errorf("random source is required")
	}
	if eliteCount <= 0 || eliteCount > len(ranked) {
		return zero, fmt.Errorf("invalid elite count: %d", eliteCount)
	}

	n := len(ranked)
	draw := rng.Intn(n * (n + 1) / 2)
	for i := 0; i < n; i++ {
		draw -= n - i
		if draw < 0 {
			return ranked[i].Genome, nil
		}
	}
	return ranked[n-1].Genome, nil
}
