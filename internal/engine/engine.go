package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"genomic/pkg/genomic"
)

// Evolvable is the genome contract the engine breeds against: traversal
// plus cloning.
type Evolvable[G any] interface {
	genomic.Genome[G]
	genomic.Cloner[G]
}

// Evaluator scores a genome. Implementations must be safe for concurrent
// use; the engine calls Evaluate from multiple workers.
type Evaluator[G any] interface {
	Evaluate(ctx context.Context, genome G) (float64, error)
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc[G any] func(ctx context.Context, genome G) (float64, error)

func (f EvaluatorFunc[G]) Evaluate(ctx context.Context, genome G) (float64, error) {
	return f(ctx, genome)
}

// Scored pairs a genome with its fitness for one generation.
type Scored[G any] struct {
	Genome  G
	Fitness float64
}

type Config[G any] struct {
	Evaluator        Evaluator[G]
	Selector         Selector[G]
	PopulationSize   int
	EliteCount       int
	Generations      int
	MutationRate     float64
	Workers          int
	Seed             int64
	FitnessGoal      float64
	StopAtGoal       bool
	EvaluationsLimit int
}

type Result[G any] struct {
	Best             G
	BestFitness      float64
	BestByGeneration []float64
	FinalPopulation  []Scored[G]
	Evaluations      int
	Generations      int
}

// Engine runs generational evolution over a fixed-size population.
type Engine[G Evolvable[G]] struct {
	cfg Config[G]
	rng *rand.Rand
}

func New[G Evolvable[G]](cfg Config[G]) (*Engine[G], error) {
	if cfg.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0")
	}
	if cfg.EliteCount <= 0 || cfg.EliteCount > cfg.PopulationSize {
		return nil, fmt.Errorf("elite count must be in [1, population size]")
	}
	if cfg.Generations <= 0 {
		return nil, fmt.Errorf("generations must be > 0")
	}
	if math.IsNaN(cfg.MutationRate) || cfg.MutationRate < 0 || cfg.MutationRate > 1 {
		return nil, fmt.Errorf("mutation rate %v outside [0, 1]", cfg.MutationRate)
	}
	if cfg.EvaluationsLimit < 0 {
		return nil, fmt.Errorf("evaluations limit must be >= 0")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Selector == nil {
		cfg.Selector = TournamentSelector[G]{}
	}

	return &Engine[G]{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Run evolves the initial population for the configured number of
// generations and reports the best genome seen across all of them.
// Evaluation is concurrent; selection and breeding draw from a single
// seeded source, so results are reproducible for a given seed.
func (e *Engine[G]) Run(ctx context.Context, initial []G) (Result[G], error) {
	if len(initial) != e.cfg.PopulationSize {
		return Result[G]{}, fmt.Errorf("initial population mismatch: got=%d want=%d", len(initial), e.cfg.PopulationSize)
	}

	population := make([]G, len(initial))
	copy(population, initial)

	bestHistory := make([]float64, 0, e.cfg.Generations)
	evaluations := 0

	var (
		best        G
		bestFitness = math.Inf(-1)
		scored      []Scored[G]
		generations int
	)

	for gen := 0; gen < e.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result[G]{}, err
		}

		var err error
		scored, err = e.evaluatePopulation(ctx, population)
		if err != nil {
			return Result[G]{}, err
		}
		evaluations += len(scored)

		sort.Slice(scored, func(i, j int) bool {
			return scored[i].Fitness > scored[j].Fitness
		})
		bestHistory = append(bestHistory, scored[0].Fitness)
		if scored[0].Fitness > bestFitness {
			best = scored[0].Genome.Clone()
			bestFitness = scored[0].Fitness
		}
		generations = gen + 1

		if e.cfg.StopAtGoal && bestFitness >= e.cfg.FitnessGoal {
			break
		}
		if e.cfg.EvaluationsLimit > 0 && evaluations >= e.cfg.EvaluationsLimit {
			break
		}
		if gen+1 == e.cfg.Generations {
			break
		}

		population, err = e.nextGeneration(ctx, scored)
		if err != nil {
			return Result[G]{}, err
		}
	}

	return Result[G]{
		Best:             best,
		BestFitness:      bestFitness,
		BestByGeneration: bestHistory,
		FinalPopulation:  scored,
		Evaluations:      evaluations,
		Generations:      generations,
	}, nil
}

func (e *Engine[G]) nextGeneration(ctx context.Context, ranked []Scored[G]) ([]G, error) {
	next := make([]G, 0, e.cfg.PopulationSize)

	for i := 0; i < e.cfg.EliteCount; i++ {
		next = append(next, ranked[i].Genome.Clone())
	}

	for len(next) < e.cfg.PopulationSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parentA, err := e.cfg.Selector.PickParent(e.rng, ranked, e.cfg.EliteCount)
		if err != nil {
			return nil, err
		}
		parentB, err := e.cfg.Selector.PickParent(e.rng, ranked, e.cfg.EliteCount)
		if err != nil {
			return nil, err
		}
		child, err := genomic.Reproduce(parentA, parentB, e.cfg.MutationRate, e.rng)
		if err != nil {
			return nil, err
		}
		next = append(next, child)
	}

	return next, nil
}

func (e *Engine[G]) evaluatePopulation(ctx context.Context, population []G) ([]Scored[G], error) {
	type job struct {
		idx    int
		genome G
	}
	type result struct {
		idx     int
		fitness float64
		err     error
	}

	jobs := make(chan job)
	results := make(chan result, len(population))

	workerCount := e.cfg.Workers
	if workerCount > len(population) {
		workerCount = len(population)
	}

	var wg sync.WaitGroup
	wg.Add(workerCount)
	for w := 0; w < workerCount; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}

				fitness, err := e.cfg.Evaluator.Evaluate(ctx, j.genome)
				if err != nil {
					results <- result{idx: j.idx, err: err}
					continue
				}
				results <- result{idx: j.idx, fitness: fitness}
			}
		}()
	}

	for i := range population {
		jobs <- job{idx: i, genome: population[i]}
	}
	close(jobs)

	wg.Wait()
	close(results)

	scored := make([]Scored[G], len(population))
	for res := range results {
		if res.err != nil {
			return nil, res.err
		}
		scored[res.idx] = Scored[G]{Genome: population[res.idx], Fitness: res.fitness}
	}

	return scored, nil
}
