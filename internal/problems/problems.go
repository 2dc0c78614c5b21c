package problems

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"

	"genomic/internal/engine"
)

// Spec carries the run parameters shared by every problem. Size is the
// genome width in problem units (bits, dimensions, cities); problems pick
// their own default when it is zero.
type Spec struct {
	Size             int
	Target           string
	PopulationSize   int
	Generations      int
	MutationRate     float64
	EliteCount       int
	Workers          int
	Seed             int64
	Selector         string
	FitnessGoal      float64
	StopAtGoal       bool
	EvaluationsLimit int
}

// Outcome is the problem-independent view of a finished run.
type Outcome struct {
	BestFitness      float64
	BestByGeneration []float64
	Evaluations      int
	Generations      int
	Best             string
	BestPayload      json.RawMessage
}

// Problem couples a name with a typed runner behind a uniform signature.
type Problem struct {
	Name        string
	Description string
	Run         func(ctx context.Context, spec Spec) (Outcome, error)
}

func catalog() []Problem {
	return []Problem{onemax, sphere, phrase, tour}
}

// Lookup resolves a problem by name.
func Lookup(name string) (Problem, error) {
	for _, p := range catalog() {
		if p.Name == name {
			return p, nil
		}
	}
	return Problem{}, fmt.Errorf("unknown problem: %s", name)
}

// Names lists the available problems in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog()))
	for _, p := range catalog() {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the catalog sorted by name for listing commands.
func Describe() []Problem {
	described := catalog()
	sort.Slice(described, func(i, j int) bool {
		return described[i].Name < described[j].Name
	})
	return described
}

// engineEvaluator lifts a pure fitness function into the engine's
// context-aware evaluator shape.
func engineEvaluator[G any](fitness func(G) float64) engine.EvaluatorFunc[G] {
	return func(_ context.Context, g G) (float64, error) {
		return fitness(g), nil
	}
}

// run seeds a population, evolves it, and renders the winner. The seeding
// stream and the engine stream both derive from spec.Seed, so a spec is
// fully reproducible.
func run[G engine.Evolvable[G]](
	ctx context.Context,
	spec Spec,
	seed func(rng *rand.Rand) G,
	evaluator engine.Evaluator[G],
	render func(G) (string, json.RawMessage, error),
) (Outcome, error) {
	selector, err := engine.NewSelector[G](spec.Selector)
	if err != nil {
		return Outcome{}, err
	}

	rng := rand.New(rand.NewSource(spec.Seed))
	initial := make([]G, 0, spec.PopulationSize)
	for i := 0; i < spec.PopulationSize; i++ {
		initial = append(initial, seed(rng))
	}

	eng, err := engine.New(engine.Config[G]{
		Evaluator:        evaluator,
		Selector:         selector,
		PopulationSize:   spec.PopulationSize,
		EliteCount:       spec.EliteCount,
		Generations:      spec.Generations,
		MutationRate:     spec.MutationRate,
		Workers:          spec.Workers,
		Seed:             rng.Int63(),
		FitnessGoal:      spec.FitnessGoal,
		StopAtGoal:       spec.StopAtGoal,
		EvaluationsLimit: spec.EvaluationsLimit,
	})
	if err != nil {
		return Outcome{}, err
	}

	result, err := eng.Run(ctx, initial)
	if err != nil {
		return Outcome{}, err
	}

	best, payload, err := render(result.Best)
	if err != nil {
		return Outcome{}, fmt.Errorf("render best genome: %w", err)
	}

	return Outcome{
		BestFitness:      result.BestFitness,
		BestByGeneration: result.BestByGeneration,
		Evaluations:      result.Evaluations,
		Generations:      result.Generations,
		Best:             best,
		BestPayload:      payload,
	}, nil
}
