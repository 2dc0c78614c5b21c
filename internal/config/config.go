// Package config loads experiment definitions from YAML files.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	"genomic/internal/storage"
)

// StoreConfig selects where finished runs are persisted.
type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// Experiment describes one evolutionary run end to end: the problem to
// solve, the engine knobs, and the store for the result. Zero Size and
// Target defer to the per-problem defaults.
type Experiment struct {
	Problem          string      `yaml:"problem"`
	Size             int         `yaml:"size"`
	Target           string      `yaml:"target"`
	PopulationSize   int         `yaml:"population_size"`
	Generations      int         `yaml:"generations"`
	MutationRate     float64     `yaml:"mutation_rate"`
	EliteCount       int         `yaml:"elite_count"`
	Workers          int         `yaml:"workers"`
	Seed             int64       `yaml:"seed"`
	Selector         string      `yaml:"selector"`
	FitnessGoal      float64     `yaml:"fitness_goal"`
	StopAtGoal       bool        `yaml:"stop_at_goal"`
	EvaluationsLimit int         `yaml:"evaluations_limit"`
	Store            StoreConfig `yaml:"store"`
	Notes            string      `yaml:"notes"`
}

// Default returns the experiment every run starts from. Seed zero means
// the caller picks a fresh seed at run time.
func Default() Experiment {
	return Experiment{
		Problem:        "onemax",
		PopulationSize: 100,
		Generations:    50,
		MutationRate:   0.05,
		EliteCount:     2,
		Workers:        4,
		Selector:       "tournament",
		Store:          StoreConfig{Backend: storage.DefaultStoreKind(), Path: "genomic.db"},
	}
}

// Load reads a YAML experiment file and overlays its non-zero fields onto
// the defaults. A field left out of the file keeps its default value.
func Load(path string) (Experiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, err
	}

	var overlay Experiment
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Experiment{}, fmt.Errorf("parse %s: %w", path, err)
	}

	exp := Default()
	if err := copier.CopyWithOption(&exp, &overlay, copier.Option{IgnoreEmpty: true}); err != nil {
		return Experiment{}, fmt.Errorf("merge %s: %w", path, err)
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, fmt.Errorf("config %s: %w", path, err)
	}
	return exp, nil
}

// Validate rejects experiments the engine could never run.
func (e Experiment) Validate() error {
	if e.Problem == "" {
		return fmt.Errorf("problem is required")
	}
	if e.PopulationSize <= 0 {
		return fmt.Errorf("population_size must be positive, got %d", e.PopulationSize)
	}
	if e.Generations <= 0 {
		return fmt.Errorf("generations must be positive, got %d", e.Generations)
	}
	if math.IsNaN(e.MutationRate) || e.MutationRate < 0 || e.MutationRate > 1 {
		return fmt.Errorf("mutation_rate %v outside [0, 1]", e.MutationRate)
	}
	if e.EliteCount < 1 || e.EliteCount > e.PopulationSize {
		return fmt.Errorf("elite_count %d outside [1, %d]", e.EliteCount, e.PopulationSize)
	}
	if e.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", e.Workers)
	}
	if e.EvaluationsLimit < 0 {
		return fmt.Errorf("evaluations_limit must be >= 0, got %d", e.EvaluationsLimit)
	}
	return nil
}
