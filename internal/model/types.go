package model

import "encoding/json"

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the persisted outcome of one experiment run.
type RunRecord struct {
	VersionedRecord
	RunID            string          `json:"run_id"`
	Problem          string          `json:"problem"`
	Seed             int64           `json:"seed"`
	PopulationSize   int             `json:"population_size"`
	Generations      int             `json:"generations"`
	MutationRate     float64         `json:"mutation_rate"`
	EliteCount       int             `json:"elite_count"`
	Workers          int             `json:"workers"`
	Selector         string          `json:"selector,omitempty"`
	CreatedAtUnix    int64           `json:"created_at_unix"`
	ElapsedMillis    int64           `json:"elapsed_millis"`
	Evaluations      int             `json:"evaluations"`
	BestFitness      float64         `json:"best_fitness"`
	BestByGeneration []float64       `json:"best_by_generation"`
	Best             json.RawMessage `json:"best,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// RunSummary is the listing projection of a run.
type RunSummary struct {
	RunID         string  `json:"run_id"`
	Problem       string  `json:"problem"`
	CreatedAtUnix int64   `json:"created_at_unix"`
	Generations   int     `json:"generations"`
	BestFitness   float64 `json:"best_fitness"`
}

// Summary projects the record onto its listing fields.
func (r RunRecord) Summary() RunSummary {
	return RunSummary{
		RunID:         r.RunID,
		Problem:       r.Problem,
		CreatedAtUnix: r.CreatedAtUnix,
		Generations:   r.Generations,
		BestFitness:   r.BestFitness,
	}
}
