package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"genomic/internal/model"
)

func TestDecodeRunFixture(t *testing.T) {
	run := decodeRunFixture(t, "minimal_run_v1.json")
	if run.RunID != "run-minimal-1" {
		t.Fatalf("unexpected run id: %s", run.RunID)
	}
	if run.Problem != "onemax" {
		t.Fatalf("unexpected problem: %s", run.Problem)
	}
	if run.BestFitness != 28 {
		t.Fatalf("unexpected best fitness: %f", run.BestFitness)
	}
	if len(run.BestByGeneration) != 10 {
		t.Fatalf("unexpected history length: %d", len(run.BestByGeneration))
	}
}

func TestRunCodecRoundTrip(t *testing.T) {
	input := model.RunRecord{
		VersionedRecord:  model.VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		RunID:            "r1",
		Problem:          "sphere",
		Seed:             42,
		PopulationSize:   64,
		Generations:      25,
		MutationRate:     0.1,
		EliteCount:       4,
		Workers:          2,
		CreatedAtUnix:    1700000100,
		ElapsedMillis:    90,
		Evaluations:      1600,
		BestFitness:      -0.004,
		BestByGeneration: []float64{-3.2, -1.1, -0.004},
	}

	encoded, err := EncodeRun(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeRun(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.RunID != input.RunID || decoded.BestFitness != input.BestFitness {
		t.Fatalf("decoded run mismatch: got=%+v want=%+v", decoded, input)
	}
	if !reflect.DeepEqual(decoded.BestByGeneration, input.BestByGeneration) {
		t.Fatalf("history mismatch: got=%+v want=%+v", decoded.BestByGeneration, input.BestByGeneration)
	}
}

func TestRunCodecRoundTripFixtureEquality(t *testing.T) {
	expected := decodeRunFixture(t, "minimal_run_v1.json")

	encoded, err := EncodeRun(expected)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	actual, err := DecodeRun(encoded)
	if err != nil {
		t.Fatalf("decode roundtrip: %v", err)
	}

	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("roundtrip mismatch\nactual=%+v\nexpected=%+v", actual, expected)
	}
}

func TestDecodeRunVersionMismatch(t *testing.T) {
	run := decodeRunFixture(t, "minimal_run_v1.json")
	run.CodecVersion++

	encoded, err := EncodeRun(run)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	_, err = DecodeRun(encoded)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got: %v", err)
	}
}

func TestStampSetsCurrentVersions(t *testing.T) {
	var run model.RunRecord
	Stamp(&run)
	if run.SchemaVersion != CurrentSchemaVersion || run.CodecVersion != CurrentCodecVersion {
		t.Fatalf("unexpected versions: %+v", run.VersionedRecord)
	}
}

func fixturePath(name string) string {
	return filepath.Join("..", "..", "testdata", "fixtures", name)
}

func decodeRunFixture(t *testing.T, name string) model.RunRecord {
	t.Helper()

	path := fixturePath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	run, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}

	return run
}
