package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genomic/internal/config"
)

func captureStdout(fn func() error) (string, error) {
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}

	os.Stdout = w
	runErr := fn()
	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		_ = r.Close()
		return "", err
	}
	_ = r.Close()
	return buf.String(), runErr
}

func TestRunCommandMemoryCompletes(t *testing.T) {
	out, err := captureStdout(func() error {
		return run(context.Background(), []string{
			"run",
			"--store", "memory",
			"--problem", "onemax",
			"--size", "16",
			"--pop", "12",
			"--gens", "3",
			"--seed", "7",
			"--workers", "2",
			"--run-id", "memory-smoke",
		})
	})
	if err != nil {
		t.Fatalf("run command: %v", err)
	}

	for _, want := range []string{
		"run completed run_id=memory-smoke problem=onemax",
		"generation=1 best_fitness=",
		"generation=3 best_fitness=",
		"final_best_fitness=",
		"run saved run_id=memory-smoke store=memory",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunCommandConfigFileWithFlagOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "experiment.yaml")
	doc := `problem: onemax
size: 16
population_size: 12
generations: 5
workers: 2
seed: 5
store:
  backend: memory
`
	if err := os.WriteFile(configPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := captureStdout(func() error {
		return run(context.Background(), []string{
			"run",
			"--config", configPath,
			"--gens", "2",
			"--run-id", "config-override",
		})
	})
	if err != nil {
		t.Fatalf("run command with config: %v", err)
	}

	// gens comes from the flag, pop and seed from the file.
	if !strings.Contains(out, "pop=12 gens=2 seed=5") {
		t.Fatalf("expected flag override over config values:\n%s", out)
	}
}

func TestRunCommandRejectsUnknownProblems(t *testing.T) {
	err := run(context.Background(), []string{
		"run",
		"--store", "memory",
		"--problem", "knapsack",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown problem") {
		t.Fatalf("expected an unknown problem error, got %v", err)
	}
}

func TestRunCommandRejectsBadRates(t *testing.T) {
	err := run(context.Background(), []string{
		"run",
		"--store", "memory",
		"--rate", "1.5",
	})
	if err == nil || !strings.Contains(err.Error(), "mutation_rate") {
		t.Fatalf("expected a mutation rate error, got %v", err)
	}
}

func TestRunsCommandMemoryStartsEmpty(t *testing.T) {
	out, err := captureStdout(func() error {
		return run(context.Background(), []string{"runs", "--store", "memory"})
	})
	if err != nil {
		t.Fatalf("runs command: %v", err)
	}
	if !strings.Contains(out, "no runs found") {
		t.Fatalf("expected an empty listing, got:\n%s", out)
	}
}

func TestShowCommandRequiresAKnownRun(t *testing.T) {
	if err := run(context.Background(), []string{"show", "--store", "memory"}); err == nil {
		t.Fatal("expected an error without a run id")
	}

	err := run(context.Background(), []string{"show", "--store", "memory", "missing-run"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected a not found error, got %v", err)
	}
}

func TestDeleteCommandRequiresAKnownRun(t *testing.T) {
	err := run(context.Background(), []string{"delete", "--store", "memory", "missing-run"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected a not found error, got %v", err)
	}
}

func TestProblemsCommandListsCatalog(t *testing.T) {
	out, err := captureStdout(func() error {
		return run(context.Background(), []string{"problems"})
	})
	if err != nil {
		t.Fatalf("problems command: %v", err)
	}
	for _, name := range []string{"onemax", "phrase", "sphere", "tour"} {
		if !strings.Contains(out, "problem="+name) {
			t.Fatalf("problems output missing %s:\n%s", name, out)
		}
	}
}

func TestCommandDispatch(t *testing.T) {
	if err := run(context.Background(), nil); err == nil {
		t.Fatal("expected a usage error without a command")
	}

	err := run(context.Background(), []string{"teleport"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected an unknown command error, got %v", err)
	}
}

func TestApplyRunFlagsOnlyAppliesSetFlags(t *testing.T) {
	exp := config.Default()
	exp.Problem = "sphere"
	exp.Seed = 99

	applyRunFlags(&exp, map[string]bool{"gens": true, "selector": true}, map[string]any{
		"gens":     7,
		"selector": "rank",
		"seed":     int64(1),
		"problem":  "onemax",
	})

	if exp.Generations != 7 {
		t.Errorf("generations = %d, want 7", exp.Generations)
	}
	if exp.Selector != "rank" {
		t.Errorf("selector = %s, want rank", exp.Selector)
	}
	if exp.Seed != 99 {
		t.Errorf("seed = %d, an unset flag should not override", exp.Seed)
	}
	if exp.Problem != "sphere" {
		t.Errorf("problem = %s, an unset flag should not override", exp.Problem)
	}
}
