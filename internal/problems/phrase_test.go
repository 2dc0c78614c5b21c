package problems

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/xrash/smetrics"

	"genomic/pkg/genomic"
)

func TestPhraseMutationKeepsPrintableBytes(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p, err := NewPhrase(20, rng)
	if err != nil {
		t.Fatalf("new phrase: %v", err)
	}

	for round := 0; round < 50; round++ {
		if err := genomic.Mutate(p, 1.0, rng); err != nil {
			t.Fatalf("mutate: %v", err)
		}
		for i, b := range p.Text {
			if b < printableFirst || b > printableLast {
				t.Fatalf("round %d: byte %d left the printable range: %#x", round, i, b)
			}
		}
	}
}

func TestPhraseCloneIsDeepAndKeepsItsStrategy(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	original, err := NewPhrase(12, rng)
	if err != nil {
		t.Fatalf("new phrase: %v", err)
	}
	snapshot := original.String()

	clone := original.Clone()
	if &clone.Text[0] == &original.Text[0] {
		t.Fatal("clone shares its text buffer with the original")
	}
	if err := genomic.Mutate(clone, 1.0, rng); err != nil {
		t.Fatalf("mutate clone: %v", err)
	}

	if original.String() != snapshot {
		t.Fatal("mutating the clone changed the original")
	}
	for i, b := range clone.Text {
		if b < printableFirst || b > printableLast {
			t.Fatalf("clone byte %d left the printable range: %#x", i, b)
		}
	}
}

func TestPhraseRejectsNonPrintableTargets(t *testing.T) {
	for _, target := range []string{"tab\tseparated", "héllo", "new\nline"} {
		spec := testSpec()
		spec.Target = target
		if _, err := phrase.Run(context.Background(), spec); err == nil {
			t.Fatalf("expected rejection of target %q", target)
		}
	}
}

func TestPhraseRunConvergesTowardTheTarget(t *testing.T) {
	spec := testSpec()
	spec.Target = "gopher"
	spec.PopulationSize = 30
	spec.Generations = 60
	spec.MutationRate = 0.1

	outcome, err := phrase.Run(context.Background(), spec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	first := outcome.BestByGeneration[0]
	last := outcome.BestByGeneration[len(outcome.BestByGeneration)-1]
	if last <= first {
		t.Fatalf("expected the edit distance to shrink: first=%f last=%f", first, last)
	}
	if len(outcome.Best) != len("gopher") {
		t.Fatalf("expected a %d-byte phrase, got %q", len("gopher"), outcome.Best)
	}
}

func TestPhrasePayloadDistanceMatchesTheRendering(t *testing.T) {
	spec := testSpec()
	spec.Target = "abc"
	spec.Generations = 5

	outcome, err := phrase.Run(context.Background(), spec)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var payload struct {
		Text     string `json:"text"`
		Distance int    `json:"distance"`
	}
	if err := json.Unmarshal(outcome.BestPayload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Text != outcome.Best {
		t.Fatalf("payload text %q does not match rendering %q", payload.Text, outcome.Best)
	}
	if want := smetrics.WagnerFischer(payload.Text, "abc", 1, 1, 2); payload.Distance != want {
		t.Fatalf("payload distance %d does not match recomputed %d", payload.Distance, want)
	}
	if outcome.BestFitness != -float64(payload.Distance) {
		t.Fatalf("fitness %f does not match negated distance %d", outcome.BestFitness, payload.Distance)
	}
}
