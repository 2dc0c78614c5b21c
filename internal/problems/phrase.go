package problems

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/jinzhu/copier"
	"github.com/xrash/smetrics"

	"genomic/pkg/genomic"
)

const (
	defaultTarget  = "hello, world"
	printableFirst = byte(' ')
	printableLast  = byte('~')
)

var phrase = Problem{
	Name:        "phrase",
	Description: "evolve printable text toward a target phrase by edit distance",
	Run:         runPhrase,
}

// Phrase is a printable-byte genome scored by Wagner-Fischer edit distance
// to a target, negated so that a perfect match peaks at 0.
type Phrase struct {
	Text []byte
	step genomic.UniformInt[byte]
}

func NewPhrase(n int, rng *rand.Rand) (*Phrase, error) {
	step, err := genomic.NewUniformInt(printableFirst, printableLast)
	if err != nil {
		return nil, err
	}
	p := &Phrase{Text: make([]byte, n), step: step}
	for i := range p.Text {
		p.Text[i] = printableFirst + byte(rng.Intn(int(printableLast-printableFirst)+1))
	}
	return p, nil
}

func (p *Phrase) Mutate(m *genomic.Mutator) {
	for i := range p.Text {
		genomic.MutateWith(m, p.step, &p.Text[i])
	}
}

func (p *Phrase) Crossover(peer *Phrase, c *genomic.Crosser) {
	genomic.CrossValues(c, p.Text, peer.Text)
}

func (p *Phrase) SizeHint() int { return len(p.Text) }

func (p *Phrase) Clone() *Phrase {
	clone := &Phrase{step: p.step}
	_ = copier.CopyWithOption(clone, p, copier.Option{DeepCopy: true})
	return clone
}

func (p *Phrase) String() string { return string(p.Text) }

func runPhrase(ctx context.Context, spec Spec) (Outcome, error) {
	target := spec.Target
	if target == "" {
		target = defaultTarget
	}
	for i := 0; i < len(target); i++ {
		if target[i] < printableFirst || target[i] > printableLast {
			return Outcome{}, fmt.Errorf("target must be printable ASCII, byte %d is %#x", i, target[i])
		}
	}

	step, err := genomic.NewUniformInt(printableFirst, printableLast)
	if err != nil {
		return Outcome{}, err
	}

	evaluator := engineEvaluator(func(p *Phrase) float64 {
		return -float64(smetrics.WagnerFischer(p.String(), target, 1, 1, 2))
	})

	seed := func(rng *rand.Rand) *Phrase {
		text := make([]byte, len(target))
		for i := range text {
			text[i] = printableFirst + byte(rng.Intn(int(printableLast-printableFirst)+1))
		}
		return &Phrase{Text: text, step: step}
	}

	return run(ctx, spec, seed, evaluator,
		func(p *Phrase) (string, json.RawMessage, error) {
			payload, err := json.Marshal(struct {
				Text     string `json:"text"`
				Distance int    `json:"distance"`
			}{Text: p.String(), Distance: smetrics.WagnerFischer(p.String(), target, 1, 1, 2)})
			return p.String(), payload, err
		},
	)
}
