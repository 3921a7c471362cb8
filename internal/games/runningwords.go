package games

import (
	"math/rand"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/wordbank"
)

// runningWords flashes a word sequence and asks for the last word shown.
// Decoys are drawn from the same pool so elimination by theme is useless.
type runningWords struct {
	ref  model.GameRef
	bank *wordbank.Bank
}

func (g *runningWords) Ref() model.GameRef { return g.ref }

func (g *runningWords) Trial(level int, rng *rand.Rand) (engine.TrialSpec, error) {
	params := difficulty.RunningWords(level)
	words := pickDistinct(g.bank.Words(), params.SequenceLength, nil, rng)
	if len(words) == 0 {
		return engine.TrialSpec{}, errEmptyPool
	}
	last := words[len(words)-1]

	taken := map[string]bool{}
	for _, w := range words {
		taken[w] = true
	}
	decoys := pickDistinct(g.bank.Words(), 3, taken, rng)
	options := shuffled(append([]string{last}, decoys...), rng)
	answer := 0
	for i, opt := range options {
		if opt == last {
			answer = i
			break
		}
	}

	return engine.TrialSpec{
		Stimuli:  words,
		Exposure: params.Exposure,
		Paced:    true,
		Question: "¿Cuál fue la ÚLTIMA palabra?",
		Options:  options,
		Answer:   answer,
		Points:   10,
	}, nil
}

func (g *runningWords) Rounds() int { return 10 }
