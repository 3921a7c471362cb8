package games

import (
	"math/rand"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/wordbank"
)

// wordRace streams a word sequence at a fixed reading pace, then checks
// comprehension by asking which word actually appeared.
type wordRace struct {
	ref  model.GameRef
	bank *wordbank.Bank
}

func (g *wordRace) Ref() model.GameRef { return g.ref }

func (g *wordRace) Trial(level int, rng *rand.Rand) (engine.TrialSpec, error) {
	params := difficulty.WordRace(level)
	words := make([]string, params.SequenceLength)
	pool := g.bank.Words()
	if len(pool) == 0 {
		return engine.TrialSpec{}, errEmptyPool
	}
	for i := range words {
		words[i] = pool[rng.Intn(len(pool))]
	}

	shown := map[string]bool{}
	for _, w := range words {
		shown[w] = true
	}
	appeared := words[rng.Intn(len(words))]
	decoys := pickDistinct(pool, 3, shown, rng)
	options := shuffled(append([]string{appeared}, decoys...), rng)
	answer := 0
	for i, opt := range options {
		if opt == appeared {
			answer = i
			break
		}
	}

	return engine.TrialSpec{
		Stimuli:  words,
		Exposure: params.Exposure,
		Paced:    true,
		Question: "¿Cuál de estas palabras apareció en el texto?",
		Options:  options,
		Answer:   answer,
		Points:   20,
	}, nil
}

func (g *wordRace) Rounds() int { return 3 }
