package games

import (
	"math/rand"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/wordbank"
)

// twinWords shows a list of word pairs; the player must select every pair
// whose words are NOT identical. Confusable accent variants are used first
// so the targets stay hard to tell apart.
type twinWords struct {
	ref  model.GameRef
	bank *wordbank.Bank
}

func (g *twinWords) Ref() model.GameRef { return g.ref }

func (g *twinWords) Board(level int, rng *rand.Rand) (engine.BoardSpec, error) {
	params := difficulty.TwinWords(level)
	total := params.SequenceLength
	targets := params.ItemCount
	words := shuffled(g.bank.Words(), rng)

	cells := make([]engine.Cell, 0, total)
	confusable := rng.Perm(len(wordbank.ConfusablePairs))
	for i := 0; i < targets; i++ {
		var a, b string
		if i < len(confusable) {
			pair := wordbank.ConfusablePairs[confusable[i]]
			a, b = pair[0], pair[1]
		} else {
			a = words[i%len(words)]
			b = words[(i+level+3)%len(words)]
			if wordbank.Equal(a, b) {
				b = firstDistinct(words, a)
			}
		}
		cells = append(cells, engine.Cell{Label: a + "  ↔  " + b, Target: true})
	}
	for i := targets; i < total; i++ {
		w := words[i%len(words)]
		cells = append(cells, engine.Cell{Label: w + "  ↔  " + w})
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	return engine.BoardSpec{
		Size:      2,
		Cells:     cells,
		Targets:   targets,
		Prompt:    "Selecciona los pares NO idénticos",
		Threshold: params.TimeThreshold,
	}, nil
}

func (g *twinWords) CellPoints(int) int { return 20 }

func (g *twinWords) Penalty() (int, time.Duration) { return 5, 0 }

func (g *twinWords) Budget() time.Duration { return 60 * time.Second }

func firstDistinct(words []string, other string) string {
	for _, w := range words {
		if !wordbank.Equal(w, other) {
			return w
		}
	}
	return other
}
