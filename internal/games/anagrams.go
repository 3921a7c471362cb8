package games

import (
	"math/rand"
	"strings"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/wordbank"
)

// anagrams scrambles a word and asks which option is its real form. The
// scrambled word stays on screen while the player answers.
type anagrams struct {
	ref  model.GameRef
	bank *wordbank.Bank
}

func (g *anagrams) Ref() model.GameRef { return g.ref }

func (g *anagrams) Trial(level int, rng *rand.Rand) (engine.TrialSpec, error) {
	params := difficulty.Anagrams(level)
	pool := g.bank.ByLength(params.WordLength)
	if len(pool) == 0 {
		return engine.TrialSpec{}, errEmptyPool
	}
	word := pool[rng.Intn(len(pool))]
	scrambledWord := scramble(word, rng)

	taken := map[string]bool{word: true}
	decoys := pickDistinct(pool, params.OptionCount-1, taken, rng)
	options := shuffled(append([]string{word}, decoys...), rng)
	answer := 0
	for i, opt := range options {
		if opt == word {
			answer = i
			break
		}
	}

	return engine.TrialSpec{
		Stimuli:        []string{scrambledWord},
		Exposure:       params.Exposure,
		Question:       "Anagrama: " + strings.ToUpper(scrambledWord),
		Options:        options,
		Answer:         answer,
		CollectTimeout: 10 * time.Second,
		Points:         len([]rune(word)) * 5,
	}, nil
}

func (g *anagrams) Rounds() int { return 12 }

// scramble permutes the word's runes, retrying until the result differs from
// the original (always possible for words with two distinct runes).
func scramble(word string, rng *rand.Rand) string {
	runes := []rune(word)
	if len(runes) < 2 {
		return word
	}
	uniform := true
	for _, r := range runes[1:] {
		if r != runes[0] {
			uniform = false
			break
		}
	}
	if uniform {
		return word
	}
	out := make([]rune, len(runes))
	for {
		perm := rng.Perm(len(runes))
		for i, p := range perm {
			out[i] = runes[p]
		}
		if string(out) != word {
			return string(out)
		}
	}
}
