// Package games implements the mini-game catalog: stimulus generation and
// per-game rules on top of the engine's trial and board machines.
package games

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/wordbank"
)

var errEmptyPool = errors.New("empty stimulus pool")

// Instance binds a catalog entry to its engine shape. Exactly one of Trial
// and Board is non-nil.
type Instance struct {
	Ref   model.GameRef
	Trial engine.TrialGame
	Board engine.BoardGame
}

// Catalog returns every selectable game with its skill tags.
func Catalog() []model.GameRef {
	return []model.GameRef{
		{Code: "schulte", Name: "Tabla de Schulte", Skills: model.SkillTags{Speed: 0.9, Attention: 0.8, Comprehension: 0.2, Memory: 0.2}},
		{Code: "even_odd", Name: "Par / Impar", Skills: model.SkillTags{Speed: 0.7, Attention: 0.9, Comprehension: 0.1, Memory: 0.1}},
		{Code: "find_number", Name: "Encuentra el Número", Skills: model.SkillTags{Speed: 0.6, Attention: 0.8, Comprehension: 0.2, Memory: 0.3}},
		{Code: "letter_search", Name: "Búsqueda de Letras", Skills: model.SkillTags{Speed: 0.8, Attention: 0.9, Comprehension: 0.1, Memory: 0.1}},
		{Code: "twin_words", Name: "Palabras Gemelas", Skills: model.SkillTags{Speed: 0.4, Attention: 0.7, Comprehension: 0.8, Memory: 0.2}},
		{Code: "running_words", Name: "Palabras Corriendo", Skills: model.SkillTags{Speed: 0.7, Attention: 0.5, Comprehension: 0.6, Memory: 0.8}},
		{Code: "number_memory", Name: "Memoria Numérica", Skills: model.SkillTags{Speed: 0.2, Attention: 0.4, Comprehension: 0.1, Memory: 1.0}},
		{Code: "anagrams", Name: "Anagramas", Skills: model.SkillTags{Speed: 0.3, Attention: 0.5, Comprehension: 0.9, Memory: 0.5}},
		{Code: "word_race", Name: "Carrera de Palabras", Skills: model.SkillTags{Speed: 0.9, Attention: 0.4, Comprehension: 0.8, Memory: 0.3}},
	}
}

// New constructs a playable instance for a catalog code.
func New(code string, bank *wordbank.Bank) (Instance, error) {
	ref, ok := findRef(code)
	if !ok {
		return Instance{}, fmt.Errorf("unknown game %q", code)
	}
	switch code {
	case "schulte":
		return Instance{Ref: ref, Board: &schulte{ref: ref}}, nil
	case "even_odd":
		return Instance{Ref: ref, Board: &evenOdd{ref: ref}}, nil
	case "find_number":
		return Instance{Ref: ref, Board: &findNumber{ref: ref}}, nil
	case "letter_search":
		return Instance{Ref: ref, Board: &letterSearch{ref: ref}}, nil
	case "twin_words":
		return Instance{Ref: ref, Board: &twinWords{ref: ref, bank: bank}}, nil
	case "running_words":
		return Instance{Ref: ref, Trial: &runningWords{ref: ref, bank: bank}}, nil
	case "number_memory":
		return Instance{Ref: ref, Trial: &numberMemory{ref: ref}}, nil
	case "anagrams":
		return Instance{Ref: ref, Trial: &anagrams{ref: ref, bank: bank}}, nil
	case "word_race":
		return Instance{Ref: ref, Trial: &wordRace{ref: ref, bank: bank}}, nil
	default:
		return Instance{}, fmt.Errorf("game %q has no implementation", code)
	}
}

func findRef(code string) (model.GameRef, bool) {
	for _, ref := range Catalog() {
		if ref.Code == code {
			return ref, true
		}
	}
	return model.GameRef{}, false
}

// pickDistinct draws n distinct words from pool, excluding any in taken.
// When the pool is too thin the exclusion set is ignored so callers always
// receive n words as long as the pool itself has them.
func pickDistinct(pool []string, n int, taken map[string]bool, rng *rand.Rand) []string {
	var out []string
	chosen := make(map[string]bool, n)
	perm := rng.Perm(len(pool))
	for _, i := range perm {
		if len(out) == n {
			return out
		}
		w := pool[i]
		if chosen[w] || (taken != nil && taken[w]) {
			continue
		}
		out = append(out, w)
		chosen[w] = true
	}
	// Thin pool: relax the exclusion instead of failing.
	for _, i := range perm {
		if len(out) == n {
			break
		}
		w := pool[i]
		if chosen[w] {
			continue
		}
		out = append(out, w)
		chosen[w] = true
	}
	return out
}

// shuffled returns a shuffled copy of words.
func shuffled(words []string, rng *rand.Rand) []string {
	out := append([]string(nil), words...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
