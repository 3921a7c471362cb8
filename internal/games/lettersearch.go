package games

import (
	"math/rand"
	"strings"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
)

const searchAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// letterSearch scatters a handful of target letters through a letter grid;
// every occurrence must be found.
type letterSearch struct {
	ref model.GameRef
}

func (g *letterSearch) Ref() model.GameRef { return g.ref }

func (g *letterSearch) Board(level int, rng *rand.Rand) (engine.BoardSpec, error) {
	params := difficulty.LetterSearch(level)
	size := params.GridSize
	count := size * size

	targetSet := make(map[byte]bool, params.ItemCount)
	targets := make([]string, 0, params.ItemCount)
	for len(targets) < params.ItemCount {
		ch := searchAlphabet[rng.Intn(len(searchAlphabet))]
		if targetSet[ch] {
			continue
		}
		targetSet[ch] = true
		targets = append(targets, string(ch))
	}

	grid := make([]byte, count)
	for i := range grid {
		for {
			ch := searchAlphabet[rng.Intn(len(searchAlphabet))]
			if !targetSet[ch] {
				grid[i] = ch
				break
			}
		}
	}
	// Guarantee one occurrence per target in distinct cells, then sprinkle
	// extras elsewhere. The reserved cells stay untouched so every letter
	// named in the prompt appears on the board.
	reserved := rng.Perm(count)[:len(targets)]
	held := make(map[int]bool, len(reserved))
	for i, t := range targets {
		grid[reserved[i]] = t[0]
		held[reserved[i]] = true
	}
	for i := 0; i < params.ItemCount*2; i++ {
		idx := rng.Intn(count)
		if held[idx] {
			continue
		}
		grid[idx] = targets[rng.Intn(len(targets))][0]
	}

	cells := make([]engine.Cell, count)
	targetCount := 0
	for i, ch := range grid {
		hit := targetSet[ch]
		if hit {
			targetCount++
		}
		cells[i] = engine.Cell{Label: string(ch), Target: hit}
	}
	return engine.BoardSpec{
		Size:      size,
		Cells:     cells,
		Targets:   targetCount,
		Prompt:    "Encuentra todas las letras: " + strings.Join(targets, " "),
		Threshold: params.TimeThreshold,
	}, nil
}

func (g *letterSearch) CellPoints(int) int { return 10 }

func (g *letterSearch) Penalty() (int, time.Duration) { return 5, 0 }

func (g *letterSearch) Budget() time.Duration { return 45 * time.Second }
