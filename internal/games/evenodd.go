package games

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
)

// evenOdd is the parity-search grid: find every number matching the current
// rule. The rule flips every third level so players cannot settle into one
// scanning habit.
type evenOdd struct {
	ref model.GameRef
}

func (g *evenOdd) Ref() model.GameRef { return g.ref }

func (g *evenOdd) Board(level int, rng *rand.Rand) (engine.BoardSpec, error) {
	params := difficulty.EvenOdd(level)
	wantEven := (difficulty.Clamp(level)-1)/3%2 == 0

	count := params.GridSize * params.GridSize
	cells := make([]engine.Cell, count)
	targets := 0
	for i := range cells {
		n := rng.Intn(params.MaxNumber) + 1
		match := (n%2 == 0) == wantEven
		if match {
			targets++
		}
		cells[i] = engine.Cell{Label: strconv.Itoa(n), Target: match}
	}
	if targets == 0 {
		// Degenerate draw: force one matching number so the board is
		// completable.
		n := rng.Intn(params.MaxNumber/2)*2 + 2
		if !wantEven {
			n--
		}
		cells[rng.Intn(count)] = engine.Cell{Label: strconv.Itoa(n), Target: true}
		targets = 1
	}

	prompt := "Buscar: IMPARES"
	if wantEven {
		prompt = "Buscar: PARES"
	}
	return engine.BoardSpec{
		Size:      params.GridSize,
		Cells:     cells,
		Targets:   targets,
		Prompt:    prompt,
		Threshold: params.TimeThreshold,
	}, nil
}

func (g *evenOdd) CellPoints(int) int { return 10 }

func (g *evenOdd) Penalty() (int, time.Duration) { return 5, 2 * time.Second }

func (g *evenOdd) Budget() time.Duration { return 45 * time.Second }
