package games

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
)

// schulte is the classic Schulte table: click 1..N² in ascending order.
type schulte struct {
	ref model.GameRef
}

func (g *schulte) Ref() model.GameRef { return g.ref }

func (g *schulte) Board(level int, rng *rand.Rand) (engine.BoardSpec, error) {
	params := difficulty.Schulte(level)
	count := params.GridSize * params.GridSize
	nums := rng.Perm(count)
	cells := make([]engine.Cell, count)
	for i, n := range nums {
		cells[i] = engine.Cell{
			Label:  strconv.Itoa(n + 1),
			Target: true,
			Order:  n + 1,
		}
	}
	return engine.BoardSpec{
		Size:      params.GridSize,
		Cells:     cells,
		Targets:   count,
		Ordered:   true,
		Prompt:    "Pulsa los números en orden ascendente",
		Threshold: params.TimeThreshold,
	}, nil
}

func (g *schulte) CellPoints(level int) int { return 1 + level/2 }

func (g *schulte) Penalty() (int, time.Duration) { return 0, 0 }

func (g *schulte) Budget() time.Duration { return 60 * time.Second }
