package games

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
)

// findNumber hides a digit sequence along a straight line in a digit grid;
// the player acquires its cells in order. Higher levels unlock diagonal and
// reversed directions.
type findNumber struct {
	ref model.GameRef
}

func (g *findNumber) Ref() model.GameRef { return g.ref }

func (g *findNumber) Board(level int, rng *rand.Rand) (engine.BoardSpec, error) {
	params := difficulty.FindNumber(level)
	size := params.GridSize
	seqLen := params.SequenceLength

	grid := make([]int, size*size)
	for i := range grid {
		grid[i] = rng.Intn(10)
	}
	sequence := make([]int, seqLen)
	for i := range sequence {
		sequence[i] = rng.Intn(10)
	}

	dirs := [][2]int{{0, 1}, {1, 0}}
	if level >= 3 {
		dirs = append(dirs, [2]int{1, 1}, [2]int{-1, 1})
	}
	if level >= 5 {
		dirs = append(dirs, [2]int{0, -1}, [2]int{-1, 0}, [2]int{-1, -1}, [2]int{1, -1})
	}

	order := make(map[int]int, seqLen)
	for attempt := 0; attempt < 100 && len(order) == 0; attempt++ {
		dir := dirs[rng.Intn(len(dirs))]
		row := rng.Intn(size)
		col := rng.Intn(size)
		endRow := row + (seqLen-1)*dir[0]
		endCol := col + (seqLen-1)*dir[1]
		if endRow < 0 || endRow >= size || endCol < 0 || endCol >= size {
			continue
		}
		for i, d := range sequence {
			idx := (row+i*dir[0])*size + col + i*dir[1]
			grid[idx] = d
			order[idx] = i + 1
		}
	}
	if len(order) == 0 {
		// Never reached with the direction set above, but a board without a
		// placed sequence would be unwinnable: fall back to the first row.
		for i, d := range sequence {
			grid[i] = d
			order[i] = i + 1
		}
	}

	cells := make([]engine.Cell, len(grid))
	for i, d := range grid {
		cells[i] = engine.Cell{
			Label:  strconv.Itoa(d),
			Target: order[i] > 0,
			Order:  order[i],
		}
	}
	labels := make([]string, seqLen)
	for i, d := range sequence {
		labels[i] = strconv.Itoa(d)
	}
	return engine.BoardSpec{
		Size:      size,
		Cells:     cells,
		Targets:   seqLen,
		Ordered:   true,
		Prompt:    "Busca la secuencia: " + strings.Join(labels, " - "),
		Threshold: params.TimeThreshold,
	}, nil
}

func (g *findNumber) CellPoints(int) int { return 10 }

func (g *findNumber) Penalty() (int, time.Duration) { return 5, 0 }

func (g *findNumber) Budget() time.Duration { return 60 * time.Second }
