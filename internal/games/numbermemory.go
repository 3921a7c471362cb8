package games

import (
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/xp"
)

// numberMemory is the digit-span game: a number flashes once and must be
// typed back from memory. Longer spans are worth exponentially more.
type numberMemory struct {
	ref model.GameRef
}

func (g *numberMemory) Ref() model.GameRef { return g.ref }

func (g *numberMemory) Trial(level int, rng *rand.Rand) (engine.TrialSpec, error) {
	params := difficulty.NumberMemory(level)

	var sb strings.Builder
	sb.WriteString(strconv.Itoa(rng.Intn(9) + 1)) // no leading zero
	for i := 1; i < params.Digits; i++ {
		sb.WriteString(strconv.Itoa(rng.Intn(10)))
	}
	number := sb.String()

	return engine.TrialSpec{
		Stimuli:        []string{number},
		Exposure:       params.Exposure,
		Question:       "Escribe el número que viste",
		Expected:       number,
		InputLen:       params.Digits,
		CollectTimeout: 15 * time.Second,
		Points:         xp.SpanScore(params.Digits),
	}, nil
}

func (g *numberMemory) Rounds() int { return 15 }
