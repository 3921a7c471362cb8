// Package difficulty derives per-level game parameters and applies
// promotion/demotion rules.
package difficulty

import "time"

// Level bounds shared by all games. Out-of-range input saturates silently.
const (
	MinLevel = 1
	MaxLevel = 10
)

// Clamp saturates a level into [MinLevel, MaxLevel].
func Clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// Params is the derived parameter set for one game at one level. Games use
// the fields relevant to their family and ignore the rest.
type Params struct {
	GridSize       int
	SequenceLength int
	ItemCount      int
	OptionCount    int
	WordLength     int
	Digits         int
	MaxNumber      int
	WPM            int
	Exposure       time.Duration
	TimeLimit      time.Duration
	TimeThreshold  time.Duration
}

// schulteSizes maps level to grid side length.
var schulteSizes = [MaxLevel]int{4, 4, 5, 5, 6, 6, 7, 7, 8, 8}

// Schulte derives parameters for the Schulte table.
func Schulte(level int) Params {
	level = Clamp(level)
	size := schulteSizes[level-1]
	return Params{
		GridSize:      size,
		ItemCount:     size * size,
		TimeThreshold: BoardThreshold(level, size*size, 12*time.Second),
	}
}

// EvenOdd derives parameters for the parity-search grid.
func EvenOdd(level int) Params {
	level = Clamp(level)
	size := minInt(6+level/2, 9)
	maxNumber := 99
	switch {
	case level >= 6:
		maxNumber = 9999
	case level >= 3:
		maxNumber = 999
	}
	return Params{
		GridSize:      size,
		ItemCount:     size * size,
		MaxNumber:     maxNumber,
		TimeLimit:     45 * time.Second,
		TimeThreshold: BoardThreshold(level, size*size, 20*time.Second),
	}
}

// FindNumber derives parameters for the digit-sequence search grid.
func FindNumber(level int) Params {
	level = Clamp(level)
	size := minInt(6+level/2, 10)
	return Params{
		GridSize:       size,
		SequenceLength: minInt(3+level/3, 6),
		TimeLimit:      60 * time.Second,
		TimeThreshold:  BoardThreshold(level, size*size, 15*time.Second),
	}
}

// LetterSearch derives parameters for the target-letter grid.
func LetterSearch(level int) Params {
	level = Clamp(level)
	size := minInt(8+level, 12)
	return Params{
		GridSize:      size,
		ItemCount:     minInt(3+level/2, 6),
		TimeLimit:     time.Duration(maxInt(30-level*2, 15)) * time.Second,
		TimeThreshold: BoardThreshold(level, size*size, 18*time.Second),
	}
}

// TwinWords derives parameters for the word-pair discrimination list.
func TwinWords(level int) Params {
	level = Clamp(level)
	rows := minInt(4+level/2, 10)
	total := rows * 2
	targets := (total*4 + 9) / 10 // 40% of pairs, rounded up
	return Params{
		GridSize:       rows,
		ItemCount:      targets,
		SequenceLength: total,
		TimeLimit:      60 * time.Second,
		TimeThreshold:  BoardThreshold(level, total, 16*time.Second),
	}
}

// RunningWords derives parameters for RSVP word recall.
func RunningWords(level int) Params {
	level = Clamp(level)
	exposure := time.Duration(maxInt(800-level*60, 200)) * time.Millisecond
	return Params{
		SequenceLength: minInt(5+level/2, 10),
		OptionCount:    4,
		Exposure:       exposure,
	}
}

// NumberMemory derives parameters for digit-span recall.
func NumberMemory(level int) Params {
	level = Clamp(level)
	return Params{
		Digits:   minInt(3+level, 10),
		Exposure: time.Duration(maxInt(2000-level*50, 1000)) * time.Millisecond,
	}
}

// Anagrams derives parameters for anagram discrimination.
func Anagrams(level int) Params {
	level = Clamp(level)
	return Params{
		WordLength:  minInt(4+level/2, 8),
		OptionCount: minInt(3+level/3, 6),
		Exposure:    1500 * time.Millisecond,
	}
}

// WordRace derives parameters for the reading-throughput race.
func WordRace(level int) Params {
	level = Clamp(level)
	wpm := 150 + level*25
	return Params{
		SequenceLength: 30,
		OptionCount:    4,
		WPM:            wpm,
		Exposure:       time.Duration(60_000/wpm) * time.Millisecond,
	}
}

// BoardThreshold returns the pass time budget for a board. base is the
// budget for a 16-cell board; each extra cell adds 5% and the budget
// tightens 2% per level up to 25%, floored at 6 s so top levels remain
// completable.
func BoardThreshold(level, cells int, base time.Duration) time.Duration {
	level = Clamp(level)
	factor := 1 + float64(cells-16)*0.05
	if factor < 1 {
		factor = 1
	}
	strictness := 1 - minFloat(0.25, float64(level-1)*0.02)
	threshold := time.Duration(float64(base) * factor * strictness)
	if threshold < 6*time.Second {
		threshold = 6 * time.Second
	}
	return threshold
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
