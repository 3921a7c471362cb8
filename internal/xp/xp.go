// Package xp converts round and run performance into experience points.
package xp

import "math"

// Floor is the guaranteed minimum award for any completed round or run.
// Rewards never drop below it so feedback stays non-discouraging.
const Floor = 5

// Inputs are the performance figures an award is computed from. Accuracy
// may be a fraction or a percentage; it is normalized before use.
type Inputs struct {
	Score    int
	Accuracy float64
	WPM      float64
	Level    int
}

// Compute maps a completed run to an integer XP award. Formulas differ per
// game family: grid games scale with level, reading games with throughput,
// memory games with the exponential span score.
func Compute(gameCode string, in Inputs) int {
	accuracy := normalizeAccuracy(in.Accuracy)
	level := in.Level
	if level < 1 {
		level = 1
	}

	var base float64
	switch gameCode {
	case "even_odd", "find_number", "schulte", "letter_search", "twin_words":
		base = float64(in.Score)/10 + float64(level)*5
	case "word_race", "reading_accelerator":
		base = in.WPM / 20 * accuracy * 10
	case "number_memory":
		base = float64(in.Score)
	default:
		base = math.Max(Floor, float64(in.Score)/15)
	}

	award := int(math.Round(base))
	if award < Floor {
		award = Floor
	}
	return award
}

func normalizeAccuracy(a float64) float64 {
	if a <= 0 {
		return 0
	}
	if a > 1 {
		a /= 100
	}
	if a > 1 {
		a = 1
	}
	return a
}

// SpanScore is the per-round score for a correct digit span: 2^(digits-3),
// so harder spans are rewarded exponentially.
func SpanScore(digits int) int {
	if digits <= 3 {
		return 1
	}
	return 1 << (digits - 3)
}
