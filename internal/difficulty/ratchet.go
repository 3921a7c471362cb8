package difficulty

import "time"

// BoardOutcome describes one completed board.
type BoardOutcome struct {
	Errors    int
	BoardTime time.Duration
}

// BoardPassed reports whether a board clears the promotion bar: at most one
// error and finished within the level's time threshold.
func BoardPassed(out BoardOutcome, threshold time.Duration) bool {
	return out.Errors <= 1 && out.BoardTime <= threshold
}

// BoardNext applies the one-way board ratchet: +1 on a pass (capped), level
// unchanged otherwise. Board games never auto-demote.
func BoardNext(level int, out BoardOutcome, threshold time.Duration) (int, bool) {
	level = Clamp(level)
	if !BoardPassed(out, threshold) {
		return level, false
	}
	next := Clamp(level + 1)
	return next, next != level
}

// streakWindow is the rolling outcome window used by the trial ratchet.
const streakWindow = 5

// promoteStreak is the consecutive-correct count that forces a promotion.
const promoteStreak = 3

// StreakRatchet is the symmetric ratchet for trial games: promotion on a
// 3-streak or a hot rolling window, demotion when the rolling window goes
// cold. The streak and window reset after every level change so one bad
// stretch demotes at most once.
type StreakRatchet struct {
	streak int
	window []bool
}

// Observe folds one round outcome into the ratchet and returns the next
// level plus whether it changed.
func (r *StreakRatchet) Observe(level int, correct bool) (int, bool) {
	level = Clamp(level)
	if correct {
		r.streak++
	} else {
		r.streak = 0
	}
	r.window = append(r.window, correct)
	if len(r.window) > streakWindow {
		r.window = r.window[1:]
	}

	if r.streak >= promoteStreak || (len(r.window) == streakWindow && r.accuracy() >= 0.8) {
		next := Clamp(level + 1)
		r.reset()
		return next, next != level
	}
	if len(r.window) == streakWindow && r.accuracy() < 0.5 {
		next := Clamp(level - 1)
		r.reset()
		return next, next != level
	}
	return level, false
}

// Streak returns the current consecutive-correct count.
func (r *StreakRatchet) Streak() int {
	return r.streak
}

func (r *StreakRatchet) accuracy() float64 {
	if len(r.window) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range r.window {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(r.window))
}

func (r *StreakRatchet) reset() {
	r.streak = 0
	r.window = r.window[:0]
}
