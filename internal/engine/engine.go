// Package engine runs the timer-driven state machines behind every
// mini-game: stimulus presentation, input collection, round evaluation and
// epoch-tagged scheduling.
//
// The machines are deterministic and own no real timers. Each transition
// returns a Step telling the host how long to wait before delivering the
// next TickMsg; the host (a Bubble Tea model) maps that onto tea.Tick. Every
// scheduled tick carries the machine generation and the epoch that were
// current when it was scheduled; ticks from another machine or an older
// epoch are dropped, so cancelling a machine and starting a new one can
// never be raced by a stale timer.
package engine

import (
	"sync/atomic"
	"time"
)

// Phase is the presentation state of a machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseShowing
	PhaseCollecting
	PhaseFeedback
	PhaseSummary
)

// String returns a short name for logging.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShowing:
		return "showing"
	case PhaseCollecting:
		return "collecting"
	case PhaseFeedback:
		return "feedback"
	case PhaseSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// feedbackDuration is how long the correctness flash stays on screen.
const feedbackDuration = 1200 * time.Millisecond

// heartbeat is the countdown refresh interval for board games.
const heartbeat = 100 * time.Millisecond

// TickMsg is delivered when a scheduled timer fires.
type TickMsg struct {
	Gen   int64
	Epoch int
	At    time.Time
}

// machineGen issues a distinct generation to every machine, so a tick
// scheduled by one machine can never match another machine whose private
// epoch counter happens to hold the same value.
var machineGen atomic.Int64

// timer hands out epochs and detects stale ticks. Staleness is checked
// against both the machine generation and the epoch: the generation rejects
// ticks from any other machine instance, the epoch rejects ticks superseded
// within this one.
type timer struct {
	gen   int64
	epoch int
}

func newTimer() timer {
	return timer{gen: machineGen.Add(1)}
}

// bump invalidates every pending tick.
func (t *timer) bump() {
	t.epoch++
}

func (t *timer) stale(msg TickMsg) bool {
	return msg.Gen != t.gen || msg.Epoch != t.epoch
}

// RoundOutcome is the evaluated result of one round.
type RoundOutcome struct {
	Correct      bool
	TimedOut     bool
	ReactionTime time.Duration
	Expected     string
	Given        string
}

// PerformanceState tracks rolling performance for one game instance. It is
// mutated only by the owning machine's evaluation step.
type PerformanceState struct {
	Level           int
	StreakCorrect   int
	StreakBest      int
	TotalAttempts   int
	TotalCorrect    int
	Errors          int
	BoardsCompleted int
}

// Accuracy returns total correct over total attempts in [0,1].
func (p PerformanceState) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalAttempts)
}

func (p *PerformanceState) record(correct bool) {
	p.TotalAttempts++
	if correct {
		p.TotalCorrect++
		p.StreakCorrect++
		if p.StreakCorrect > p.StreakBest {
			p.StreakBest = p.StreakCorrect
		}
		return
	}
	p.StreakCorrect = 0
	p.Errors++
}

// Summary is the terminal report of a finished instance.
type Summary struct {
	GameCode string
	Score    int
	Accuracy float64
	Duration time.Duration
	Level    int
	WPM      float64
	Boards   int
	Rounds   int
}

// Step reports the result of one machine transition. Delay > 0 means the
// host must schedule a TickMsg carrying the given Gen and Epoch after
// Delay. Stale steps carry no other information.
type Step struct {
	Delay          time.Duration
	Gen            int64
	Epoch          int
	Stale          bool
	Outcome        *RoundOutcome
	LevelChanged   bool
	LevelUp        bool
	BoardCompleted bool
	BoardScore     int
	Finished       bool
}

func (s Step) schedule(t timer, d time.Duration) Step {
	s.Gen = t.gen
	s.Epoch = t.epoch
	s.Delay = d
	return s
}

// stamp tags a step with the timer's identity without scheduling anything.
func (s Step) stamp(t timer) Step {
	s.Gen = t.gen
	s.Epoch = t.epoch
	return s
}
