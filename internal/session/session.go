// Package session plans and tracks one timed training session.
package session

import (
	"math/rand"
	"time"

	"github.com/mgalan/lince/internal/model"
)

// skillCutoff is the minimum tag weight for a game to qualify for a mode.
const skillCutoff = 0.5

// Recorder persists session progress. Implementations must tolerate being
// called often; callers treat every method as best-effort.
type Recorder interface {
	LoadLastLevel(user, gameCode string) (int, bool, error)
	SaveLevel(user, gameCode string, level int) error
	RecordRun(run model.RunStats) (int64, error)
	AppendXP(entry model.XPEntry) error
}

// Summary is the terminal report for one session.
type Summary struct {
	Mode           model.Mode
	GamesCompleted int
	TotalXP        int
	Duration       time.Duration
}

// Orchestrator sequences mini-games inside a hard wall-clock budget. A
// finished orchestrator cannot be restarted; build a new one per session.
type Orchestrator struct {
	cfg   model.Config
	queue []model.GameRef
	idx   int

	startedAt time.Time
	endsAt    time.Time
	started   bool
	ended     bool

	totalXP   int
	completed int
}

// New plans a session: games whose tag weight for the mode exceeds the
// cutoff, in uniformly random order. Combo mode admits the whole catalog.
func New(cfg model.Config, catalog []model.GameRef, rng *rand.Rand) *Orchestrator {
	queue := make([]model.GameRef, 0, len(catalog))
	for _, ref := range catalog {
		if ref.Skills.Weight(cfg.Mode) > skillCutoff {
			queue = append(queue, ref)
		}
	}
	rng.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })
	return &Orchestrator{cfg: cfg, queue: queue}
}

// Start arms the wall clock. Calling Start twice is a no-op.
func (o *Orchestrator) Start(now time.Time) {
	if o.started {
		return
	}
	o.started = true
	o.startedAt = now
	o.endsAt = now.Add(time.Duration(o.cfg.Minutes) * time.Minute)
}

// Next returns the game to launch. It returns false once the time budget is
// spent or the queue is exhausted; after that the session is over for good.
// A game already past the budget at launch time never starts: the budget is
// checked before handing out each game, not during one.
func (o *Orchestrator) Next(now time.Time) (model.GameRef, bool) {
	if !o.started || o.ended {
		return model.GameRef{}, false
	}
	if !now.Before(o.endsAt) || o.idx >= len(o.queue) {
		o.ended = true
		return model.GameRef{}, false
	}
	ref := o.queue[o.idx]
	o.idx++
	return ref, true
}

// Complete records a finished game and its awarded XP.
func (o *Orchestrator) Complete(xpAwarded int) {
	o.completed++
	o.totalXP += xpAwarded
}

// Remaining returns the time left in the budget, never negative.
func (o *Orchestrator) Remaining(now time.Time) time.Duration {
	if !o.started {
		return 0
	}
	if d := o.endsAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Ended reports whether the session has concluded.
func (o *Orchestrator) Ended() bool { return o.ended }

// Planned returns the number of games in the session plan.
func (o *Orchestrator) Planned() int { return len(o.queue) }

// Config returns the session settings.
func (o *Orchestrator) Config() model.Config { return o.cfg }

// Summarize closes the session and returns its report.
func (o *Orchestrator) Summarize(now time.Time) Summary {
	o.ended = true
	return Summary{
		Mode:           o.cfg.Mode,
		GamesCompleted: o.completed,
		TotalXP:        o.totalXP,
		Duration:       now.Sub(o.startedAt),
	}
}
