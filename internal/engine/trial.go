package engine

import (
	"math/rand"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/wordbank"
)

// TrialSpec is one generated round for a trial game: a stimulus sequence
// followed by either a multiple-choice question or free-form input.
type TrialSpec struct {
	Stimuli  []string
	Exposure time.Duration

	Question string
	Options  []string // multiple choice when non-empty
	Answer   int      // index into Options

	Expected string // free-text expected answer when Options is empty
	InputLen int    // max input length for free text, 0 = unbounded

	// Paced marks reading-paced rounds: the stimulus stream counts toward
	// the measured reading rate. Memory and puzzle rounds leave it false so
	// they report no WPM.
	Paced bool

	CollectTimeout time.Duration // 0 = wait forever for input
	Points         int           // score for a correct answer
}

// TrialGame generates rounds for a trial-family mini-game.
type TrialGame interface {
	Ref() model.GameRef
	// Trial builds the next round for the given level. Implementations fall
	// back to broader stimulus pools rather than failing on thin ones.
	Trial(level int, rng *rand.Rand) (TrialSpec, error)
	// Rounds is the number of trials in one instance.
	Rounds() int
}

// TrialMachine drives Idle → Showing → Collecting → Feedback → (Showing |
// Summary) for a TrialGame. Rounds are strictly sequential; a new round
// begins only after the previous feedback completes.
type TrialMachine struct {
	game    TrialGame
	rng     *rand.Rand
	timer   timer
	ratchet difficulty.StreakRatchet

	phase     Phase
	spec      TrialSpec
	idx       int
	rounds    int
	score     int
	perf      PerformanceState
	last      RoundOutcome
	startedAt time.Time
	collectAt time.Time

	shownWords int
	shownTime  time.Duration

	summary Summary
}

// NewTrialMachine creates a machine at the given starting level.
func NewTrialMachine(game TrialGame, level int, rng *rand.Rand) *TrialMachine {
	return &TrialMachine{
		game:  game,
		rng:   rng,
		timer: newTimer(),
		perf:  PerformanceState{Level: difficulty.Clamp(level)},
	}
}

// Start begins the first round. It is a no-op outside Idle.
func (m *TrialMachine) Start(now time.Time) Step {
	if m.phase != PhaseIdle {
		return Step{}
	}
	m.startedAt = now
	return m.startRound(now)
}

// Tick advances the machine when a scheduled timer fires. Ticks from an
// older epoch are reported stale and change nothing.
func (m *TrialMachine) Tick(msg TickMsg, now time.Time) Step {
	if m.timer.stale(msg) {
		return Step{Stale: true}
	}
	switch m.phase {
	case PhaseShowing:
		if m.spec.Paced {
			m.shownWords++
			m.shownTime += m.spec.Exposure
		}
		if m.idx+1 < len(m.spec.Stimuli) {
			m.idx++
			m.timer.bump()
			return Step{}.schedule(m.timer, m.spec.Exposure)
		}
		return m.enterCollecting(now)
	case PhaseCollecting:
		// Collect timeout: no answer counts as an incorrect round.
		return m.judge(RoundOutcome{
			TimedOut:     true,
			ReactionTime: now.Sub(m.collectAt),
			Expected:     m.expectedLabel(),
		}, now)
	case PhaseFeedback:
		if m.rounds >= m.game.Rounds() {
			return m.finish(now)
		}
		return m.startRound(now)
	default:
		return Step{}
	}
}

// Choose submits a multiple-choice answer. Input outside Collecting, or any
// input after the first, is ignored.
func (m *TrialMachine) Choose(i int, now time.Time) Step {
	if m.phase != PhaseCollecting || len(m.spec.Options) == 0 {
		return Step{}
	}
	if i < 0 || i >= len(m.spec.Options) {
		return Step{}
	}
	return m.judge(RoundOutcome{
		Correct:      i == m.spec.Answer,
		ReactionTime: now.Sub(m.collectAt),
		Expected:     m.expectedLabel(),
		Given:        m.spec.Options[i],
	}, now)
}

// Submit submits a free-text answer, matched accent- and case-insensitively.
func (m *TrialMachine) Submit(text string, now time.Time) Step {
	if m.phase != PhaseCollecting || len(m.spec.Options) != 0 {
		return Step{}
	}
	return m.judge(RoundOutcome{
		Correct:      wordbank.Equal(text, m.spec.Expected),
		ReactionTime: now.Sub(m.collectAt),
		Expected:     m.spec.Expected,
		Given:        text,
	}, now)
}

// Cancel tears the machine down to Idle. The epoch bump invalidates every
// pending tick, so nothing scheduled before the cancel can fire into a
// later run.
func (m *TrialMachine) Cancel() {
	m.timer.bump()
	m.phase = PhaseIdle
	m.idx = 0
}

func (m *TrialMachine) startRound(now time.Time) Step {
	spec, err := m.game.Trial(m.perf.Level, m.rng)
	if err != nil || len(spec.Stimuli) == 0 {
		// Degenerate generation ends the instance instead of breaking it.
		return m.finish(now)
	}
	m.spec = spec
	m.idx = 0
	m.phase = PhaseShowing
	m.timer.bump()
	return Step{}.schedule(m.timer, spec.Exposure)
}

func (m *TrialMachine) enterCollecting(now time.Time) Step {
	m.phase = PhaseCollecting
	m.collectAt = now
	m.timer.bump()
	if m.spec.CollectTimeout > 0 {
		return Step{}.schedule(m.timer, m.spec.CollectTimeout)
	}
	return Step{}.stamp(m.timer)
}

func (m *TrialMachine) judge(out RoundOutcome, now time.Time) Step {
	m.perf.record(out.Correct)
	if out.Correct {
		m.score += m.spec.Points
	}
	next, changed := m.ratchet.Observe(m.perf.Level, out.Correct)
	up := changed && next > m.perf.Level
	m.perf.Level = next
	m.rounds++
	m.last = out
	m.phase = PhaseFeedback
	m.timer.bump()
	step := Step{Outcome: &out, LevelChanged: changed, LevelUp: up}
	return step.schedule(m.timer, feedbackDuration)
}

func (m *TrialMachine) finish(now time.Time) Step {
	m.phase = PhaseSummary
	m.timer.bump()
	m.summary = Summary{
		GameCode: m.game.Ref().Code,
		Score:    m.score,
		Accuracy: m.perf.Accuracy(),
		Duration: now.Sub(m.startedAt),
		Level:    m.perf.Level,
		WPM:      m.wpm(),
		Rounds:   m.rounds,
	}
	return Step{Finished: true}.stamp(m.timer)
}

func (m *TrialMachine) wpm() float64 {
	if m.shownTime <= 0 {
		return 0
	}
	return float64(m.shownWords) / m.shownTime.Minutes()
}

func (m *TrialMachine) expectedLabel() string {
	if len(m.spec.Options) > 0 {
		return m.spec.Options[m.spec.Answer]
	}
	return m.spec.Expected
}

// Phase returns the current machine phase.
func (m *TrialMachine) Phase() Phase { return m.phase }

// Spec returns the active round.
func (m *TrialMachine) Spec() TrialSpec { return m.spec }

// Stimulus returns the currently revealed stimulus and its position.
func (m *TrialMachine) Stimulus() (string, int, int) {
	if m.idx >= len(m.spec.Stimuli) {
		return "", m.idx, len(m.spec.Stimuli)
	}
	return m.spec.Stimuli[m.idx], m.idx, len(m.spec.Stimuli)
}

// Rounds returns completed and total round counts.
func (m *TrialMachine) Rounds() (int, int) { return m.rounds, m.game.Rounds() }

// Perf returns a copy of the performance state.
func (m *TrialMachine) Perf() PerformanceState { return m.perf }

// Score returns the accumulated score.
func (m *TrialMachine) Score() int { return m.score }

// Last returns the most recent round outcome.
func (m *TrialMachine) Last() RoundOutcome { return m.last }

// Summary returns the terminal report; valid once Finished.
func (m *TrialMachine) Summary() Summary { return m.summary }
