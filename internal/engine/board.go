package engine

import (
	"math/rand"
	"time"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/model"
)

// Cell is one clickable position on a board.
type Cell struct {
	Label  string
	Target bool
	Order  int // 1-based acquisition order on ordered boards, 0 otherwise
	Found  bool
}

// BoardSpec is one generated board.
type BoardSpec struct {
	Size      int
	Cells     []Cell
	Targets   int // cells that must be acquired to complete the board
	Ordered   bool
	Prompt    string
	Threshold time.Duration // pass budget for the promotion check
}

// BoardGame generates boards for a click-driven mini-game.
type BoardGame interface {
	Ref() model.GameRef
	Board(level int, rng *rand.Rand) (BoardSpec, error)
	// CellPoints is the score for one acquired target at the level.
	CellPoints(level int) int
	// Penalty is the score and time cost of a wrong click.
	Penalty() (points int, cost time.Duration)
	// Budget is the wall-clock time for one instance.
	Budget() time.Duration
}

// BoardMachine runs the continuous target-acquisition loop: clicks are
// evaluated immediately, completed boards apply the one-way promotion
// ratchet and regenerate, and the instance ends when its time budget runs
// out. Board completion is the round boundary; XP accrues per board.
type BoardMachine struct {
	game  BoardGame
	rng   *rand.Rand
	timer timer

	phase Phase
	spec  BoardSpec
	perf  PerformanceState

	score       int
	boardScore  int
	boardErrors int
	nextOrder   int
	found       int

	startedAt    time.Time
	boardStarted time.Time
	deadline     time.Time

	summary Summary
}

// NewBoardMachine creates a machine at the given starting level.
func NewBoardMachine(game BoardGame, level int, rng *rand.Rand) *BoardMachine {
	return &BoardMachine{
		game:  game,
		rng:   rng,
		timer: newTimer(),
		perf:  PerformanceState{Level: difficulty.Clamp(level)},
	}
}

// Start generates the first board and starts the countdown heartbeat.
func (m *BoardMachine) Start(now time.Time) Step {
	if m.phase != PhaseIdle {
		return Step{}
	}
	m.startedAt = now
	m.deadline = now.Add(m.game.Budget())
	if step, ok := m.nextBoard(now); !ok {
		return step
	}
	m.timer.bump()
	return Step{}.schedule(m.timer, heartbeat)
}

// Tick is the countdown heartbeat. Stale ticks change nothing.
func (m *BoardMachine) Tick(msg TickMsg, now time.Time) Step {
	if m.timer.stale(msg) {
		return Step{Stale: true}
	}
	if m.phase != PhaseCollecting {
		return Step{}
	}
	if !now.Before(m.deadline) {
		return m.finish(now)
	}
	return Step{}.schedule(m.timer, heartbeat)
}

// Click evaluates one cell acquisition. Clicks outside an active board or on
// already-found cells are ignored.
func (m *BoardMachine) Click(i int, now time.Time) Step {
	if m.phase != PhaseCollecting || i < 0 || i >= len(m.spec.Cells) {
		return Step{}
	}
	cell := m.spec.Cells[i]
	if cell.Found {
		return Step{}
	}

	hit := cell.Target
	if m.spec.Ordered {
		hit = cell.Order == m.nextOrder
	}
	if !hit {
		m.perf.record(false)
		m.boardErrors++
		points, cost := m.game.Penalty()
		m.score = maxInt(0, m.score-points)
		m.boardScore = maxInt(0, m.boardScore-points)
		if cost > 0 {
			// Explicit punishment beyond scoring: burn remaining time.
			m.deadline = m.deadline.Add(-cost)
		}
		return Step{Outcome: &RoundOutcome{Correct: false}}.stamp(m.timer)
	}

	m.spec.Cells[i].Found = true
	m.perf.record(true)
	m.found++
	m.nextOrder++
	pts := m.game.CellPoints(m.perf.Level)
	m.score += pts
	m.boardScore += pts

	if m.found < m.spec.Targets {
		return Step{Outcome: &RoundOutcome{Correct: true}}.stamp(m.timer)
	}
	return m.completeBoard(now)
}

// Cancel tears the machine down to Idle and invalidates pending ticks.
func (m *BoardMachine) Cancel() {
	m.timer.bump()
	m.phase = PhaseIdle
}

func (m *BoardMachine) completeBoard(now time.Time) Step {
	m.perf.BoardsCompleted++
	out := difficulty.BoardOutcome{
		Errors:    m.boardErrors,
		BoardTime: now.Sub(m.boardStarted),
	}
	next, changed := difficulty.BoardNext(m.perf.Level, out, m.spec.Threshold)
	m.perf.Level = next
	boardScore := m.boardScore

	step, ok := m.nextBoard(now)
	if !ok {
		step.BoardCompleted = true
		step.BoardScore = boardScore
		step.LevelChanged = changed
		step.LevelUp = changed
		return step
	}
	return Step{
		Outcome:        &RoundOutcome{Correct: true},
		BoardCompleted: true,
		BoardScore:     boardScore,
		LevelChanged:   changed,
		LevelUp:        changed,
	}.stamp(m.timer)
}

// nextBoard generates a fresh board. It reports false when generation fails
// and the machine has moved to Summary instead.
func (m *BoardMachine) nextBoard(now time.Time) (Step, bool) {
	spec, err := m.game.Board(m.perf.Level, m.rng)
	if err != nil || len(spec.Cells) == 0 || spec.Targets == 0 {
		return m.finish(now), false
	}
	m.spec = spec
	m.boardErrors = 0
	m.boardScore = 0
	m.found = 0
	m.nextOrder = 1
	m.boardStarted = now
	m.phase = PhaseCollecting
	return Step{}, true
}

func (m *BoardMachine) finish(now time.Time) Step {
	m.phase = PhaseSummary
	m.timer.bump()
	m.summary = Summary{
		GameCode: m.game.Ref().Code,
		Score:    m.score,
		Accuracy: m.perf.Accuracy(),
		Duration: now.Sub(m.startedAt),
		Level:    m.perf.Level,
		Boards:   m.perf.BoardsCompleted,
	}
	return Step{Finished: true}.stamp(m.timer)
}

// Phase returns the current machine phase.
func (m *BoardMachine) Phase() Phase { return m.phase }

// Spec returns the active board.
func (m *BoardMachine) Spec() BoardSpec { return m.spec }

// NextOrder returns the next expected order index on ordered boards.
func (m *BoardMachine) NextOrder() int { return m.nextOrder }

// Remaining returns the time left before the instance deadline.
func (m *BoardMachine) Remaining(now time.Time) time.Duration {
	if m.phase != PhaseCollecting {
		return 0
	}
	left := m.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Perf returns a copy of the performance state.
func (m *BoardMachine) Perf() PerformanceState { return m.perf }

// Score returns the accumulated score.
func (m *BoardMachine) Score() int { return m.score }

// FoundTargets returns acquired and required target counts for the board.
func (m *BoardMachine) FoundTargets() (int, int) { return m.found, m.spec.Targets }

// Summary returns the terminal report; valid once Finished.
func (m *BoardMachine) Summary() Summary { return m.summary }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
