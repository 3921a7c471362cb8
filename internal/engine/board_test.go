package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/mgalan/lince/internal/model"
)

// stubBoard serves a fixed 2x2 board with two targets.
type stubBoard struct {
	ordered   bool
	penalty   int
	timeCost  time.Duration
	budget    time.Duration
	threshold time.Duration
	boards    int
}

func (s *stubBoard) Ref() model.GameRef { return model.GameRef{Code: "stub_board"} }

func (s *stubBoard) Board(level int, rng *rand.Rand) (BoardSpec, error) {
	s.boards++
	cells := []Cell{
		{Label: "a", Target: true},
		{Label: "b"},
		{Label: "c", Target: true},
		{Label: "d"},
	}
	if s.ordered {
		cells[0].Order = 1
		cells[2].Order = 2
	}
	return BoardSpec{
		Size:      2,
		Cells:     cells,
		Targets:   2,
		Ordered:   s.ordered,
		Prompt:    "encuentra los objetivos",
		Threshold: s.threshold,
	}, nil
}

func (s *stubBoard) CellPoints(int) int { return 10 }

func (s *stubBoard) Penalty() (int, time.Duration) { return s.penalty, s.timeCost }

func (s *stubBoard) Budget() time.Duration { return s.budget }

func newStubBoardMachine(game *stubBoard) (*BoardMachine, time.Time, Step) {
	m := NewBoardMachine(game, 1, rand.New(rand.NewSource(1)))
	now := time.Unix(0, 0)
	step := m.Start(now)
	return m, now, step
}

func TestBoardClickFlow(t *testing.T) {
	game := &stubBoard{penalty: 5, budget: 10 * time.Second, threshold: 12 * time.Second}
	m, now, _ := newStubBoardMachine(game)

	// Wrong cell: penalty, no progress.
	step := m.Click(1, now)
	if step.Outcome == nil || step.Outcome.Correct {
		t.Fatalf("wrong click outcome = %+v", step.Outcome)
	}
	if m.Score() != 0 {
		t.Fatalf("score after penalty = %d, want 0 (floored)", m.Score())
	}

	// First target.
	step = m.Click(0, now)
	if step.Outcome == nil || !step.Outcome.Correct {
		t.Fatalf("target click outcome = %+v", step.Outcome)
	}
	if m.Score() != 10 {
		t.Fatalf("score = %d, want 10", m.Score())
	}

	// Re-clicking a found cell is ignored.
	if extra := m.Click(0, now); extra.Outcome != nil {
		t.Fatalf("found cell click must be ignored: %+v", extra)
	}

	// Second target completes the board within threshold: promotion fires
	// and a fresh board replaces it.
	step = m.Click(2, now.Add(3*time.Second))
	if !step.BoardCompleted {
		t.Fatalf("expected board completion: %+v", step)
	}
	if step.BoardScore != 20 {
		t.Fatalf("board score = %d, want 20", step.BoardScore)
	}
	if !step.LevelUp || m.Perf().Level != 2 {
		t.Fatalf("clean fast board should promote: levelUp=%v level=%d", step.LevelUp, m.Perf().Level)
	}
	if game.boards != 2 {
		t.Fatalf("boards generated = %d, want 2", game.boards)
	}
	if found, _ := m.FoundTargets(); found != 0 {
		t.Fatalf("new board should start clean, found = %d", found)
	}
}

func TestBoardOrderedAcquisition(t *testing.T) {
	game := &stubBoard{ordered: true, penalty: 5, budget: 10 * time.Second, threshold: 12 * time.Second}
	m, now, _ := newStubBoardMachine(game)

	// The second-in-order cell is wrong while order 1 is outstanding, even
	// though it is a target.
	step := m.Click(2, now)
	if step.Outcome == nil || step.Outcome.Correct {
		t.Fatalf("out-of-order click must be wrong: %+v", step.Outcome)
	}
	step = m.Click(0, now)
	if step.Outcome == nil || !step.Outcome.Correct {
		t.Fatalf("in-order click must hit: %+v", step.Outcome)
	}
	if m.NextOrder() != 2 {
		t.Fatalf("next order = %d, want 2", m.NextOrder())
	}
}

func TestBoardTimeCostBurnsDeadline(t *testing.T) {
	game := &stubBoard{penalty: 5, timeCost: 2 * time.Second, budget: 10 * time.Second, threshold: 12 * time.Second}
	m, now, _ := newStubBoardMachine(game)

	before := m.Remaining(now)
	m.Click(1, now)
	after := m.Remaining(now)
	if before-after != 2*time.Second {
		t.Fatalf("wrong click should burn 2s: before %v, after %v", before, after)
	}
}

func TestBoardDeadlineEndsInstance(t *testing.T) {
	game := &stubBoard{budget: 1 * time.Second, threshold: 12 * time.Second}
	m, now, step := newStubBoardMachine(game)

	m.Click(0, now)
	late := now.Add(2 * time.Second)
	got := m.Tick(TickMsg{Gen: step.Gen, Epoch: step.Epoch, At: late}, late)
	if !got.Finished || m.Phase() != PhaseSummary {
		t.Fatalf("deadline should finish the instance: %+v, phase %v", got, m.Phase())
	}
	summary := m.Summary()
	if summary.Score != 10 || summary.Boards != 0 {
		t.Fatalf("summary = %+v, want score 10 and 0 completed boards", summary)
	}
	// Clicks after the end change nothing.
	if out := m.Click(2, late); out.Outcome != nil {
		t.Fatalf("click after finish must be ignored: %+v", out)
	}
}

func TestBoardStaleTickAfterCancel(t *testing.T) {
	game := &stubBoard{budget: 10 * time.Second, threshold: 12 * time.Second}
	m, now, step := newStubBoardMachine(game)

	m.Cancel()
	got := m.Tick(TickMsg{Gen: step.Gen, Epoch: step.Epoch, At: now.Add(step.Delay)}, now.Add(step.Delay))
	if !got.Stale {
		t.Fatalf("pre-cancel heartbeat must be stale: %+v", got)
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("stale tick mutated phase to %v", m.Phase())
	}
}

func TestBoardTickFromSupersededMachineIsIgnored(t *testing.T) {
	game := &stubBoard{budget: 10 * time.Second, threshold: 12 * time.Second}
	_, now, pending := newStubBoardMachine(game)

	fresh := NewBoardMachine(game, 1, rand.New(rand.NewSource(1)))
	fresh.Start(now)

	late := now.Add(time.Hour) // would end the fresh instance if accepted
	got := fresh.Tick(TickMsg{Gen: pending.Gen, Epoch: pending.Epoch, At: late}, late)
	if !got.Stale {
		t.Fatalf("old machine's heartbeat accepted by the new one: %+v", got)
	}
	if fresh.Phase() != PhaseCollecting {
		t.Fatalf("phase = %v, want collecting", fresh.Phase())
	}
}

func TestBoardHeartbeatKeepsScheduling(t *testing.T) {
	game := &stubBoard{budget: 10 * time.Second, threshold: 12 * time.Second}
	m, now, step := newStubBoardMachine(game)

	for i := 0; i < 5; i++ {
		now = now.Add(step.Delay)
		step = m.Tick(TickMsg{Gen: step.Gen, Epoch: step.Epoch, At: now}, now)
		if step.Delay <= 0 {
			t.Fatalf("heartbeat %d stopped scheduling: %+v", i, step)
		}
	}
}
