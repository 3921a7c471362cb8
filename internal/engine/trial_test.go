package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/mgalan/lince/internal/model"
)

// stubTrial serves a fixed two-stimulus choice round.
type stubTrial struct {
	rounds  int
	spec    TrialSpec
	failGen bool
}

func (s *stubTrial) Ref() model.GameRef { return model.GameRef{Code: "stub_trial"} }

func (s *stubTrial) Trial(level int, rng *rand.Rand) (TrialSpec, error) {
	if s.failGen {
		return TrialSpec{}, nil
	}
	return s.spec, nil
}

func (s *stubTrial) Rounds() int { return s.rounds }

func choiceSpec() TrialSpec {
	return TrialSpec{
		Stimuli:  []string{"uno", "dos"},
		Exposure: 100 * time.Millisecond,
		Paced:    true,
		Question: "¿última palabra?",
		Options:  []string{"dos", "tres"},
		Answer:   0,
		Points:   10,
	}
}

func advance(t *testing.T, m *TrialMachine, step Step, now time.Time) (Step, time.Time) {
	t.Helper()
	if step.Delay <= 0 {
		t.Fatalf("expected a scheduled tick, got %+v", step)
	}
	now = now.Add(step.Delay)
	return m.Tick(TickMsg{Gen: step.Gen, Epoch: step.Epoch, At: now}, now), now
}

func TestTrialMachineFlow(t *testing.T) {
	game := &stubTrial{rounds: 2, spec: choiceSpec()}
	m := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	now := time.Unix(0, 0)

	step := m.Start(now)
	if m.Phase() != PhaseShowing {
		t.Fatalf("phase after start = %v, want showing", m.Phase())
	}

	// Two stimuli, then collection opens.
	step, now = advance(t, m, step, now)
	if m.Phase() != PhaseShowing {
		t.Fatalf("phase after first exposure = %v, want showing", m.Phase())
	}
	_, now = advance(t, m, step, now)
	if m.Phase() != PhaseCollecting {
		t.Fatalf("phase after last exposure = %v, want collecting", m.Phase())
	}

	step = m.Choose(0, now.Add(300*time.Millisecond))
	if m.Phase() != PhaseFeedback {
		t.Fatalf("phase after answer = %v, want feedback", m.Phase())
	}
	if step.Outcome == nil || !step.Outcome.Correct {
		t.Fatalf("correct answer not reported: %+v", step.Outcome)
	}
	if m.Score() != 10 {
		t.Fatalf("score = %d, want 10", m.Score())
	}
	if got := m.Last().ReactionTime; got != 300*time.Millisecond {
		t.Fatalf("reaction time = %v, want 300ms", got)
	}

	// Feedback tick starts round two; finishing it ends the instance.
	step, now = advance(t, m, step, now)
	if m.Phase() != PhaseShowing {
		t.Fatalf("phase after feedback = %v, want showing", m.Phase())
	}
	step, now = advance(t, m, step, now)
	_, now = advance(t, m, step, now)
	step = m.Choose(1, now)
	if step.Outcome == nil || step.Outcome.Correct {
		t.Fatalf("wrong answer not reported: %+v", step.Outcome)
	}
	step, now = advance(t, m, step, now)
	if !step.Finished {
		t.Fatalf("expected finished step, got %+v", step)
	}
	if m.Phase() != PhaseSummary {
		t.Fatalf("phase = %v, want summary", m.Phase())
	}
	summary := m.Summary()
	if summary.Rounds != 2 || summary.Score != 10 {
		t.Fatalf("summary = %+v, want 2 rounds, 10 points", summary)
	}
	if summary.Accuracy != 0.5 {
		t.Fatalf("accuracy = %v, want 0.5", summary.Accuracy)
	}
	if summary.WPM <= 0 {
		t.Fatalf("wpm should be measured, got %v", summary.WPM)
	}
}

func TestTrialCollectTimeoutIsIncorrect(t *testing.T) {
	spec := choiceSpec()
	spec.Stimuli = []string{"uno"}
	spec.CollectTimeout = 50 * time.Millisecond
	game := &stubTrial{rounds: 1, spec: spec}
	m := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	now := time.Unix(0, 0)

	step := m.Start(now)
	step, now = advance(t, m, step, now) // exposure done, collecting armed
	if m.Phase() != PhaseCollecting {
		t.Fatalf("phase = %v, want collecting", m.Phase())
	}
	step, _ = advance(t, m, step, now) // collect timeout fires
	if step.Outcome == nil || !step.Outcome.TimedOut || step.Outcome.Correct {
		t.Fatalf("timeout outcome = %+v, want timed-out incorrect", step.Outcome)
	}
	if m.Perf().Errors != 1 {
		t.Fatalf("errors = %d, want 1", m.Perf().Errors)
	}
}

func TestTrialAcceptsSingleInput(t *testing.T) {
	game := &stubTrial{rounds: 2, spec: choiceSpec()}
	m := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	now := time.Unix(0, 0)

	step := m.Start(now)
	step, now = advance(t, m, step, now)
	_, now = advance(t, m, step, now)

	m.Choose(0, now)
	score := m.Score()
	extra := m.Choose(0, now)
	if extra.Outcome != nil || m.Score() != score {
		t.Fatalf("second answer must be ignored: %+v, score %d", extra, m.Score())
	}
	// Input outside collecting is also ignored.
	if out := m.Submit("dos", now); out.Outcome != nil {
		t.Fatalf("submit during feedback must be ignored: %+v", out)
	}
}

func TestTrialFreeInputMatchesAccentInsensitive(t *testing.T) {
	spec := TrialSpec{
		Stimuli:  []string{"está"},
		Exposure: 50 * time.Millisecond,
		Expected: "está",
		Points:   4,
	}
	game := &stubTrial{rounds: 1, spec: spec}
	m := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	now := time.Unix(0, 0)

	step := m.Start(now)
	_, now = advance(t, m, step, now)
	out := m.Submit("ESTA", now)
	if out.Outcome == nil || !out.Outcome.Correct {
		t.Fatalf("accent/case-insensitive match failed: %+v", out.Outcome)
	}
}

func TestTrialStaleTickIsDropped(t *testing.T) {
	game := &stubTrial{rounds: 1, spec: choiceSpec()}
	m := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	now := time.Unix(0, 0)

	step := m.Start(now)
	m.Cancel()
	if m.Phase() != PhaseIdle {
		t.Fatalf("phase after cancel = %v, want idle", m.Phase())
	}
	got := m.Tick(TickMsg{Gen: step.Gen, Epoch: step.Epoch, At: now.Add(step.Delay)}, now.Add(step.Delay))
	if !got.Stale {
		t.Fatalf("pre-cancel tick must be stale: %+v", got)
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("stale tick mutated phase to %v", m.Phase())
	}
}

func TestTrialTickFromSupersededMachineIsIgnored(t *testing.T) {
	// Cancelling a machine and starting a fresh one leaves the old machine's
	// collect timeout in flight with an epoch number the new machine will
	// also reach; the generation tag must keep the two apart.
	game := &stubTrial{rounds: 1, spec: choiceSpec()}
	now := time.Unix(0, 0)

	old := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	pending := old.Start(now)
	old.Cancel()

	fresh := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	fresh.Start(now)
	_, idxBefore, _ := fresh.Stimulus()

	late := now.Add(pending.Delay)
	got := fresh.Tick(TickMsg{Gen: pending.Gen, Epoch: pending.Epoch, At: late}, late)
	if !got.Stale {
		t.Fatalf("old machine's tick accepted by the new one: %+v", got)
	}
	if _, idxAfter, _ := fresh.Stimulus(); idxAfter != idxBefore {
		t.Fatalf("old machine's tick advanced the stimulus: %d -> %d", idxBefore, idxAfter)
	}
	if fresh.Phase() != PhaseShowing {
		t.Fatalf("phase = %v, want showing", fresh.Phase())
	}
}

func TestTrialWPMOnlyForPacedRounds(t *testing.T) {
	spec := TrialSpec{
		Stimuli:  []string{"4821"},
		Exposure: 50 * time.Millisecond,
		Expected: "4821",
		Points:   2,
	}
	game := &stubTrial{rounds: 1, spec: spec}
	m := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	now := time.Unix(0, 0)

	step := m.Start(now)
	_, now = advance(t, m, step, now)
	step = m.Submit("4821", now)
	step, _ = advance(t, m, step, now)
	if !step.Finished {
		t.Fatalf("expected finished step, got %+v", step)
	}
	if got := m.Summary().WPM; got != 0 {
		t.Fatalf("unpaced round reported wpm %v, want 0", got)
	}
}

func TestTrialDegenerateGenerationFinishes(t *testing.T) {
	game := &stubTrial{rounds: 3, failGen: true}
	m := NewTrialMachine(game, 1, rand.New(rand.NewSource(1)))
	step := m.Start(time.Unix(0, 0))
	if !step.Finished || m.Phase() != PhaseSummary {
		t.Fatalf("empty generation should end the instance: %+v, phase %v", step, m.Phase())
	}
}
