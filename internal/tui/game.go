package tui

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgalan/lince/internal/difficulty"
	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/games"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/xp"
)

// activeGame is the machine currently on screen. Exactly one of trial and
// board is non-nil.
type activeGame struct {
	ref   model.GameRef
	trial *engine.TrialMachine
	board *engine.BoardMachine

	cursor       int // selected cell on board games
	startedAt    time.Time
	levelAtStart int
}

// gameResult is what the between screen reports for a finished game.
type gameResult struct {
	Summary engine.Summary
	Name    string
	XP      int
}

// stepCmd maps an engine step onto a real timer.
func stepCmd(step engine.Step) tea.Cmd {
	if step.Delay <= 0 {
		return nil
	}
	gen, epoch := step.Gen, step.Epoch
	return tea.Tick(step.Delay, func(t time.Time) tea.Msg {
		return engine.TickMsg{Gen: gen, Epoch: epoch, At: t}
	})
}

func (m *Model) startGame(code string, now time.Time) (tea.Cmd, error) {
	inst, err := games.New(code, m.bank)
	if err != nil {
		return nil, err
	}
	level := m.loadLevel(code)
	game := &activeGame{ref: inst.Ref, startedAt: now, levelAtStart: level}

	var step engine.Step
	if inst.Board != nil {
		game.board = engine.NewBoardMachine(inst.Board, level, m.rng)
		step = game.board.Start(now)
	} else {
		game.trial = engine.NewTrialMachine(inst.Trial, level, m.rng)
		step = game.trial.Start(now)
	}

	m.game = game
	m.flash = ""
	m.screen = screenPlaying
	m.resetInput()
	if err := m.emitter.GameStart(context.Background(), m.config.User, code, level); err != nil {
		logErrf("telemetry: %v\n", err)
	}
	return m.processStep(step, now), nil
}

func (m *Model) handleTick(msg engine.TickMsg) tea.Cmd {
	if m.game == nil {
		return nil
	}
	now := msg.At
	if now.IsZero() {
		now = time.Now()
	}
	var step engine.Step
	if m.game.board != nil {
		step = m.game.board.Tick(msg, now)
	} else {
		step = m.game.trial.Tick(msg, now)
	}
	return m.processStep(step, now)
}

func (m *Model) handleGameKey(msg tea.KeyMsg, now time.Time) tea.Cmd {
	g := m.game
	if g == nil {
		return nil
	}
	if g.board != nil {
		return m.handleBoardKey(msg, now)
	}
	return m.handleTrialKey(msg, now)
}

func (m *Model) handleBoardKey(msg tea.KeyMsg, now time.Time) tea.Cmd {
	g := m.game
	size := g.board.Spec().Size
	cells := len(g.board.Spec().Cells)
	rows := 0
	if size > 0 {
		rows = (cells + size - 1) / size
	}
	switch msg.String() {
	case "left", "h":
		if g.cursor%size > 0 {
			g.cursor--
		}
	case "right", "l":
		if g.cursor%size < size-1 && g.cursor+1 < cells {
			g.cursor++
		}
	case "up", "k":
		if g.cursor/size > 0 {
			g.cursor -= size
		}
	case "down", "j":
		if g.cursor/size < rows-1 && g.cursor+size < cells {
			g.cursor += size
		}
	case "enter", " ":
		return m.processStep(g.board.Click(g.cursor, now), now)
	}
	return nil
}

func (m *Model) handleTrialKey(msg tea.KeyMsg, now time.Time) tea.Cmd {
	g := m.game
	if g.trial.Phase() != engine.PhaseCollecting {
		return nil
	}
	spec := g.trial.Spec()
	if len(spec.Options) > 0 {
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(spec.Options) {
			return m.processStep(g.trial.Choose(n-1, now), now)
		}
		return nil
	}
	if msg.Type == tea.KeyEnter {
		text := m.input.Value()
		m.resetInput()
		return m.processStep(g.trial.Submit(text, now), now)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// processStep applies a machine step to the UI: feedback flashes, level
// persistence, telemetry, and the next scheduled tick.
func (m *Model) processStep(step engine.Step, now time.Time) tea.Cmd {
	if step.Stale || m.game == nil {
		return nil
	}
	g := m.game

	if step.Outcome != nil {
		if step.Outcome.Correct {
			m.flash = "✓"
		} else if step.Outcome.TimedOut {
			m.flash = "✗ tiempo agotado"
		} else {
			m.flash = "✗"
		}
		m.flashAt = now
	}
	if step.BoardCompleted {
		m.flash = "tablero completado  +" + strconv.Itoa(step.BoardScore)
		m.flashAt = now
	}
	if step.LevelChanged {
		m.saveLevel(g.ref.Code, m.currentLevel())
		if step.LevelUp {
			if err := m.emitter.LevelUp(context.Background(), m.config.User, g.ref.Code, m.currentLevel()); err != nil {
				logErrf("telemetry: %v\n", err)
			}
		}
	}
	if step.Finished {
		m.finishGame(now)
		return nil
	}
	// A fresh round needs a clean input sized to its expected answer.
	if g.trial != nil && g.trial.Phase() == engine.PhaseShowing {
		m.resetInput()
	}
	return stepCmd(step)
}

// finishGame persists the run, awards XP, and moves to the between screen
// (or straight to the final screen in practice mode). Persistence is
// fire-and-forget: failures are logged and gameplay moves on.
func (m *Model) finishGame(now time.Time) {
	g := m.game
	var summary engine.Summary
	if g.board != nil {
		summary = g.board.Summary()
	} else {
		summary = g.trial.Summary()
	}

	award := xp.Compute(summary.GameCode, xp.Inputs{
		Score:    summary.Score,
		Accuracy: summary.Accuracy,
		WPM:      summary.WPM,
		Level:    summary.Level,
	})
	m.totalXP += award
	m.gamesPlayed++
	m.lastSummary = gameResult{Summary: summary, Name: g.ref.Name, XP: award}

	m.recordRun(g, summary, now)
	m.appendXP(summary, award)
	ctx := context.Background()
	if err := m.emitter.GameEnd(ctx, m.config.User, summary.GameCode, summary.Score, summary.Accuracy); err != nil {
		logErrf("telemetry: %v\n", err)
	}
	if err := m.emitter.XPGain(ctx, m.config.User, summary.GameCode, award); err != nil {
		logErrf("telemetry: %v\n", err)
	}
	if summary.WPM > 0 {
		if err := m.emitter.WPMMeasured(ctx, m.config.User, summary.GameCode, summary.WPM); err != nil {
			logErrf("telemetry: %v\n", err)
		}
	}

	m.game = nil
	if m.practice != "" {
		m.screen = screenDone
		return
	}
	m.orch.Complete(award)
	m.screen = screenBetween
}

func (m *Model) cancelGame() {
	if m.game == nil {
		return
	}
	if m.game.board != nil {
		m.game.board.Cancel()
	} else {
		m.game.trial.Cancel()
	}
	m.game = nil
}

func (m *Model) currentLevel() int {
	if m.game == nil {
		return difficulty.MinLevel
	}
	if m.game.board != nil {
		return m.game.board.Perf().Level
	}
	return m.game.trial.Perf().Level
}

func (m *Model) loadLevel(code string) int {
	if m.rec == nil {
		return difficulty.MinLevel
	}
	level, ok, err := m.rec.LoadLastLevel(m.config.User, code)
	if err != nil {
		logErrf("failed to load level for %s: %v\n", code, err)
		return difficulty.MinLevel
	}
	if !ok {
		return difficulty.MinLevel
	}
	return difficulty.Clamp(level)
}

func (m *Model) saveLevel(code string, level int) {
	if m.rec == nil {
		return
	}
	if err := m.rec.SaveLevel(m.config.User, code, level); err != nil {
		logErrf("failed to save level for %s: %v\n", code, err)
	}
}

func (m *Model) recordRun(g *activeGame, summary engine.Summary, now time.Time) {
	if m.rec == nil {
		return
	}
	run := model.RunStats{
		User:        m.config.User,
		GameCode:    summary.GameCode,
		Level:       summary.Level,
		Score:       summary.Score,
		Accuracy:    summary.Accuracy,
		DurationSec: summary.Duration.Seconds(),
		StartedAt:   g.startedAt,
		EndedAt:     now,
		Params: map[string]any{
			"mode":        string(m.config.Mode),
			"start_level": g.levelAtStart,
			"boards":      summary.Boards,
			"rounds":      summary.Rounds,
			"wpm":         summary.WPM,
		},
	}
	if _, err := m.rec.RecordRun(run); err != nil {
		logErrf("failed to save run: %v\n", err)
	}
}

func (m *Model) appendXP(summary engine.Summary, award int) {
	if m.rec == nil {
		return
	}
	entry := model.XPEntry{
		User:   m.config.User,
		Source: summary.GameCode,
		Delta:  award,
		Meta: map[string]any{
			"score":    summary.Score,
			"accuracy": summary.Accuracy,
			"level":    summary.Level,
		},
	}
	if err := m.rec.AppendXP(entry); err != nil {
		logErrf("failed to save xp: %v\n", err)
	}
}

func (m *Model) resetInput() {
	m.input.SetValue("")
	limit := 0
	if m.game != nil && m.game.trial != nil {
		limit = m.game.trial.Spec().InputLen
	}
	m.input.CharLimit = limit
	m.input.Focus()
}
