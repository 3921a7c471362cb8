// Package tui provides the Bubble Tea training interface.
package tui

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgalan/lince/internal/engine"
	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/session"
	"github.com/mgalan/lince/internal/telemetry"
	"github.com/mgalan/lince/internal/wordbank"
)

type screen int

const (
	screenIntro screen = iota
	screenPlaying
	screenBetween
	screenDone
)

// Model implements the Bubble Tea training UI. It hosts one session (or one
// practice game), owns the real timers, and forwards engine steps as
// epoch-tagged ticks.
type Model struct {
	config  model.Config
	rec     session.Recorder
	emitter *telemetry.Emitter
	bank    *wordbank.Bank
	rng     *rand.Rand

	orch     *session.Orchestrator
	practice string // game code; non-empty disables the session clock

	width  int
	height int
	screen screen

	game    *activeGame
	input   textinput.Model
	bar     progress.Model
	flash   string
	flashAt time.Time

	lastSummary  gameResult
	totalXP      int
	gamesPlayed  int
	sessionFinal session.Summary
}

// NewSession constructs a model that runs a full training session.
func NewSession(cfg model.Config, orch *session.Orchestrator, rec session.Recorder, emitter *telemetry.Emitter, bank *wordbank.Bank, rng *rand.Rand) *Model {
	return newModel(cfg, orch, "", rec, emitter, bank, rng)
}

// NewPractice constructs a model that runs a single game outside any session.
func NewPractice(cfg model.Config, gameCode string, rec session.Recorder, emitter *telemetry.Emitter, bank *wordbank.Bank, rng *rand.Rand) *Model {
	return newModel(cfg, nil, gameCode, rec, emitter, bank, rng)
}

func newModel(cfg model.Config, orch *session.Orchestrator, practice string, rec session.Recorder, emitter *telemetry.Emitter, bank *wordbank.Bank, rng *rand.Rand) *Model {
	input := textinput.New()
	input.CharLimit = 0
	input.Prompt = "> "
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage())
	return &Model{
		config:   cfg,
		rec:      rec,
		emitter:  emitter,
		bank:     bank,
		rng:      rng,
		orch:     orch,
		practice: practice,
		input:    input,
		bar:      bar,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case engine.TickMsg:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.cancelGame()
		return m, tea.Quit
	}
	switch m.screen {
	case screenIntro:
		switch msg.String() {
		case "enter", " ":
			return m, m.nextGame(time.Now())
		case "q":
			return m, tea.Quit
		}
	case screenPlaying:
		return m, m.handleGameKey(msg, time.Now())
	case screenBetween:
		switch msg.String() {
		case "enter", " ":
			return m, m.nextGame(time.Now())
		case "q":
			m.finishSession(time.Now())
			return m, nil
		}
	case screenDone:
		switch msg.String() {
		case "enter", "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

// nextGame pulls the next planned game, skipping entries that fail to
// initialize. An exhausted plan or spent budget ends the session.
func (m *Model) nextGame(now time.Time) tea.Cmd {
	if m.practice != "" {
		if m.gamesPlayed > 0 {
			return tea.Quit
		}
		cmd, err := m.startGame(m.practice, now)
		if err != nil {
			logErrf("failed to start %s: %v\n", m.practice, err)
			return tea.Quit
		}
		return cmd
	}
	for {
		ref, ok := m.orch.Next(now)
		if !ok {
			m.finishSession(now)
			return nil
		}
		cmd, err := m.startGame(ref.Code, now)
		if err != nil {
			logErrf("skipping %s: %v\n", ref.Code, err)
			continue
		}
		return cmd
	}
}

func (m *Model) finishSession(now time.Time) {
	if m.orch != nil {
		m.sessionFinal = m.orch.Summarize(now)
	}
	m.screen = screenDone
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
