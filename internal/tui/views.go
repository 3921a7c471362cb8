package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/mgalan/lince/internal/engine"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	stimulusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0")).Padding(1, 2)
	correctStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3BA55D"))
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	cursorStyle   = cellStyle.Copy().Reverse(true)
	foundStyle    = cellStyle.Copy().Foreground(lipgloss.Color("#3BA55D"))
)

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenIntro:
		content = m.viewIntro()
	case screenPlaying:
		content = m.viewPlaying()
	case screenBetween:
		content = m.viewBetween()
	case screenDone:
		content = m.viewDone()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewIntro() string {
	lines := []string{titleStyle.Render("lince")}
	if m.practice != "" {
		lines = append(lines, promptStyle.Render("Práctica: "+m.practice))
	} else {
		lines = append(lines,
			promptStyle.Render(fmt.Sprintf("Sesión %s · %d min", m.config.Mode, m.config.Minutes)),
			dimStyle.Render(fmt.Sprintf("%d juegos en el plan", m.orch.Planned())),
		)
	}
	lines = append(lines, "", dimStyle.Render("enter para empezar · q para salir"))
	return strings.Join(lines, "\n")
}

func (m *Model) viewPlaying() string {
	g := m.game
	if g == nil {
		return ""
	}
	var body string
	if g.board != nil {
		body = m.viewBoard()
	} else {
		body = m.viewTrial()
	}
	header := m.viewHeader()
	flash := ""
	if m.flash != "" {
		style := correctStyle
		if strings.HasPrefix(m.flash, "✗") {
			style = wrongStyle
		}
		flash = style.Render(m.flash)
	}
	return strings.Join([]string{header, "", body, "", flash}, "\n")
}

func (m *Model) viewHeader() string {
	g := m.game
	if g.board != nil {
		found, targets := g.board.FoundTargets()
		remaining := g.board.Remaining(time.Now())
		return dimStyle.Render(fmt.Sprintf("%s · nivel %d · %d pts · %d/%d · %.1fs",
			g.ref.Name, g.board.Perf().Level, g.board.Score(), found, targets, remaining.Seconds()))
	}
	done, total := g.trial.Rounds()
	return dimStyle.Render(fmt.Sprintf("%s · nivel %d · %d pts · ronda %d/%d",
		g.ref.Name, g.trial.Perf().Level, g.trial.Score(), done+1, total))
}

func (m *Model) viewBoard() string {
	g := m.game
	spec := g.board.Spec()
	width := 0
	for _, cell := range spec.Cells {
		if w := runewidth.StringWidth(cell.Label); w > width {
			width = w
		}
	}

	var rows []string
	for start := 0; start < len(spec.Cells); start += spec.Size {
		end := start + spec.Size
		if end > len(spec.Cells) {
			end = len(spec.Cells)
		}
		cols := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cell := spec.Cells[i]
			label := runewidth.FillLeft(cell.Label, width)
			style := cellStyle
			switch {
			case i == g.cursor:
				style = cursorStyle
			case cell.Found:
				style = foundStyle
			}
			cols = append(cols, style.Render(label))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	grid := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return promptStyle.Render(spec.Prompt) + "\n\n" + grid
}

func (m *Model) viewTrial() string {
	g := m.game
	spec := g.trial.Spec()
	switch g.trial.Phase() {
	case engine.PhaseShowing:
		word, idx, total := g.trial.Stimulus()
		bar := m.bar.ViewAs(float64(idx+1) / float64(total))
		return stimulusStyle.Render(word) + "\n\n" + bar
	case engine.PhaseCollecting:
		lines := []string{promptStyle.Render(spec.Question), ""}
		if len(spec.Options) > 0 {
			for i, opt := range spec.Options {
				lines = append(lines, fmt.Sprintf("  %d. %s", i+1, opt))
			}
			lines = append(lines, "", dimStyle.Render("pulsa el número de tu respuesta"))
		} else {
			lines = append(lines, m.input.View(), "", dimStyle.Render("enter para confirmar"))
		}
		return strings.Join(lines, "\n")
	case engine.PhaseFeedback:
		last := g.trial.Last()
		if last.Correct {
			return correctStyle.Render("✓ correcto")
		}
		msg := "✗ incorrecto"
		if last.TimedOut {
			msg = "✗ tiempo agotado"
		}
		return wrongStyle.Render(msg) + "\n" + dimStyle.Render("respuesta: "+last.Expected)
	default:
		return ""
	}
}

func (m *Model) viewBetween() string {
	r := m.lastSummary
	lines := []string{
		titleStyle.Render(r.Name),
		"",
		promptStyle.Render(fmt.Sprintf("Puntos: %d", r.Summary.Score)),
		promptStyle.Render(fmt.Sprintf("Precisión: %.0f%%", r.Summary.Accuracy*100)),
		promptStyle.Render(fmt.Sprintf("Nivel: %d", r.Summary.Level)),
		correctStyle.Render(fmt.Sprintf("+%d XP", r.XP)),
	}
	if r.Summary.Boards > 0 {
		lines = append(lines, promptStyle.Render(fmt.Sprintf("Tableros: %d", r.Summary.Boards)))
	}
	if r.Summary.WPM > 0 {
		lines = append(lines, promptStyle.Render(fmt.Sprintf("Ritmo: %.0f ppm", r.Summary.WPM)))
	}
	remaining := m.orch.Remaining(time.Now())
	lines = append(lines, "",
		dimStyle.Render(fmt.Sprintf("quedan %s de sesión", remaining.Round(time.Second))),
		dimStyle.Render("enter continúa · q termina"),
	)
	return strings.Join(lines, "\n")
}

func (m *Model) viewDone() string {
	if m.practice != "" {
		r := m.lastSummary
		return strings.Join([]string{
			titleStyle.Render(r.Name),
			"",
			promptStyle.Render(fmt.Sprintf("Puntos: %d · Precisión: %.0f%% · Nivel: %d", r.Summary.Score, r.Summary.Accuracy*100, r.Summary.Level)),
			correctStyle.Render(fmt.Sprintf("+%d XP", r.XP)),
			"",
			dimStyle.Render("enter para salir"),
		}, "\n")
	}
	s := m.sessionFinal
	return strings.Join([]string{
		titleStyle.Render("Sesión completada"),
		"",
		promptStyle.Render(fmt.Sprintf("Modo: %s", s.Mode)),
		promptStyle.Render(fmt.Sprintf("Juegos: %d", s.GamesCompleted)),
		promptStyle.Render(fmt.Sprintf("Duración: %s", s.Duration.Round(time.Second))),
		correctStyle.Render(fmt.Sprintf("XP total: +%d", s.TotalXP)),
		"",
		dimStyle.Render("enter para salir"),
	}, "\n")
}
