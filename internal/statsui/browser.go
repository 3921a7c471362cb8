// Package statsui provides the interactive Bubble Tea stats browser.
package statsui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mgalan/lince/internal/model"
	"github.com/mgalan/lince/internal/stats"
)

const detailHeight = 7

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	borderStyle = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#6E6E6E"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model is the run browser: a table of stored runs with a detail pane that
// tracks the selected run's game.
type Model struct {
	runs    []model.RunAggregate
	totalXP int

	table  table.Model
	detail viewport.Model

	width  int
	height int
}

// New builds a browser over the given runs, newest first.
func New(runs []model.RunAggregate, totalXP int) *Model {
	reversed := make([]model.RunAggregate, len(runs))
	for i, r := range runs {
		reversed[len(runs)-1-i] = r
	}

	columns := []table.Column{
		{Title: "Fecha", Width: 16},
		{Title: "Juego", Width: 14},
		{Title: "Nivel", Width: 5},
		{Title: "Puntos", Width: 7},
		{Title: "Precisión", Width: 9},
		{Title: "Duración", Width: 8},
	}
	rows := make([]table.Row, 0, len(reversed))
	for _, r := range reversed {
		rows = append(rows, table.Row{
			r.EndedAt.Format("2006-01-02 15:04"),
			r.GameCode,
			fmt.Sprintf("%d", r.Level),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.0f%%", r.Accuracy*100),
			fmt.Sprintf("%.0fs", r.DurationSec),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	t.SetStyles(styles)

	m := &Model{runs: reversed, totalXP: totalXP, table: t, detail: viewport.New(60, detailHeight)}
	m.refreshDetail()
	return m
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
		m.detail.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	m.refreshDetail()
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	title := headerStyle.Render(fmt.Sprintf("Historial · %d sesiones · %d XP", len(m.runs), m.totalXP))
	help := helpStyle.Render("↑/↓ navegar · q salir")
	return strings.Join([]string{
		title,
		borderStyle.Render(m.table.View()),
		borderStyle.Render(m.detail.View()),
		help,
	}, "\n")
}

// refreshDetail rebuilds the detail pane for the selected run's game: its
// aggregate line plus a score sparkline across every stored run of the game.
func (m *Model) refreshDetail() {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.runs) {
		m.detail.SetContent("Sin sesiones registradas.")
		return
	}
	selected := m.runs[idx]

	var scores []float64
	var accs []float64
	for i := len(m.runs) - 1; i >= 0; i-- { // oldest first for the curve
		r := m.runs[i]
		if r.GameCode != selected.GameCode {
			continue
		}
		scores = append(scores, float64(r.Score))
		accs = append(accs, r.Accuracy*100)
	}

	var agg model.GameAggregate
	for _, a := range stats.AggregateByGame(m.runs) {
		if a.GameCode == selected.GameCode {
			agg = a
			break
		}
	}

	lines := []string{
		headerStyle.Render(selected.GameCode),
		fmt.Sprintf("Sesiones: %d · Mejor: %d pts · Precisión media: %.0f%% · Nivel medio: %.1f",
			agg.Runs, agg.BestScore, agg.AvgAccuracy*100, agg.AvgLevel),
		"Puntos:    " + stats.Sparkline(scores),
		"Precisión: " + stats.Sparkline(accs),
	}
	m.detail.SetContent(strings.Join(lines, "\n"))
}
