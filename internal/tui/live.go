// Package tui is a terminal host for the engine: a top-down orrery view fed
// by snapshots, with keys that drive the live control commands.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orbitkit/gravsim/internal/engine"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

const (
	canvasWidth  = 72
	canvasHeight = 24
)

type snapMsg engine.Snapshot

func waitForSnapshot(ch <-chan engine.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return tea.Quit()
		}
		return snapMsg(snap)
	}
}

type Model struct {
	eng   *engine.Engine
	snaps <-chan engine.Snapshot

	snap      engine.Snapshot
	paused    bool
	timeScale float64
	radius    float64 // view half-width in scenario units
}

func NewModel(eng *engine.Engine, timeScale float64) Model {
	return Model{
		eng:       eng,
		snaps:     eng.Snapshots(),
		timeScale: timeScale,
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSnapshot(m.snaps)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapMsg:
		m.snap = engine.Snapshot(msg)
		m.fitView()
		return m, waitForSnapshot(m.snaps)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			m.eng.Post(engine.SetPaused{Paused: m.paused})
		case "+", "=":
			m.timeScale *= 2
			m.eng.Post(engine.SetTimeScale{Scale: m.timeScale})
		case "-", "_":
			m.timeScale /= 2
			m.eng.Post(engine.SetTimeScale{Scale: m.timeScale})
		}
	}
	return m, nil
}

// fitView grows the view radius to the farthest body, with a little margin,
// and never shrinks it, so the view doesn't pump as orbits precess.
func (m *Model) fitView() {
	for _, b := range m.snap.Bodies {
		r := math.Max(math.Abs(b.Position.X), math.Abs(b.Position.Y))
		if r*1.1 > m.radius {
			m.radius = r * 1.1
		}
	}
	if m.radius == 0 {
		m.radius = 1
	}
}

func (m Model) View() string {
	canvas := make([][]rune, canvasHeight)
	for i := range canvas {
		canvas[i] = make([]rune, canvasWidth)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i, b := range m.snap.Bodies {
		cx := canvasWidth/2 + int(b.Position.X/m.radius*float64(canvasWidth/2-1))
		cy := canvasHeight/2 - int(b.Position.Y/m.radius*float64(canvasHeight/2-1))
		if cx < 0 || cx >= canvasWidth || cy < 0 || cy >= canvasHeight {
			continue
		}
		glyph := 'o'
		if i == 0 {
			glyph = '@'
		}
		canvas[cy][cx] = glyph
	}

	var sb strings.Builder
	sb.WriteString(cyan.Render("gravsim") + dim.Render("  orbits from above") + "\n")
	for _, row := range canvas {
		sb.WriteString(white.Render(string(row)) + "\n")
	}

	status := fmt.Sprintf("t=%.1f  bodies=%d  speed=%gx", m.snap.Time, m.snap.BodyCount, m.timeScale)
	if m.paused {
		sb.WriteString(yellow.Render(status+"  [paused]") + "\n")
	} else {
		sb.WriteString(green.Render(status) + "\n")
	}
	sb.WriteString(dim.Render("space pause  +/- speed  q quit") + "\n")
	return sb.String()
}

// Run blocks until the user quits the live view.
func Run(eng *engine.Engine, timeScale float64) error {
	p := tea.NewProgram(NewModel(eng, timeScale))
	_, err := p.Run()
	return err
}
