// Package viz renders the simulation in the terminal: a braille-dot body
// view with trails, an energy history chart, and a stats panel.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/jc-higgins/grav-sim/internal/gravity"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 600
	// worldExtent is the half-width of the region mapped onto the canvas.
	worldExtent = 3.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	alertStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type tickMsg time.Time

type point struct{ x, y int }

// Model is the live terminal view. Each frame tick advances the simulation
// by a configured number of integration steps so that the small fixed dt
// still produces visible motion.
type Model struct {
	sim           *gravity.Simulation
	rebuild       func() *gravity.Simulation
	stepsPerFrame int
	scenario      string

	canvas        *Canvas
	trail         []point
	energyHistory []float64
	initialEnergy float64
	running       bool
	diverged      bool
}

func NewModel(s *gravity.Simulation, rebuild func() *gravity.Simulation, stepsPerFrame int, scenario string) Model {
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}
	return Model{
		sim:           s,
		rebuild:       rebuild,
		stepsPerFrame: stepsPerFrame,
		scenario:      scenario,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		trail:         make([]point, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		initialEnergy: s.TotalEnergy(),
		running:       true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			// single frame while paused
			if !m.running {
				m.advance()
			}
		case "r":
			m.reset()
		}
	case tickMsg:
		if m.running && !m.diverged {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	for i := 0; i < m.stepsPerFrame; i++ {
		m.sim.Step()
	}
	if !m.sim.Valid() {
		m.diverged = true
		m.running = false
		return
	}

	m.energyHistory = append(m.energyHistory, m.sim.TotalEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}

	for _, b := range m.sim.Bodies() {
		x, y := m.project(b.Position)
		m.trail = append(m.trail, point{x, y})
	}
	if len(m.trail) > historyCapacity {
		m.trail = m.trail[len(m.trail)-historyCapacity:]
	}
}

func (m *Model) reset() {
	m.sim = m.rebuild()
	m.trail = m.trail[:0]
	m.energyHistory = m.energyHistory[:0]
	m.initialEnergy = m.sim.TotalEnergy()
	m.diverged = false
	m.running = true
}

// project maps world coordinates to canvas dot space.
func (m *Model) project(p gravity.Vec2) (int, int) {
	dw, dh := canvasWidth*2, canvasHeight*4
	x := int((p.X/worldExtent + 1) * 0.5 * float64(dw))
	y := int((1 - p.Y/worldExtent) * 0.5 * float64(dh))
	return x, y
}

func (m *Model) draw() {
	m.canvas.Clear()

	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}
	for _, b := range m.sim.Bodies() {
		x, y := m.project(b.Position)
		m.canvas.Dot(x, y, 1)
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scenario)) + "\n")

	status := "RUNNING"
	if m.diverged {
		status = alertStyle.Render("DIVERGED (non-finite state)")
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4),
			asciigraph.Width(30),
			asciigraph.Caption("Total energy"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	writeStat := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	writeStat("Time", fmt.Sprintf("%.4fs", m.sim.Time()))
	writeStat("Steps", fmt.Sprintf("%d", m.sim.Steps()))
	writeStat("Bodies", fmt.Sprintf("%d", m.sim.NumBodies()))
	writeStat("Kinetic", fmt.Sprintf("%.4f", m.sim.TotalKineticEnergy()))
	writeStat("Potential", fmt.Sprintf("%.4f", m.sim.TotalPotentialEnergy()))
	writeStat("Energy", fmt.Sprintf("%.4f", m.sim.TotalEnergy()))
	writeStat("|Momentum|", fmt.Sprintf("%.2e", m.sim.TotalMomentum().Norm()))
	if m.initialEnergy != 0 {
		drift := (m.sim.TotalEnergy() - m.initialEnergy) / m.initialEnergy
		writeStat("Drift", fmt.Sprintf("%.2e", drift))
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause S:Step R:Reset Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()),
	)
}

// Run starts the live view and blocks until the user quits.
func Run(s *gravity.Simulation, rebuild func() *gravity.Simulation, stepsPerFrame int, scenario string) error {
	_, err := tea.NewProgram(NewModel(s, rebuild, stepsPerFrame, scenario)).Run()
	return err
}
