package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orogen/internal/solver"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Model is a bubbletea program that steps a surface on a timer and renders
// the evolving ridge profile. The surface is stepped only from Update, so the
// solver's single-orchestrator rule holds.
type Model struct {
	surface solver.Surface
	profile func() []float64

	dt           float64
	stepsPerTick int
	steepness    float64
	simTime      float64
	steps        int
	paused       bool

	width  int
	height int
}

// NewModel builds a live view over a surface. profile must return the current
// elevation field; it is read only between steps.
func NewModel(surface solver.Surface, profile func() []float64, dt float64) *Model {
	return &Model{
		surface:      surface,
		profile:      profile,
		dt:           dt,
		stepsPerTick: 10,
		steepness:    surface.Steepness(),
		width:        80,
		height:       24,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "+", "=":
			m.stepsPerTick *= 2
		case "-":
			if m.stepsPerTick > 1 {
				m.stepsPerTick /= 2
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			for i := 0; i < m.stepsPerTick; i++ {
				m.simTime = m.surface.Advance(m.dt)
				m.steps++
			}
			m.steepness = m.surface.Steepness()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(cyan.Render("orogen") + dim.Render("  live ridge view") + "\n\n")
	b.WriteString(m.renderRidge())
	b.WriteString("\n")

	status := fmt.Sprintf("t=%.3f  steps=%d  ds=%.3e  speed=%dx", m.simTime, m.steps, m.steepness, m.stepsPerTick)
	if m.paused {
		b.WriteString(yellow.Render("paused ") + white.Render(status))
	} else {
		b.WriteString(green.Render("running ") + white.Render(status))
	}
	b.WriteString("\n" + dim.Render("space pause · +/- speed · q quit") + "\n")
	return b.String()
}

// renderRidge draws the elevation profile as a block-character silhouette,
// resampled to the terminal width and scaled to the current peak.
func (m *Model) renderRidge() string {
	h := m.profile()
	cols := m.width - 2
	if cols < 8 {
		cols = 8
	}
	rows := m.height - 6
	if rows < 4 {
		rows = 4
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range h {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-12 {
		hi = lo + 1e-12
	}

	levels := make([]int, cols)
	for c := 0; c < cols; c++ {
		idx := c * (len(h) - 1) / (cols - 1)
		levels[c] = int(math.Round((h[idx] - lo) / (hi - lo) * float64(rows)))
	}

	var b strings.Builder
	for r := rows; r > 0; r-- {
		line := make([]rune, cols)
		for c := 0; c < cols; c++ {
			if levels[c] >= r {
				line[c] = '█'
			} else {
				line[c] = ' '
			}
		}
		b.WriteString(cyan.Render(string(line)) + "\n")
	}
	b.WriteString(dim.Render(strings.Repeat("▔", cols)) + "\n")
	b.WriteString(dim.Render(fmt.Sprintf("peak %.4f  base %.4f", hi, lo)) + "\n")
	return b.String()
}
