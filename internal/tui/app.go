// Package tui hosts the rain in a terminal using Bubble Tea. Display-rate
// tick messages act as the frame callbacks of the animation driver.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/glyphrain/internal/config"
	"github.com/san-kum/glyphrain/internal/metrics"
	"github.com/san-kum/glyphrain/internal/sim"
	"github.com/san-kum/glyphrain/internal/theme"
	"github.com/san-kum/glyphrain/internal/viz"
)

const (
	panelWidth      = 32
	historyCapacity = 300
	densityStep     = 10
	maxDensity      = 5000
)

type frameMsg time.Time

// Model wires the driver, the terminal canvas and the status panel.
type Model struct {
	driver   *sim.Driver
	canvas   *viz.Canvas
	settings config.Settings

	counts *metrics.ParticleCount
	rate   *metrics.FrameRate

	start     time.Time
	now       time.Time
	width     int
	height    int
	showPanel bool
	showHelp  bool

	// OnChange is called with the new settings after every control change.
	OnChange func(config.Settings)
}

// NewModel builds the model. The canvas must be the driver's surface.
func NewModel(d *sim.Driver, canvas *viz.Canvas, s config.Settings) Model {
	counts := metrics.NewParticleCount(historyCapacity)
	rate := metrics.NewFrameRate()
	d.AddMetric(counts)
	d.AddMetric(rate)
	d.Apply(s)

	return Model{
		driver:    d,
		canvas:    canvas,
		settings:  s,
		counts:    counts,
		rate:      rate,
		start:     time.Now(),
		showPanel: true,
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(sim.DisplayRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return frameTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case frameMsg:
		m.now = time.Time(msg)
		m.driver.Frame(m.now)
		return m, frameTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.settings
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ", "f":
		s.FaucetOn = !s.FaucetOn
	case "d":
		s.DataMode = !s.DataMode
	case "t":
		s.ColorTheme = theme.Next(s.ColorTheme).Name
	case "+", "=", "up", "k":
		s.Density = min(s.Density+densityStep, maxDensity)
	case "-", "_", "down", "j":
		s.Density = max(s.Density-densityStep, 0)
	case "]":
		s.FontSize++
	case "[":
		if s.FontSize > 1 {
			s.FontSize--
		}
	case "p":
		m.showPanel = !m.showPanel
		m.resize()
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	default:
		return m, nil
	}
	m.apply(s)
	return m, nil
}

func (m *Model) apply(s config.Settings) {
	m.settings = s
	m.driver.Apply(s)
	if m.OnChange != nil {
		m.OnChange(s)
	}
}

// Settings returns the settings the model currently runs with.
func (m Model) Settings() config.Settings { return m.settings }

func (m *Model) resize() {
	cols := m.width
	if m.showPanel {
		cols -= panelWidth + 2
	}
	rows := m.height
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	m.driver.Resize(cols*viz.CellWidth, rows*viz.CellHeight, 1)
}

func (m Model) View() string {
	if m.showHelp {
		return helpView()
	}
	field := m.fieldView()
	if !m.showPanel {
		return field
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, field, viz.PanelStyle.Render(m.panelView()))
}

func (m Model) fieldView() string {
	out := m.canvas.String()
	if !m.driver.Engine().IdleIndicatorVisible() {
		return out
	}
	lines := strings.Split(out, "\n")
	cursor := viz.StatusIdle.Render("> ") + lipgloss.NewStyle().Foreground(m.driver.Theme().FillColor()).Render(viz.IdleCursor(m.now.Sub(m.start)))
	pad := m.canvas.Cols - 3
	if pad < 0 {
		pad = 0
	}
	lines[0] = cursor + strings.Repeat(" ", pad)
	return strings.Join(lines, "\n")
}

func (m Model) panelView() string {
	e := m.driver.Engine()
	var s strings.Builder

	s.WriteString(viz.StatusLabel(e.State()) + "\n\n")
	s.WriteString(viz.MetricLabel.Render("Particles") + viz.MetricValue.Render(fmt.Sprintf("%d / %d", e.Len(), e.Density())) + "\n")
	s.WriteString(viz.DensityBar(e.Len(), e.Density(), panelWidth-4) + "\n")
	s.WriteString(viz.MetricLabel.Render("Theme") + viz.MetricValue.Render(m.settings.ColorTheme) + "\n")
	mode := "symbols"
	if m.settings.DataMode {
		mode = "data"
	}
	s.WriteString(viz.MetricLabel.Render("Glyphs") + viz.MetricValue.Render(mode) + "\n")
	s.WriteString(viz.MetricLabel.Render("Font") + viz.MetricValue.Render(fmt.Sprintf("%s %dpx", m.settings.Font, m.settings.FontSize)) + "\n")
	s.WriteString(viz.MetricLabel.Render("Rate") + viz.MetricValue.Render(fmt.Sprintf("%.1f fps", m.rate.Value())) + "\n\n")

	if hist := m.counts.History(); len(hist) > 1 {
		chart := asciigraph.Plot(hist,
			asciigraph.Height(6),
			asciigraph.Width(panelWidth-8),
			asciigraph.LowerBound(0),
			asciigraph.Caption("particles"))
		s.WriteString(chart + "\n\n")
	}

	s.WriteString(viz.Separator(panelWidth-2) + "\n")
	s.WriteString(viz.KeyHint.Render("SP:Faucet D:Data T:Theme\n+/-:Density [ ]:Font\nP:Panel ?:Help Q:Quit"))
	return s.String()
}

func helpView() string {
	return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space/F  - Toggle the faucet        ║
║  D        - Toggle data glyphs       ║
║  T        - Cycle color themes       ║
║  +/Up     - Raise density            ║
║  -/Down   - Lower density            ║
║  [ ]      - Font size                ║
║  P        - Toggle status panel      ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`
}

// Run starts the terminal program and returns the final settings.
func Run(m Model) (config.Settings, error) {
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return m.settings, err
	}
	if fm, ok := final.(Model); ok {
		return fm.settings, nil
	}
	return m.settings, nil
}
