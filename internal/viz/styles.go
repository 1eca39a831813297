package viz

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/glyphrain/internal/rain"
)

// CursorBlink is the half period of the idle cursor.
const CursorBlink = 500 * time.Millisecond

var (
	StatusFlowing = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusDraining = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	StatusIdle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// StatusLabel renders the faucet state for the status panel.
func StatusLabel(s rain.FaucetState) string {
	switch s {
	case rain.Flowing:
		return StatusFlowing.Render("FLOWING")
	case rain.Draining:
		return StatusDraining.Render("DRAINING")
	default:
		return StatusIdle.Render("IDLE")
	}
}

// IdleCursor returns the cursor glyph or a blank, alternating every CursorBlink.
func IdleCursor(elapsed time.Duration) string {
	if (elapsed/CursorBlink)%2 == 0 {
		return "█"
	}
	return " "
}

// DensityBar renders how close the particle count is to its target.
func DensityBar(count, target, width int) string {
	percent := 1.0
	if target > 0 {
		percent = float64(count) / float64(target)
	}
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return SparkHigh.Render(bar)
	} else if percent > 0.4 {
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}

// Separator draws a decorative rule.
func Separator(width int) string {
	if width < 8 {
		return strings.Repeat("─", width)
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return KeyHint.Render(left + " ◆ " + right)
}
