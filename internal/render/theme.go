package render

import (
	"github.com/charmbracelet/lipgloss"
)

// themeAccent maps project color themes to an accent color.
var themeAccent = map[string]lipgloss.Color{
	"ocean":    lipgloss.Color("#0ea5e9"),
	"forest":   lipgloss.Color("#16a34a"),
	"sunset":   lipgloss.Color("#f97316"),
	"lavender": lipgloss.Color("#a78bfa"),
	"rose":     lipgloss.Color("#f43f5e"),
	"slate":    lipgloss.Color("#64748b"),
	"amber":    lipgloss.Color("#f59e0b"),
	"teal":     lipgloss.Color("#14b8a6"),
}

var (
	colorMuted = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	colorDone  = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#4b5563"}
)

func accent(theme string) lipgloss.Color {
	if c, ok := themeAccent[theme]; ok {
		return c
	}
	return themeAccent["slate"]
}

func (t *Terminal) muted() lipgloss.Style { return t.re.NewStyle().Foreground(colorMuted) }

func (t *Terminal) heading(theme string) lipgloss.Style {
	return t.re.NewStyle().Bold(true).Foreground(accent(theme))
}

// swatch draws a small block in the link color, or padding when unlinked.
func (t *Terminal) swatch(hex string) string {
	if hex == "" {
		return "  "
	}
	return t.re.NewStyle().Foreground(lipgloss.Color(hex)).Render("■") + " "
}
