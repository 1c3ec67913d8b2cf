package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent      = lipgloss.Color("#E53935")
	muted       = lipgloss.Color("#6D6D4E")
	destructive = lipgloss.Color("#E53935")
)

type Styles struct {
	Title    lipgloss.Style
	Selected lipgloss.Style
	Item     lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(destructive),
		Help:     lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}

// cardStyle paints a detail card with the Pokemon's palette.
func cardStyle(primary, secondary string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(secondary)).
		Background(lipgloss.Color(primary)).
		Foreground(lipgloss.Color("#101F38")).
		Padding(1, 3).
		Width(36)
}
