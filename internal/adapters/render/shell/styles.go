package shell

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("#3f51b5")
	colorSecondary = lipgloss.Color("#ff9800")
)

type styles struct {
	titleBar  lipgloss.Style
	route     lipgloss.Style
	signedIn  lipgloss.Style
	signedOut lipgloss.Style
	footer    lipgloss.Style
	notFound  lipgloss.Style
	fallback  lipgloss.Style
	status    lipgloss.Style
}

func newStyles() styles {
	return styles{
		titleBar:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(colorPrimary).Padding(0, 1),
		route:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		signedIn:  lipgloss.NewStyle().Foreground(colorSecondary),
		signedOut: lipgloss.NewStyle().Faint(true),
		footer:    lipgloss.NewStyle().Faint(true).MarginTop(1),
		notFound:  lipgloss.NewStyle().Bold(true).Foreground(colorSecondary).MarginTop(1),
		fallback:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")).MarginTop(1),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
