package dashboard

import "github.com/charmbracelet/lipgloss"

const (
	ColorPrimary   = lipgloss.Color("#3f51b5")
	ColorSecondary = lipgloss.Color("#ff9800")
	ColorHot       = lipgloss.Color("#ff5722")
	ColorNormal    = lipgloss.Color("#4caf50")

	// HeatThreshold is the value above which a heatmap cell is hot.
	HeatThreshold = 1000.0
)

var segmentPalette = [...]lipgloss.Color{
	lipgloss.Color("#e57373"),
	lipgloss.Color("#64b5f6"),
	lipgloss.Color("#81c784"),
}

// SegmentColor picks palette[segment mod 3]. Negative ids wrap into the palette.
func SegmentColor(segment int) lipgloss.Color {
	n := len(segmentPalette)
	return segmentPalette[((segment%n)+n)%n]
}

func HeatColor(value float64) lipgloss.Color {
	if value > HeatThreshold {
		return ColorHot
	}
	return ColorNormal
}

type styles struct {
	panel        lipgloss.Style
	panelFocused lipgloss.Style
	panelTitle   lipgloss.Style
	hint         lipgloss.Style
	errorText    lipgloss.Style
	label        lipgloss.Style
	axis         lipgloss.Style
	value        lipgloss.Style
	cursor       lipgloss.Style
	checked      lipgloss.Style
	trend        lipgloss.Style
	forecast     lipgloss.Style
	heatCell     lipgloss.Style
	heatEmpty    lipgloss.Style
}

func newStyles() styles {
	border := lipgloss.RoundedBorder()

	return styles{
		panel:        lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("240")).Padding(0, 1),
		panelFocused: lipgloss.NewStyle().Border(border).BorderForeground(ColorSecondary).Padding(0, 1),
		panelTitle:   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		hint:         lipgloss.NewStyle().Faint(true),
		errorText:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		label:        lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		axis:         lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		value:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		cursor:       lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary),
		checked:      lipgloss.NewStyle().Foreground(ColorPrimary),
		trend:        lipgloss.NewStyle().Foreground(ColorPrimary),
		forecast:     lipgloss.NewStyle().Foreground(ColorSecondary),
		heatCell:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")),
		heatEmpty:    lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
