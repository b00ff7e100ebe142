package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const plotHeight = 8

// renderLine plots values with asciigraph and labels the first and last point.
// Fewer than two values are listed instead of plotted.
func renderLine(labels []string, values []float64, width int, caption string, style lipgloss.Style, s styles) string {
	if len(values) == 0 {
		return s.hint.Render("No data points.")
	}
	if len(values) < 2 {
		return renderPointList(labels, values, s)
	}

	plot := asciigraph.Plot(values,
		asciigraph.Height(plotHeight),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)

	lines := []string{style.Render(plot)}
	if axis := axisLabels(labels, width); axis != "" {
		lines = append(lines, s.axis.Render(axis))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderPointList(labels []string, values []float64, s styles) string {
	width := 0
	for i := range values {
		if i < len(labels) && len(labels[i]) > width {
			width = len(labels[i])
		}
	}

	lines := make([]string, 0, len(values))
	for i, value := range values {
		label := fmt.Sprintf("#%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		lines = append(lines, s.label.Render(padRight(label, width))+"  "+s.value.Render(formatValue(value)))
	}
	return strings.Join(lines, "\n")
}

func axisLabels(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}

	first := labels[0]
	last := labels[len(labels)-1]
	if len(labels) == 1 || first == last {
		return first
	}

	gap := width - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	return first + strings.Repeat(" ", gap) + last
}
