package dashboard

import (
	"fmt"
	"strings"

	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 80
	minPlotWidth = 16
)

const loadingLabel = "Loading..."

// frame carries what every view needs to draw itself.
type frame struct {
	styles  styles
	spinner spinner.Model
	width   int
}

func (f frame) plotWidth() int {
	width := f.width - 14
	if width < minPlotWidth {
		return minPlotWidth
	}
	return width
}

func (f frame) panel(title string, body string, focused bool) string {
	style := f.styles.panel
	if focused {
		style = f.styles.panelFocused
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, f.styles.panelTitle.Render(title), body))
}

// queryBody renders exactly one of a loading indicator, the failure text, the
// idle hint or the successful content. A key that is fetching always shows the
// indicator, even when older data exists.
func queryBody[T any](f frame, result query.Result[T], idle string, failure string, render func(T) string) string {
	switch {
	case result.Fetching() || result.Status() == query.StatusPending:
		return fmt.Sprintf("%s %s", f.spinner.View(), loadingLabel)
	case result.Status() == query.StatusError:
		return f.styles.errorText.Render(failure)
	case result.Status() == query.StatusSuccess:
		return render(result.Data)
	default:
		return f.styles.hint.Render(idle)
	}
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
