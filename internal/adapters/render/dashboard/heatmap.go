package dashboard

import (
	"strings"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	"github.com/charmbracelet/lipgloss"
)

const (
	heatmapFailure = "Error loading sales heatmap."
	minCellWidth   = 6
)

func HeatmapKey() query.Key {
	return query.NewKey("salesHeatmap")
}

type heatmapView struct {
	result query.Result[domain.Heatmap]
}

func (v heatmapView) sync(cache *query.Cache, api ports.SalesAPI) heatmapView {
	v.result = query.Use(cache, HeatmapKey(), api.SalesHeatmap, query.Options{Enabled: true})
	return v
}

func (v heatmapView) view(f frame) string {
	body := queryBody(f, v.result, "Waiting for sales heatmap.", heatmapFailure, func(heatmap domain.Heatmap) string {
		return renderHeatmap(heatmap, f.styles)
	})
	return f.panel("Sales Heatmap", body, false)
}

// renderHeatmap lays cells out on a grid with x labels as columns and y labels
// as rows, both in first-seen order. Each cell shows its value on the hot or
// normal color.
func renderHeatmap(heatmap domain.Heatmap, s styles) string {
	if len(heatmap.Values) == 0 {
		return s.hint.Render("No heatmap values.")
	}

	var xs, ys []domain.Coordinate
	seenX := map[domain.Coordinate]bool{}
	seenY := map[domain.Coordinate]bool{}
	cells := map[[2]domain.Coordinate]float64{}
	cellWidth := minCellWidth
	for _, cell := range heatmap.Values {
		if !seenX[cell.X] {
			seenX[cell.X] = true
			xs = append(xs, cell.X)
		}
		if !seenY[cell.Y] {
			seenY[cell.Y] = true
			ys = append(ys, cell.Y)
		}
		cells[[2]domain.Coordinate{cell.X, cell.Y}] = cell.V
		cellWidth = max(cellWidth, lipgloss.Width(formatValue(cell.V))+2, lipgloss.Width(string(cell.X))+2)
	}

	labelWidth := 0
	for _, y := range ys {
		labelWidth = max(labelWidth, lipgloss.Width(string(y)))
	}

	header := []string{strings.Repeat(" ", labelWidth+1)}
	for _, x := range xs {
		header = append(header, s.axis.Render(padLeft(string(x)+" ", cellWidth)))
	}

	lines := []string{strings.Join(header, "")}
	for _, y := range ys {
		row := []string{s.label.Render(padRight(string(y), labelWidth)) + " "}
		for _, x := range xs {
			value, ok := cells[[2]domain.Coordinate{x, y}]
			if !ok {
				row = append(row, s.heatEmpty.Render(padLeft("· ", cellWidth)))
				continue
			}
			row = append(row, s.heatCell.Background(HeatColor(value)).Render(padLeft(formatValue(value)+" ", cellWidth)))
		}
		lines = append(lines, strings.Join(row, ""))
	}

	legend := lipgloss.JoinHorizontal(lipgloss.Top,
		s.heatCell.Background(ColorHot).Render(" > 1000 "),
		" ",
		s.heatCell.Background(ColorNormal).Render(" <= 1000 "),
	)
	lines = append(lines, legend)

	return strings.Join(lines, "\n")
}
