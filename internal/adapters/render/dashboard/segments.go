package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	"github.com/charmbracelet/lipgloss"
)

const (
	segmentsFailure = "Error loading customer segments."
	scatterRows     = 10
	scatterGlyph    = "●"
)

func SegmentsKey() query.Key {
	return query.NewKey("customerSegments")
}

type segmentsView struct {
	result query.Result[[]domain.Segment]
}

func (v segmentsView) sync(cache *query.Cache, api ports.SalesAPI) segmentsView {
	v.result = query.Use(cache, SegmentsKey(), api.SegmentCustomers, query.Options{Enabled: true})
	return v
}

func (v segmentsView) view(f frame) string {
	body := queryBody(f, v.result, "Waiting for customer segments.", segmentsFailure, func(segments []domain.Segment) string {
		return renderScatter(segments, f.plotWidth(), scatterRows, f.styles)
	})
	return f.panel("Customer Segments", body, false)
}

// renderScatter plots total (x) against order count (y), one colored point per
// segment, followed by a legend.
func renderScatter(segments []domain.Segment, cols int, rows int, s styles) string {
	if len(segments) == 0 {
		return s.hint.Render("No segments.")
	}

	minX, maxX := segments[0].Total, segments[0].Total
	minY, maxY := segments[0].OrderCount, segments[0].OrderCount
	for _, seg := range segments[1:] {
		minX = math.Min(minX, seg.Total)
		maxX = math.Max(maxX, seg.Total)
		if seg.OrderCount < minY {
			minY = seg.OrderCount
		}
		if seg.OrderCount > maxY {
			maxY = seg.OrderCount
		}
	}

	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for _, seg := range segments {
		col := scale(seg.Total, minX, maxX, cols)
		row := rows - 1 - scale(float64(seg.OrderCount), float64(minY), float64(maxY), rows)
		grid[row][col] = lipgloss.NewStyle().Foreground(SegmentColor(seg.Segment)).Render(scatterGlyph)
	}

	top := fmt.Sprintf("%d", maxY)
	bottom := fmt.Sprintf("%d", minY)
	labelWidth := max(len(top), len(bottom))

	lines := make([]string, 0, rows+3)
	for r, cells := range grid {
		label := ""
		switch r {
		case 0:
			label = top
		case rows - 1:
			label = bottom
		}
		lines = append(lines, s.axis.Render(padLeft(label, labelWidth)+" │")+strings.Join(cells, ""))
	}
	lines = append(lines, s.axis.Render(strings.Repeat(" ", labelWidth)+" └"+strings.Repeat("─", cols)))
	lines = append(lines, s.axis.Render(strings.Repeat(" ", labelWidth+2)+axisLabels([]string{formatValue(minX), formatValue(maxX)}, cols)))
	lines = append(lines, s.hint.Render("x: total  y: order count"))

	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(lines, "\n"), renderLegend(segments, s))
}

func renderLegend(segments []domain.Segment, s styles) string {
	ordered := append([]domain.Segment(nil), segments...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Segment < ordered[j].Segment })

	lines := make([]string, 0, len(ordered))
	for _, seg := range ordered {
		marker := lipgloss.NewStyle().Foreground(SegmentColor(seg.Segment)).Render(scatterGlyph)
		lines = append(lines, fmt.Sprintf("%s %s  total %s  orders %d",
			marker,
			s.label.Render(fmt.Sprintf("Segment %d", seg.Segment)),
			formatValue(seg.Total),
			seg.OrderCount,
		))
	}
	return strings.Join(lines, "\n")
}

func scale(v, lo, hi float64, buckets int) int {
	if buckets <= 1 || hi <= lo {
		return 0
	}
	pos := int(math.Round((v - lo) / (hi - lo) * float64(buckets-1)))
	if pos < 0 {
		return 0
	}
	if pos > buckets-1 {
		return buckets - 1
	}
	return pos
}
