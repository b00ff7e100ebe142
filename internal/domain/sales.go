package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    string          `json:"created_at"`
}

type SalesData struct {
	Orders      []Order   `json:"orders"`
	CurrentPage int       `json:"current_page"`
	TotalPages  int       `json:"total_pages"`
	Dates       []string  `json:"dates"`
	Sales       []float64 `json:"sales"`
}

// Page returns the current page clamped to [1, TotalPages].
func (d SalesData) Page() int {
	pages := d.Pages()
	switch {
	case d.CurrentPage < 1:
		return 1
	case d.CurrentPage > pages:
		return pages
	default:
		return d.CurrentPage
	}
}

func (d SalesData) Pages() int {
	if d.TotalPages < 1 {
		return 1
	}
	return d.TotalPages
}

type SalesTrend struct {
	Dates []string  `json:"dates"`
	Sales []float64 `json:"sales"`
}

type Forecast struct {
	Predictions []float64 `json:"predictions"`
}

type ForecastPoint struct {
	Date  string
	Value float64
}

// Points pairs predictions positionally with the requested dates. Extra values on
// either side are dropped.
func (f Forecast) Points(dates []string) []ForecastPoint {
	n := len(dates)
	if len(f.Predictions) < n {
		n = len(f.Predictions)
	}

	points := make([]ForecastPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, ForecastPoint{Date: dates[i], Value: f.Predictions[i]})
	}

	return points
}

type Segment struct {
	Segment    int     `json:"segment"`
	Total      float64 `json:"total"`
	OrderCount int     `json:"order_count"`
}

type Heatmap struct {
	Values []HeatmapCell `json:"values"`
}

type HeatmapCell struct {
	X Coordinate `json:"x"`
	Y Coordinate `json:"y"`
	V float64    `json:"v"`
}

// Coordinate is a heatmap axis label. The backend sends either strings or numbers.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode coordinate: %w", err)
		}
		*c = Coordinate(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("decode coordinate: %w", err)
	}
	*c = Coordinate(n.String())
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(c), 64); err == nil {
		return []byte(c), nil
	}
	return json.Marshal(string(c))
}
