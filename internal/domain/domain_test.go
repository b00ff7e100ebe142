package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFutureDates(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "comma and space", raw: "2023-12-01, 2023-12-02", want: []string{"2023-12-01", "2023-12-02"}},
		{name: "no spaces", raw: "2023-12-01,2023-12-02", want: []string{"2023-12-01", "2023-12-02"}},
		{name: "padded", raw: "  2024-01-01  ", want: []string{"2024-01-01"}},
		{name: "not validated", raw: "tomorrow, soon", want: []string{"tomorrow", "soon"}},
		{name: "empty", raw: "", want: []string{""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseFutureDates(tc.raw))
		})
	}
}

func TestFutureDatesRoundTripThroughText(t *testing.T) {
	raw := FormatFutureDates(DefaultFutureDates)

	assert.Equal(t, "2023-12-01, 2023-12-02", raw)
	assert.Equal(t, DefaultFutureDates, ParseFutureDates(raw))
}

func TestSelectionToggleKeepsOptionOrder(t *testing.T) {
	options := []string{"Customer A", "Customer B", "Customer C"}

	var s Selection
	s = s.Toggle(options, "Customer C")
	s = s.Toggle(options, "Customer A")
	assert.Equal(t, Selection{"Customer A", "Customer C"}, s)

	s = s.Toggle(options, "Customer C")
	assert.Equal(t, Selection{"Customer A"}, s)
}

func TestSelectionToggleDoesNotMutateReceiver(t *testing.T) {
	options := []string{"Customer A", "Customer B"}
	original := Selection{"Customer A"}

	next := original.Toggle(options, "Customer B")

	assert.Equal(t, Selection{"Customer A"}, original)
	assert.Equal(t, Selection{"Customer A", "Customer B"}, next)
}

func TestSelectionRoundTripIsIdempotent(t *testing.T) {
	options := []string{"A", "B"}
	first := NewSelection(options, "A", "B")
	cleared := NewSelection(options)
	again := NewSelection(options, "B", "A")

	assert.True(t, cleared.Empty())
	assert.True(t, first.Equal(again))
}

func TestForecastPointsPairPositionally(t *testing.T) {
	f := Forecast{Predictions: []float64{100, 150}}

	points := f.Points([]string{"2023-12-01", "2023-12-02"})
	require.Len(t, points, 2)
	assert.Equal(t, ForecastPoint{Date: "2023-12-01", Value: 100}, points[0])
	assert.Equal(t, ForecastPoint{Date: "2023-12-02", Value: 150}, points[1])

	assert.Len(t, f.Points([]string{"2023-12-01"}), 1)
}

func TestSalesDataDecodesDecimalTotals(t *testing.T) {
	payload := `{
		"orders": [{"id": 7, "customer_name": "Customer A", "total": 199.95, "created_at": "2023-11-01"}],
		"current_page": 2,
		"total_pages": 3,
		"dates": ["2023-11-01"],
		"sales": [199.95]
	}`

	var data SalesData
	require.NoError(t, json.Unmarshal([]byte(payload), &data))

	require.Len(t, data.Orders, 1)
	assert.True(t, decimal.RequireFromString("199.95").Equal(data.Orders[0].Total))
	assert.Equal(t, 2, data.Page())
	assert.Equal(t, 3, data.Pages())
}

func TestSalesDataPageClamps(t *testing.T) {
	assert.Equal(t, 1, SalesData{}.Page())
	assert.Equal(t, 1, SalesData{}.Pages())
	assert.Equal(t, 2, SalesData{CurrentPage: 9, TotalPages: 2}.Page())
}

func TestHeatmapCoordinatesAcceptStringsAndNumbers(t *testing.T) {
	var heatmap Heatmap
	require.NoError(t, json.Unmarshal([]byte(`{"values":[{"x":"Mon","y":3,"v":1200.5}]}`), &heatmap))

	require.Len(t, heatmap.Values, 1)
	assert.Equal(t, Coordinate("Mon"), heatmap.Values[0].X)
	assert.Equal(t, Coordinate("3"), heatmap.Values[0].Y)
	assert.InDelta(t, 1200.5, heatmap.Values[0].V, 0.0001)
}

func TestSessionHasCredential(t *testing.T) {
	assert.False(t, Session{}.HasCredential())
	assert.False(t, Session{Credential: "   "}.HasCredential())
	assert.True(t, Session{Credential: "token"}.HasCredential())
}
