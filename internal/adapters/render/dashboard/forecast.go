package dashboard

import (
	"context"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const forecastFailure = "Error loading sales forecast data."

func ForecastKey(futureDates []string) query.Key {
	return query.NewKey("salesForecast", query.Arg("future_dates", futureDates...))
}

// forecastView never fetches on its own. The key follows the input text and a
// prediction runs only on explicit request.
type forecastView struct {
	input  textinput.Model
	dates  []string
	result query.Result[domain.Forecast]
}

func newForecastView() forecastView {
	input := textinput.New()
	input.Prompt = "Future dates: "
	input.Placeholder = "YYYY-MM-DD, YYYY-MM-DD"
	input.CharLimit = 512
	input.Cursor.SetMode(cursor.CursorStatic)
	input.SetValue(domain.FormatFutureDates(domain.DefaultFutureDates))

	return forecastView{
		input: input,
		dates: domain.ParseFutureDates(input.Value()),
	}
}

func (v forecastView) key() query.Key {
	return ForecastKey(v.dates)
}

func (v forecastView) fetcher(api ports.SalesAPI) func(context.Context) (domain.Forecast, error) {
	dates := append([]string(nil), v.dates...)
	return func(ctx context.Context) (domain.Forecast, error) {
		return api.PredictSales(ctx, dates)
	}
}

func (v forecastView) sync(cache *query.Cache, api ports.SalesAPI) forecastView {
	v.result = query.Use(cache, v.key(), v.fetcher(api), query.Options{Enabled: false})
	return v
}

func (v forecastView) predict(cache *query.Cache, api ports.SalesAPI) forecastView {
	v.result = query.Refetch(cache, v.key(), v.fetcher(api))
	return v
}

func (v forecastView) setText(raw string) forecastView {
	v.input.SetValue(raw)
	v.dates = domain.ParseFutureDates(raw)
	return v
}

func (v forecastView) update(msg tea.Msg) (forecastView, tea.Cmd) {
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.dates = domain.ParseFutureDates(v.input.Value())
	return v, cmd
}

func (v forecastView) focus() (forecastView, tea.Cmd) {
	cmd := v.input.Focus()
	return v, cmd
}

func (v forecastView) blur() forecastView {
	v.input.Blur()
	return v
}

func (v forecastView) view(f frame, focused bool) string {
	action := f.styles.hint.Render("[enter] Predict Sales")
	if focused {
		action = f.styles.cursor.Render("[enter] Predict Sales")
	}

	body := queryBody(f, v.result, "Enter future dates and press enter to predict sales.", forecastFailure, func(forecast domain.Forecast) string {
		return renderForecast(forecast.Points(v.dates), f)
	})

	return f.panel("Sales Forecast", lipgloss.JoinVertical(lipgloss.Left, v.input.View(), action, body), focused)
}

func renderForecast(points []domain.ForecastPoint, f frame) string {
	if len(points) == 0 {
		return f.styles.hint.Render("No predictions returned.")
	}

	labels := make([]string, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, point := range points {
		labels = append(labels, point.Date)
		values = append(values, point.Value)
	}

	list := renderPointList(labels, values, f.styles)
	if len(points) < 2 {
		return list
	}
	return lipgloss.JoinVertical(lipgloss.Left, list, renderLine(labels, values, f.plotWidth(), "Predicted Sales", f.styles.forecast, f.styles))
}
