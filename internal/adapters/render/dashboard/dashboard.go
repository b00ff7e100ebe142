package dashboard

import (
	"context"
	"strconv"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncMsg asks the dashboard to re-read every query it owns, typically after
// the cache announced an update.
type SyncMsg struct{}

// SelectionChangedMsg replaces the customer selection wholesale.
type SelectionChangedMsg struct {
	Selection domain.Selection
}

// PageChangedMsg requests another page of sales data.
type PageChangedMsg struct {
	Page int
}

type focusArea int

const (
	focusCustomers focusArea = iota
	focusForecast
	focusTable
	focusCount
)

var (
	nextFocusKey = key.NewBinding(key.WithKeys("tab"))
	prevFocusKey = key.NewBinding(key.WithKeys("shift+tab"))
	refreshKey   = key.NewBinding(key.WithKeys("r"))
	predictKey   = key.NewBinding(key.WithKeys("enter"))
)

func CustomersKey() query.Key {
	return query.NewKey("customers")
}

// SalesDataKey carries the selection and, past the first page, the page number.
func SalesDataKey(selection domain.Selection, page int) query.Key {
	params := []query.Param{query.Arg("customers", selection...)}
	if page > 1 {
		params = append(params, query.Arg("page", strconv.Itoa(page)))
	}
	return query.NewKey("salesData", params...)
}

// Model composes the views. It owns the customer selection and the requested
// sales page; everything else lives in the query cache.
type Model struct {
	cache *query.Cache
	api   ports.SalesAPI

	styles  styles
	spinner spinner.Model
	width   int
	focus   focusArea

	selection domain.Selection
	page      int

	customers query.Result[[]string]
	sales     query.Result[domain.SalesData]

	picker   customerSelect
	trend    trendView
	forecast forecastView
	segments segmentsView
	heatmap  heatmapView
	table    salesTable
}

// New builds the dashboard and registers its queries with cache.
func New(cache *query.Cache, api ports.SalesAPI) Model {
	m := Model{
		cache:  cache,
		api:    api,
		styles: newStyles(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(ColorPrimary)),
		),
		width:    defaultWidth,
		page:     1,
		forecast: newForecastView(),
		table:    newSalesTable(),
	}

	return m.sync()
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SyncMsg:
		return m.sync(), nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case SelectionChangedMsg:
		return m.Select(msg.Selection), nil
	case PageChangedMsg:
		return m.SetPage(msg.Page), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.focus == focusForecast {
		var cmd tea.Cmd
		m.forecast, cmd = m.forecast.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, nextFocusKey):
		return m.setFocus((m.focus + 1) % focusCount)
	case key.Matches(msg, prevFocusKey):
		return m.setFocus((m.focus + focusCount - 1) % focusCount)
	}

	switch m.focus {
	case focusForecast:
		if key.Matches(msg, predictKey) {
			return m.Predict(), nil
		}
		var cmd tea.Cmd
		m.forecast, cmd = m.forecast.update(msg)
		return m.sync(), cmd
	case focusTable:
		if key.Matches(msg, refreshKey) {
			return m.Refresh(), nil
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.update(msg, m.currentPage(), m.totalPages(), m.requestPage)
		return m, cmd
	default:
		if key.Matches(msg, refreshKey) {
			return m.Refresh(), nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.update(msg, m.customers.Data, m.selection)
		return m, cmd
	}
}

func (m Model) setFocus(focus focusArea) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.focus = focus
	m.forecast = m.forecast.blur()
	m.table = m.table.blur()

	switch focus {
	case focusForecast:
		m.forecast, cmd = m.forecast.focus()
	case focusTable:
		m.table = m.table.focus()
	}
	return m, cmd
}

func (m Model) requestPage(page int) tea.Cmd {
	return func() tea.Msg {
		return PageChangedMsg{Page: page}
	}
}

// Select replaces the selection and resets paging. An identical selection is a
// no-op.
func (m Model) Select(selection domain.Selection) Model {
	if m.selection.Equal(selection) {
		return m
	}
	m.selection = append(domain.Selection(nil), selection...)
	m.page = 1
	return m.sync()
}

func (m Model) SetPage(page int) Model {
	if page < 1 || page == m.page {
		return m
	}
	m.page = page
	return m.sync()
}

// SetFutureDates replaces the forecast input text. It does not fetch.
func (m Model) SetFutureDates(raw string) Model {
	m.forecast = m.forecast.setText(raw)
	return m.sync()
}

// Predict runs the forecast for the current input.
func (m Model) Predict() Model {
	m.forecast = m.forecast.predict(m.cache, m.api)
	return m
}

// Refresh invalidates every cached query and re-registers the visible ones.
func (m Model) Refresh() Model {
	m.cache.InvalidateAll()
	return m.sync()
}

func (m Model) Selection() domain.Selection {
	return m.selection
}

func (m Model) Page() int {
	return m.page
}

func (m Model) CustomerOptions() []string {
	return m.customers.Data
}

// Keys lists the query keys the dashboard currently observes.
func (m Model) Keys() []query.Key {
	return []query.Key{
		CustomersKey(),
		SalesDataKey(m.selection, m.page),
		TrendKey(),
		m.forecast.key(),
		SegmentsKey(),
		HeatmapKey(),
	}
}

// Settled reports whether none of the observed queries is fetching.
func (m Model) Settled() bool {
	return m.cache.Settled(m.Keys()...)
}

func (m Model) sync() Model {
	m.customers = query.Use(m.cache, CustomersKey(), m.api.Customers, query.Options{Enabled: true})

	selection := append(domain.Selection(nil), m.selection...)
	page := m.page
	m.sales = query.Use(m.cache, SalesDataKey(selection, page), func(ctx context.Context) (domain.SalesData, error) {
		return m.api.SalesData(ctx, selection, page)
	}, query.Options{Enabled: !selection.Empty()})
	m.table = m.table.setRows(m.sales.Data)

	m.trend = m.trend.sync(m.cache, m.api)
	m.forecast = m.forecast.sync(m.cache, m.api)
	m.segments = m.segments.sync(m.cache, m.api)
	m.heatmap = m.heatmap.sync(m.cache, m.api)
	return m
}

func (m Model) currentPage() int {
	if m.sales.Status() == query.StatusSuccess {
		return m.sales.Data.Page()
	}
	return m.page
}

func (m Model) totalPages() int {
	if m.sales.Status() == query.StatusSuccess {
		return m.sales.Data.Pages()
	}
	return m.page
}

func (m Model) View() string {
	f := frame{styles: m.styles, spinner: m.spinner, width: m.width}

	customers := queryBody(f, m.customers, "Waiting for customers.", customersFailure, func(options []string) string {
		return m.picker.view(options, m.selection, m.focus == focusCustomers, f)
	})
	sales := queryBody(f, m.sales, "Select one or more customers to load sales data.", salesFailure, func(data domain.SalesData) string {
		return m.table.view(data, f)
	})

	return lipgloss.JoinVertical(lipgloss.Left,
		f.panel("Customers", customers, m.focus == focusCustomers),
		m.trend.view(f),
		m.forecast.view(f, m.focus == focusForecast),
		m.segments.view(f),
		m.heatmap.view(f),
		f.panel("Sales Data", sales, m.focus == focusTable),
	)
}

// Help describes the dashboard key bindings.
func (m Model) Help() string {
	switch m.focus {
	case focusForecast:
		return "tab focus • enter predict"
	case focusTable:
		return "tab focus • ↑/↓ rows • ←/→ page • r refresh"
	default:
		return "tab focus • ↑/↓ move • space toggle • c clear • r refresh"
	}
}
