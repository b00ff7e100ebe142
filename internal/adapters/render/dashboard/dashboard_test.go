package dashboard

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/adapters/apiclient"
	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDashboard(t *testing.T, api *fakeAPI) Model {
	t.Helper()

	cache := query.New(query.Config{})
	t.Cleanup(cache.Close)
	return settle(t, New(cache, api))
}

// settle waits for every observed query to finish and re-syncs the model.
func settle(t *testing.T, m Model) Model {
	t.Helper()

	require.Eventually(t, m.Settled, time.Second, 5*time.Millisecond)
	return update(t, m, SyncMsg{})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)

	if cmd == nil {
		return model
	}
	switch follow := cmd().(type) {
	case SelectionChangedMsg, PageChangedMsg:
		return update(t, model, follow)
	default:
		return model
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestDashboardShowsCustomerOptions(t *testing.T) {
	m := newTestDashboard(t, newFakeAPI())

	assert.Equal(t, []string{"Customer A", "Customer B"}, m.CustomerOptions())
	view := m.View()
	assert.Contains(t, view, "[ ] Customer A")
	assert.Contains(t, view, "[ ] Customer B")
	assert.Contains(t, view, "Select one or more customers to load sales data.")
}

func TestDashboardEmptySelectionNeverFetchesSalesData(t *testing.T) {
	api := newFakeAPI()
	m := newTestDashboard(t, api)

	m = settle(t, update(t, m, SyncMsg{}))

	assert.Empty(t, api.SalesCalls())
	assert.Equal(t, query.StatusIdle, m.sales.Status())
	assert.False(t, m.sales.State.Enabled)
}

func TestDashboardSelectingCustomerFetchesOnce(t *testing.T) {
	api := newFakeAPI()
	m := newTestDashboard(t, api)

	m = update(t, m, keyPress("space"))
	assert.Equal(t, domain.Selection{"Customer A"}, m.Selection())
	m = settle(t, m)
	m = settle(t, update(t, m, SyncMsg{}))

	assert.Equal(t, []salesCall{{customers: []string{"Customer A"}, page: 1}}, api.SalesCalls())
	view := m.View()
	assert.Contains(t, view, "[x] Customer A")
	assert.Contains(t, view, "Page 1/3")
}

func TestDashboardSelectionRoundTripIsIdempotent(t *testing.T) {
	api := newFakeAPI()
	m := newTestDashboard(t, api)
	both := domain.NewSelection(m.CustomerOptions(), "Customer A", "Customer B")

	m = settle(t, m.Select(both))
	firstKey := SalesDataKey(m.Selection(), m.Page()).ID()
	firstView := m.View()

	m = settle(t, m.Select(domain.Selection{}))
	assert.Contains(t, m.View(), "Select one or more customers to load sales data.")

	m = settle(t, m.Select(domain.NewSelection(m.CustomerOptions(), "Customer B", "Customer A")))

	assert.Equal(t, firstKey, SalesDataKey(m.Selection(), m.Page()).ID())
	assert.Equal(t, firstView, m.View())
	assert.Len(t, api.SalesCalls(), 1)
}

func TestDashboardPageChangeRefetchesWithPage(t *testing.T) {
	api := newFakeAPI()
	m := newTestDashboard(t, api)
	m = settle(t, m.Select(domain.Selection{"Customer A"}))

	m = update(t, m, keyPress("tab"))
	m = update(t, m, keyPress("tab"))
	m = update(t, m, keyPress("left"))
	assert.Equal(t, 1, m.Page())

	m = update(t, m, keyPress("right"))
	assert.Equal(t, 2, m.Page())
	m = settle(t, m)

	calls := api.SalesCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, 2, calls[1].page)
	assert.Contains(t, m.View(), "Page 2/3")

	m = settle(t, m.Select(domain.Selection{"Customer B"}))
	assert.Equal(t, 1, m.Page())
}

func TestDashboardForecastWaitsForPredict(t *testing.T) {
	api := newFakeAPI()
	m := newTestDashboard(t, api)

	assert.Empty(t, api.PredictCalls())
	assert.Contains(t, m.View(), "Enter future dates and press enter to predict sales.")

	m = update(t, m, keyPress("tab"))
	m = update(t, m, keyPress("enter"))
	m = settle(t, m)

	require.Equal(t, [][]string{{"2023-12-01", "2023-12-02"}}, api.PredictCalls())
	view := m.View()
	first := strings.Index(view, "2023-12-01  100")
	second := strings.Index(view, "2023-12-02  150")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)
}

func TestDashboardForecastEditingChangesKeyWithoutFetching(t *testing.T) {
	api := newFakeAPI()
	m := newTestDashboard(t, api)

	m = settle(t, m.SetFutureDates("2024-01-01,2024-01-02, 2024-01-03").Predict())
	require.Len(t, api.PredictCalls(), 1)

	m = settle(t, m.SetFutureDates("2024-02-01"))
	assert.Len(t, api.PredictCalls(), 1)
	assert.NotContains(t, m.View(), "2024-01-01  100")
	assert.Contains(t, m.View(), "Enter future dates and press enter to predict sales.")
}

func TestDashboardForecastShowsErrorInline(t *testing.T) {
	api := newFakeAPI()
	api.predictErr = errors.New("GET /ai/predict-sales/: request timed out")
	m := newTestDashboard(t, api)

	m = settle(t, m.Predict())

	view := m.View()
	assert.Contains(t, view, forecastFailure)
	assert.NotContains(t, view, loadingLabel)
}

func TestDashboardForecastShowsErrorWhenRequestTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/ai/predict-sales/":
			<-r.Context().Done()
		case "/api/v1/customers/":
			_, _ = w.Write([]byte(`["Customer A"]`))
		case "/api/v1/ai/segment-customers/":
			_, _ = w.Write([]byte(`[]`))
		case "/api/v1/sales/heatmap":
			_, _ = w.Write([]byte(`{"values":[]}`))
		default:
			_, _ = w.Write([]byte(`{"dates":[],"sales":[]}`))
		}
	}))
	t.Cleanup(server.Close)

	client, err := apiclient.New(apiclient.Options{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	cache := query.New(query.Config{})
	t.Cleanup(cache.Close)
	m := settle(t, New(cache, client))

	m = settle(t, m.Predict())

	view := m.View()
	assert.Contains(t, view, forecastFailure)
	assert.NotContains(t, view, loadingLabel)
}

func TestDashboardTableRowsFollowCursor(t *testing.T) {
	api := newFakeAPI()
	api.sales.Orders = []domain.Order{
		{ID: 1, CustomerName: "Customer A", CreatedAt: "2023-11-01"},
		{ID: 2, CustomerName: "Customer A", CreatedAt: "2023-11-02"},
		{ID: 3, CustomerName: "Customer A", CreatedAt: "2023-11-03"},
	}
	m := newTestDashboard(t, api)
	m = settle(t, m.Select(domain.Selection{"Customer A"}))

	m = update(t, m, keyPress("tab"))
	m = update(t, m, keyPress("tab"))
	require.Equal(t, focusTable, m.focus)

	m = update(t, m, keyPress("down"))
	m = update(t, m, keyPress("down"))
	assert.Equal(t, 2, m.table.cursor())

	m = update(t, m, keyPress("down"))
	assert.Equal(t, 2, m.table.cursor())

	m = settle(t, update(t, m, SyncMsg{}))
	assert.Equal(t, 2, m.table.cursor())
}

func TestDashboardRendersIndependentViews(t *testing.T) {
	m := newTestDashboard(t, newFakeAPI())

	view := m.View()
	assert.Contains(t, view, "Sales Trend")
	assert.Contains(t, view, "2023-11-01")
	assert.Contains(t, view, "Segment 0")
	assert.Contains(t, view, "Segment 4")
	assert.Contains(t, view, "1500")
	assert.Contains(t, view, "Mon")
	assert.NotContains(t, view, loadingLabel)
}

func TestDashboardRefreshRefetchesEnabledQueries(t *testing.T) {
	api := newFakeAPI()
	m := newTestDashboard(t, api)

	m = settle(t, update(t, m, keyPress("r")))

	api.mu.Lock()
	calls := api.customerCalls
	api.mu.Unlock()
	assert.Equal(t, 2, calls)
	assert.Empty(t, api.PredictCalls())
}

func TestDashboardShowsSpinnerWhileFetching(t *testing.T) {
	cache := query.New(query.Config{})
	t.Cleanup(cache.Close)

	m := New(cache, newFakeAPI())
	assert.Contains(t, m.View(), loadingLabel)
}
