package dashboard

import (
	"context"
	"sync"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
)

type salesCall struct {
	customers []string
	page      int
}

type fakeAPI struct {
	mu sync.Mutex

	customers   []string
	sales       domain.SalesData
	predictions []float64
	predictErr  error

	customerCalls int
	salesCalls    []salesCall
	predictCalls  [][]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		customers: []string{"Customer A", "Customer B"},
		sales: domain.SalesData{
			Orders: []domain.Order{
				{ID: 1, CustomerName: "Customer A", CreatedAt: "2023-11-01"},
			},
			CurrentPage: 1,
			TotalPages:  3,
		},
		predictions: []float64{100, 150},
	}
}

func (f *fakeAPI) Customers(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customerCalls++
	return append([]string(nil), f.customers...), nil
}

func (f *fakeAPI) SalesData(_ context.Context, customers []string, page int) (domain.SalesData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.salesCalls = append(f.salesCalls, salesCall{customers: append([]string(nil), customers...), page: page})
	data := f.sales
	if page > 1 {
		data.CurrentPage = page
	}
	return data, nil
}

func (f *fakeAPI) SegmentCustomers(context.Context) ([]domain.Segment, error) {
	return []domain.Segment{
		{Segment: 0, Total: 1200, OrderCount: 12},
		{Segment: 4, Total: 300, OrderCount: 3},
	}, nil
}

func (f *fakeAPI) PredictSales(_ context.Context, futureDates []string) (domain.Forecast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictCalls = append(f.predictCalls, append([]string(nil), futureDates...))
	if f.predictErr != nil {
		return domain.Forecast{}, f.predictErr
	}
	return domain.Forecast{Predictions: append([]float64(nil), f.predictions...)}, nil
}

func (f *fakeAPI) SalesTrend(context.Context) (domain.SalesTrend, error) {
	return domain.SalesTrend{
		Dates: []string{"2023-11-01", "2023-11-02", "2023-11-03"},
		Sales: []float64{120, 340, 210},
	}, nil
}

func (f *fakeAPI) SalesHeatmap(context.Context) (domain.Heatmap, error) {
	return domain.Heatmap{Values: []domain.HeatmapCell{
		{X: "Mon", Y: "9", V: 1500},
		{X: "Tue", Y: "9", V: 800},
	}}, nil
}

func (f *fakeAPI) SalesCalls() []salesCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]salesCall(nil), f.salesCalls...)
}

func (f *fakeAPI) PredictCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.predictCalls...)
}
