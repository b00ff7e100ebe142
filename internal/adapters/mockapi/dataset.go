package mockapi

import (
	"fmt"
	"sort"
	"time"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
)

const (
	datasetCustomers = 8
	datasetOrders    = 120
	datasetDays      = 30
	segmentCount     = 3
)

var datasetStart = time.Date(2023, time.November, 1, 0, 0, 0, 0, time.UTC)

// Dataset is the fixed body of data the mock backend serves.
type Dataset struct {
	Customers []string
	Orders    []domain.Order
}

// GenerateDataset builds a reproducible dataset: the same seed always yields
// the same customers and orders.
func GenerateDataset(seed uint64) Dataset {
	faker := gofakeit.New(seed)

	seen := map[string]bool{}
	customers := make([]string, 0, datasetCustomers)
	for len(customers) < datasetCustomers {
		name := faker.Company()
		if seen[name] {
			name = fmt.Sprintf("%s %d", name, len(customers)+1)
		}
		seen[name] = true
		customers = append(customers, name)
	}

	orders := make([]domain.Order, 0, datasetOrders)
	for i := 0; i < datasetOrders; i++ {
		day := datasetStart.AddDate(0, 0, faker.Number(0, datasetDays-1))
		orders = append(orders, domain.Order{
			ID:           int64(i + 1),
			CustomerName: customers[faker.Number(0, len(customers)-1)],
			Total:        decimal.NewFromFloat(faker.Float64Range(20, 900)).Round(2),
			CreatedAt:    day.Format(time.DateOnly),
		})
	}

	return Dataset{Customers: customers, Orders: orders}
}

func (d Dataset) filter(customers []string) []domain.Order {
	if len(customers) == 0 {
		return d.Orders
	}

	wanted := make(map[string]bool, len(customers))
	for _, name := range customers {
		wanted[name] = true
	}

	orders := make([]domain.Order, 0, len(d.Orders))
	for _, order := range d.Orders {
		if wanted[order.CustomerName] {
			orders = append(orders, order)
		}
	}
	return orders
}

// series sums order totals per day, in date order.
func series(orders []domain.Order) ([]string, []float64) {
	totals := map[string]decimal.Decimal{}
	for _, order := range orders {
		totals[order.CreatedAt] = totals[order.CreatedAt].Add(order.Total)
	}

	dates := make([]string, 0, len(totals))
	for date := range totals {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	sales := make([]float64, 0, len(dates))
	for _, date := range dates {
		sales = append(sales, totals[date].InexactFloat64())
	}
	return dates, sales
}

func (d Dataset) trend() domain.SalesTrend {
	dates, sales := series(d.Orders)
	return domain.SalesTrend{Dates: dates, Sales: sales}
}

// segments ranks customers by revenue and splits them into three bands.
func (d Dataset) segments() []domain.Segment {
	type stat struct {
		total  decimal.Decimal
		orders int
	}
	stats := make(map[string]*stat, len(d.Customers))
	for _, name := range d.Customers {
		stats[name] = &stat{}
	}
	for _, order := range d.Orders {
		s, ok := stats[order.CustomerName]
		if !ok {
			continue
		}
		s.total = s.total.Add(order.Total)
		s.orders++
	}

	ranked := append([]string(nil), d.Customers...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return stats[ranked[i]].total.GreaterThan(stats[ranked[j]].total)
	})

	segments := make([]domain.Segment, 0, len(ranked))
	for i, name := range ranked {
		segments = append(segments, domain.Segment{
			Segment:    i * segmentCount / max(len(ranked), 1),
			Total:      stats[name].total.Round(2).InexactFloat64(),
			OrderCount: stats[name].orders,
		})
	}
	return segments
}

// heatmap buckets revenue by weekday (x) and ISO week (y).
func (d Dataset) heatmap() domain.Heatmap {
	type cell struct {
		x, y string
	}
	totals := map[cell]decimal.Decimal{}
	var order []cell
	for _, o := range d.Orders {
		day, err := time.Parse(time.DateOnly, o.CreatedAt)
		if err != nil {
			continue
		}
		_, week := day.ISOWeek()
		c := cell{x: day.Weekday().String()[:3], y: fmt.Sprintf("W%02d", week)}
		if _, ok := totals[c]; !ok {
			order = append(order, c)
		}
		totals[c] = totals[c].Add(o.Total)
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].y != order[j].y {
			return order[i].y < order[j].y
		}
		return weekdayIndex(order[i].x) < weekdayIndex(order[j].x)
	})

	values := make([]domain.HeatmapCell, 0, len(order))
	for _, c := range order {
		values = append(values, domain.HeatmapCell{
			X: domain.Coordinate(c.x),
			Y: domain.Coordinate(c.y),
			V: totals[c].Round(2).InexactFloat64(),
		})
	}
	return domain.Heatmap{Values: values}
}

func weekdayIndex(abbr string) int {
	for i, day := range []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"} {
		if day == abbr {
			return i
		}
	}
	return 7
}

// predict projects the mean daily revenue onto each date, scaled by how busy
// that weekday has been.
func (d Dataset) predict(dates []string) ([]float64, error) {
	days, sales := series(d.Orders)
	if len(sales) == 0 {
		return make([]float64, len(dates)), nil
	}

	var sum float64
	byWeekday := map[time.Weekday][]float64{}
	for i, date := range days {
		sum += sales[i]
		if day, err := time.Parse(time.DateOnly, date); err == nil {
			byWeekday[day.Weekday()] = append(byWeekday[day.Weekday()], sales[i])
		}
	}
	mean := sum / float64(len(sales))

	predictions := make([]float64, 0, len(dates))
	for _, raw := range dates {
		day, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q", raw)
		}

		value := mean
		if samples := byWeekday[day.Weekday()]; len(samples) > 0 {
			var weekdaySum float64
			for _, v := range samples {
				weekdaySum += v
			}
			value = (mean + weekdaySum/float64(len(samples))) / 2
		}
		predictions = append(predictions, decimal.NewFromFloat(value).Round(2).InexactFloat64())
	}
	return predictions, nil
}
