package dashboard

import (
	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
	"github.com/DIEAbdulHadi/NebuloViz/internal/ports"
	"github.com/DIEAbdulHadi/NebuloViz/internal/query"
)

const trendFailure = "Error loading sales trend data."

func TrendKey() query.Key {
	return query.NewKey("salesTrend")
}

type trendView struct {
	result query.Result[domain.SalesTrend]
}

func (v trendView) sync(cache *query.Cache, api ports.SalesAPI) trendView {
	v.result = query.Use(cache, TrendKey(), api.SalesTrend, query.Options{Enabled: true})
	return v
}

func (v trendView) view(f frame) string {
	body := queryBody(f, v.result, "Waiting for sales trend.", trendFailure, func(trend domain.SalesTrend) string {
		return renderLine(trend.Dates, trend.Sales, f.plotWidth(), "Sales", f.styles.trend, f.styles)
	})
	return f.panel("Sales Trend", body, false)
}
