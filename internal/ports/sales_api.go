package ports

import (
	"context"

	"github.com/DIEAbdulHadi/NebuloViz/internal/domain"
)

type SalesAPI interface {
	Customers(ctx context.Context) ([]string, error)
	SalesData(ctx context.Context, customers []string, page int) (domain.SalesData, error)
	SegmentCustomers(ctx context.Context) ([]domain.Segment, error)
	PredictSales(ctx context.Context, futureDates []string) (domain.Forecast, error)
	SalesTrend(ctx context.Context) (domain.SalesTrend, error)
	SalesHeatmap(ctx context.Context) (domain.Heatmap, error)
}

// CredentialSource is read synchronously before every outgoing request.
type CredentialSource interface {
	Credential() (string, bool)
}
