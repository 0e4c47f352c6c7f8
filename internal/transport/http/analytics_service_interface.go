package http

import (
	"context"

	"superstore/internal/dataset"
	"superstore/pkg/contracts/domain"
)

// AnalyticsService defines the filtered analytics queries the API serves
type AnalyticsService interface {
	Summary(ctx context.Context, f dataset.Filter) (domain.Summary, error)
	SalesByRegion(ctx context.Context, f dataset.Filter) ([]domain.RegionSales, error)
	ProfitByCategory(ctx context.Context, f dataset.Filter) ([]domain.CategoryProfit, error)
	TopCustomers(ctx context.Context, f dataset.Filter, n int) ([]domain.CustomerSales, error)
	SalesByState(ctx context.Context, f dataset.Filter) ([]domain.StateSales, error)
	MonthlySales(ctx context.Context, f dataset.Filter) ([]domain.MonthlySales, error)
	DiscountProfit(ctx context.Context, f dataset.Filter) ([]domain.ScatterPoint, error)
	Regression(ctx context.Context, f dataset.Filter) (domain.RegressionReport, error)
}

// DatasetMetaService defines the dataset metadata queries
type DatasetMetaService interface {
	Info(ctx context.Context) (domain.DatasetInfo, error)
	FilterValues(ctx context.Context) (domain.FilterValues, error)
}
