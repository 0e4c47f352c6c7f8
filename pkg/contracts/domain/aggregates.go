package domain

import (
	"time"
)

// RegionSales is one row of the sales-by-region aggregation
type RegionSales struct {
	Region string  `json:"region"`
	Sales  float64 `json:"sales"`
}

// CategoryProfit is one row of the profit-by-category aggregation
type CategoryProfit struct {
	Category string  `json:"category"`
	Profit   float64 `json:"profit"`
}

// CustomerSales is one row of the top-customers ranking
type CustomerSales struct {
	Customer string  `json:"customer"`
	Sales    float64 `json:"sales"`
}

// StateSales is one row of the sales-by-state aggregation feeding the map
type StateSales struct {
	State string  `json:"state"`
	Sales float64 `json:"sales"`
}

// MonthlySales is one point of the monthly sales trend
type MonthlySales struct {
	Month time.Time `json:"month"`
	Sales float64   `json:"sales"`
}

// ScatterPoint is one (discount, profit) observation
type ScatterPoint struct {
	Discount float64 `json:"discount"`
	Profit   float64 `json:"profit"`
}

// Summary bundles the dashboard KPIs for one filtered view
type Summary struct {
	TotalSales   float64 `json:"total_sales"`
	TotalProfit  float64 `json:"total_profit"`
	OrderCount   int     `json:"order_count"`
	ProfitMargin float64 `json:"profit_margin"`
	RowCount     int     `json:"row_count"`
}
