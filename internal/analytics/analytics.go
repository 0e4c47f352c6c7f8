// Package analytics computes the aggregate views the dashboard and the
// report artifacts are built from. Every function is pure: same input
// slice, same output, no mutation, no side effects.
package analytics

import (
	"sort"
	"time"

	"superstore/pkg/contracts/domain"
)

// TotalSales sums the sales column. An empty table yields 0.
func TotalSales(records []domain.Record) float64 {
	var total float64
	for _, rec := range records {
		total += rec.Sales
	}
	return total
}

// TotalProfit sums the profit column. An empty table yields 0.
func TotalProfit(records []domain.Record) float64 {
	var total float64
	for _, rec := range records {
		total += rec.Profit
	}
	return total
}

// OrderCount counts distinct order identifiers. Rows without one are
// not orders and do not count.
func OrderCount(records []domain.Record) int {
	orders := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if rec.OrderID == "" {
			continue
		}
		orders[rec.OrderID] = struct{}{}
	}
	return len(orders)
}

// ProfitMargin is total profit over total sales. Zero total sales has
// no meaningful margin and yields the documented sentinel 0.
func ProfitMargin(records []domain.Record) float64 {
	totalSales := TotalSales(records)
	if totalSales == 0 {
		return 0
	}
	return TotalProfit(records) / totalSales
}

// Summarize bundles the KPI strip values for one filtered view
func Summarize(records []domain.Record) domain.Summary {
	return domain.Summary{
		TotalSales:   TotalSales(records),
		TotalProfit:  TotalProfit(records),
		OrderCount:   OrderCount(records),
		ProfitMargin: ProfitMargin(records),
		RowCount:     len(records),
	}
}

// SalesByRegion groups sales by region, descending by value. Equal
// values keep first-encountered region order.
func SalesByRegion(records []domain.Record) []domain.RegionSales {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		if _, seen := totals[rec.Region]; !seen {
			order = append(order, rec.Region)
		}
		totals[rec.Region] += rec.Sales
	}

	out := make([]domain.RegionSales, 0, len(order))
	for _, region := range order {
		out = append(out, domain.RegionSales{Region: region, Sales: totals[region]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sales > out[j].Sales
	})
	return out
}

// ProfitByCategory groups profit by category, descending by value
func ProfitByCategory(records []domain.Record) []domain.CategoryProfit {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		if _, seen := totals[rec.Category]; !seen {
			order = append(order, rec.Category)
		}
		totals[rec.Category] += rec.Profit
	}

	out := make([]domain.CategoryProfit, 0, len(order))
	for _, category := range order {
		out = append(out, domain.CategoryProfit{Category: category, Profit: totals[category]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Profit > out[j].Profit
	})
	return out
}

// TopCustomers ranks customers by summed sales and returns at most n,
// descending. Ties keep first-encountered customer order; n above the
// number of distinct customers returns all of them.
func TopCustomers(records []domain.Record, n int) []domain.CustomerSales {
	if n <= 0 {
		return []domain.CustomerSales{}
	}

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		if _, seen := totals[rec.CustomerName]; !seen {
			order = append(order, rec.CustomerName)
		}
		totals[rec.CustomerName] += rec.Sales
	}

	out := make([]domain.CustomerSales, 0, len(order))
	for _, customer := range order {
		out = append(out, domain.CustomerSales{Customer: customer, Sales: totals[customer]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sales > out[j].Sales
	})

	if n < len(out) {
		out = out[:n]
	}
	return out
}

// SalesByState groups sales by state for the map, descending by value
func SalesByState(records []domain.Record) []domain.StateSales {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		if rec.State == "" {
			continue
		}
		if _, seen := totals[rec.State]; !seen {
			order = append(order, rec.State)
		}
		totals[rec.State] += rec.Sales
	}

	out := make([]domain.StateSales, 0, len(order))
	for _, state := range order {
		out = append(out, domain.StateSales{State: state, Sales: totals[state]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sales > out[j].Sales
	})
	return out
}

// MonthlySales groups sales by order month, ascending. Rows with a
// nulled order date have no month and are excluded.
func MonthlySales(records []domain.Record) []domain.MonthlySales {
	totals := make(map[time.Time]float64)
	for _, rec := range records {
		if !rec.HasOrderDate() {
			continue
		}
		totals[rec.OrderMonth()] += rec.Sales
	}

	months := make([]time.Time, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})

	out := make([]domain.MonthlySales, 0, len(months))
	for _, month := range months {
		out = append(out, domain.MonthlySales{Month: month, Sales: totals[month]})
	}
	return out
}

// DiscountProfitPoints extracts the (discount, profit) observations for
// the scatter, in row order.
func DiscountProfitPoints(records []domain.Record) []domain.ScatterPoint {
	out := make([]domain.ScatterPoint, 0, len(records))
	for _, rec := range records {
		out = append(out, domain.ScatterPoint{Discount: rec.Discount, Profit: rec.Profit})
	}
	return out
}
