package exporter

import (
	"superstore/pkg/contracts/domain"
)

// Default artifact file names for a report run
const (
	SalesByRegionFile    = "sales_by_region.csv"
	ProfitByCategoryFile = "profit_by_category.csv"
	TopCustomersFile     = "top_customers.csv"
	MonthlySalesFile     = "monthly_sales.csv"
	SalesByStateFile     = "sales_by_state.csv"
)

// AggregateExporter writes aggregation results as CSV artifacts
type AggregateExporter struct {
	writer *CSVWriter
}

// NewAggregateExporter creates an aggregate exporter on top of a CSV
// writer
func NewAggregateExporter(writer *CSVWriter) *AggregateExporter {
	return &AggregateExporter{writer: writer}
}

// ExportSalesByRegion writes the sales-by-region table
func (e *AggregateExporter) ExportSalesByRegion(groups []domain.RegionSales, filePath string) error {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, []string{g.Region, formatFloat(g.Sales)})
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"Region", "Sales"}, records)
}

// ExportProfitByCategory writes the profit-by-category table
func (e *AggregateExporter) ExportProfitByCategory(groups []domain.CategoryProfit, filePath string) error {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, []string{g.Category, formatFloat(g.Profit)})
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"Category", "Profit"}, records)
}

// ExportTopCustomers writes the ranked top-customers table
func (e *AggregateExporter) ExportTopCustomers(customers []domain.CustomerSales, filePath string) error {
	records := make([][]string, 0, len(customers))
	for rank, c := range customers {
		records = append(records, []string{formatInt(rank + 1), c.Customer, formatFloat(c.Sales)})
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"Rank", "Customer", "Sales"}, records)
}

// ExportMonthlySales writes the monthly sales trend table
func (e *AggregateExporter) ExportMonthlySales(months []domain.MonthlySales, filePath string) error {
	records := make([][]string, 0, len(months))
	for _, m := range months {
		records = append(records, []string{formatMonth(m.Month), formatFloat(m.Sales)})
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"Month", "Sales"}, records)
}

// ExportSalesByState writes the sales-by-state table feeding the map
func (e *AggregateExporter) ExportSalesByState(states []domain.StateSales, filePath string) error {
	records := make([][]string, 0, len(states))
	for _, s := range states {
		records = append(records, []string{s.State, formatFloat(s.Sales)})
	}
	return e.writer.WriteSimpleCSV(filePath, []string{"State", "Sales"}, records)
}
