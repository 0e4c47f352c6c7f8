package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"superstore/internal/errors"
	"superstore/pkg/contracts/domain"
)

// SummaryWorkbookFile is the default XLSX artifact name
const SummaryWorkbookFile = "summary.xlsx"

// WorkbookExporter writes all aggregate tables into one XLSX workbook,
// one sheet per table with the KPI summary first.
type WorkbookExporter struct {
	outputDir string
}

// NewWorkbookExporter creates a workbook exporter rooted at outputDir
func NewWorkbookExporter(outputDir string) *WorkbookExporter {
	return &WorkbookExporter{outputDir: outputDir}
}

// WorkbookData bundles everything one report run exports
type WorkbookData struct {
	Summary          domain.Summary
	SalesByRegion    []domain.RegionSales
	ProfitByCategory []domain.CategoryProfit
	TopCustomers     []domain.CustomerSales
	MonthlySales     []domain.MonthlySales
	SalesByState     []domain.StateSales
	Regression       *domain.RegressionReport
}

// Export writes the workbook to fileName under the output directory
func (e *WorkbookExporter) Export(data WorkbookData, fileName string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeSummarySheet(f, data); err != nil {
		return err
	}
	if err := writeSheet(f, "Sales by Region", []string{"Region", "Sales"}, len(data.SalesByRegion), func(i int) []interface{} {
		return []interface{}{data.SalesByRegion[i].Region, data.SalesByRegion[i].Sales}
	}); err != nil {
		return err
	}
	if err := writeSheet(f, "Profit by Category", []string{"Category", "Profit"}, len(data.ProfitByCategory), func(i int) []interface{} {
		return []interface{}{data.ProfitByCategory[i].Category, data.ProfitByCategory[i].Profit}
	}); err != nil {
		return err
	}
	if err := writeSheet(f, "Top Customers", []string{"Rank", "Customer", "Sales"}, len(data.TopCustomers), func(i int) []interface{} {
		return []interface{}{i + 1, data.TopCustomers[i].Customer, data.TopCustomers[i].Sales}
	}); err != nil {
		return err
	}
	if err := writeSheet(f, "Monthly Sales", []string{"Month", "Sales"}, len(data.MonthlySales), func(i int) []interface{} {
		return []interface{}{formatMonth(data.MonthlySales[i].Month), data.MonthlySales[i].Sales}
	}); err != nil {
		return err
	}
	if err := writeSheet(f, "Sales by State", []string{"State", "Sales"}, len(data.SalesByState), func(i int) []interface{} {
		return []interface{}{data.SalesByState[i].State, data.SalesByState[i].Sales}
	}); err != nil {
		return err
	}

	fullPath := filepath.Join(e.outputDir, fileName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return errors.NewStorageError("create directory for workbook output", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return errors.NewStorageError("save summary workbook", err)
	}
	return nil
}

// writeSummarySheet fills the default first sheet with the KPI block
// and, when present, the regression baseline.
func (e *WorkbookExporter) writeSummarySheet(f *excelize.File, data WorkbookData) error {
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "Summary"); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	sheet = "Summary"

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Sales", data.Summary.TotalSales},
		{"Total Profit", data.Summary.TotalProfit},
		{"Order Count", data.Summary.OrderCount},
		{"Profit Margin", data.Summary.ProfitMargin},
		{"Rows", data.Summary.RowCount},
	}
	if data.Regression != nil {
		rows = append(rows,
			[]interface{}{"Regression Slope", data.Regression.Slope},
			[]interface{}{"Regression Intercept", data.Regression.Intercept},
			[]interface{}{"Regression MSE", data.Regression.MSE},
			[]interface{}{"Regression R2", data.Regression.R2},
		)
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("summary cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write summary cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func writeSheet(f *excelize.File, name string, headers []string, rows int, row func(i int) []interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}

	for c, header := range headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(name, cell, header); err != nil {
			return fmt.Errorf("write header %q: %w", header, err)
		}
	}

	for i := 0; i < rows; i++ {
		for c, value := range row(i) {
			cell, err := excelize.CoordinatesToCellName(c+1, i+2)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return fmt.Errorf("write cell %s on %q: %w", cell, name, err)
			}
		}
	}
	return nil
}
