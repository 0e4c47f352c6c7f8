package exporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"superstore/pkg/contracts/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := strings.TrimPrefix(string(content), "\xEF\xBB\xBF")
	rows, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir)

	t.Run("writes headers, records, and BOM", func(t *testing.T) {
		err := writer.WriteSimpleCSV("out.csv", []string{"A", "B"}, [][]string{{"1", "2"}, {"3", "4"}})
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dir, "out.csv"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "\xEF\xBB\xBF"))

		rows := readCSV(t, filepath.Join(dir, "out.csv"))
		assert.Equal(t, [][]string{{"A", "B"}, {"1", "2"}, {"3", "4"}}, rows)
	})

	t.Run("append adds rows without headers", func(t *testing.T) {
		require.NoError(t, writer.WriteSimpleCSV("append.csv", []string{"A"}, [][]string{{"1"}}))
		require.NoError(t, writer.WriteCSV("append.csv", WriteOptions{Records: [][]string{{"2"}}, Append: true}))

		rows := readCSV(t, filepath.Join(dir, "append.csv"))
		assert.Equal(t, [][]string{{"A"}, {"1"}, {"2"}}, rows)
	})

	t.Run("creates nested directories", func(t *testing.T) {
		err := writer.WriteSimpleCSV(filepath.Join("nested", "deep", "out.csv"), []string{"A"}, nil)
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "nested", "deep", "out.csv"))
		assert.NoError(t, err)
	})

	t.Run("stream writer round trip", func(t *testing.T) {
		stream, err := writer.CreateStreamWriter("stream.csv", []string{"X", "Y"})
		require.NoError(t, err)
		require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
		require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
		require.NoError(t, stream.Close())

		rows := readCSV(t, filepath.Join(dir, "stream.csv"))
		assert.Equal(t, [][]string{{"X", "Y"}, {"1", "2"}, {"3", "4"}}, rows)
	})
}

func TestAggregateExporter(t *testing.T) {
	dir := t.TempDir()
	agg := NewAggregateExporter(NewCSVWriter(dir))

	t.Run("sales by region", func(t *testing.T) {
		err := agg.ExportSalesByRegion([]domain.RegionSales{
			{Region: "West", Sales: 725457.8245},
			{Region: "East", Sales: 678781.24},
		}, SalesByRegionFile)
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(dir, SalesByRegionFile))
		assert.Equal(t, [][]string{
			{"Region", "Sales"},
			{"West", "725457.82"},
			{"East", "678781.24"},
		}, rows)
	})

	t.Run("top customers ranked from one", func(t *testing.T) {
		err := agg.ExportTopCustomers([]domain.CustomerSales{
			{Customer: "Sean Miller", Sales: 25043.05},
			{Customer: "Tamara Chand", Sales: 19052.2},
		}, TopCustomersFile)
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(dir, TopCustomersFile))
		assert.Equal(t, [][]string{
			{"Rank", "Customer", "Sales"},
			{"1", "Sean Miller", "25043.05"},
			{"2", "Tamara Chand", "19052.20"},
		}, rows)
	})

	t.Run("monthly sales uses year-month labels", func(t *testing.T) {
		err := agg.ExportMonthlySales([]domain.MonthlySales{
			{Month: time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC), Sales: 55691},
		}, MonthlySalesFile)
		require.NoError(t, err)

		rows := readCSV(t, filepath.Join(dir, MonthlySalesFile))
		assert.Equal(t, [][]string{{"Month", "Sales"}, {"2016-03", "55691.00"}}, rows)
	})

	t.Run("profit by category and state tables", func(t *testing.T) {
		require.NoError(t, agg.ExportProfitByCategory([]domain.CategoryProfit{{Category: "Technology", Profit: 145454.948}}, ProfitByCategoryFile))
		require.NoError(t, agg.ExportSalesByState([]domain.StateSales{{State: "California", Sales: 457687.63}}, SalesByStateFile))

		assert.Equal(t, [][]string{{"Category", "Profit"}, {"Technology", "145454.95"}}, readCSV(t, filepath.Join(dir, ProfitByCategoryFile)))
		assert.Equal(t, [][]string{{"State", "Sales"}, {"California", "457687.63"}}, readCSV(t, filepath.Join(dir, SalesByStateFile)))
	})
}

func TestRecordExporter(t *testing.T) {
	dir := t.TempDir()
	rows := NewRecordExporter(NewCSVWriter(dir))

	records := []domain.Record{
		{
			OrderID:      "CA-2016-152156",
			OrderDate:    time.Date(2016, 11, 8, 0, 0, 0, 0, time.UTC),
			ShipDate:     time.Date(2016, 11, 11, 0, 0, 0, 0, time.UTC),
			ShipMode:     "Second Class",
			CustomerID:   "CG-12520",
			CustomerName: "Claire Gute",
			Segment:      "Consumer",
			Country:      "United States",
			City:         "Henderson",
			State:        "Kentucky",
			PostalCode:   42420,
			Region:       "South",
			Category:     "Furniture",
			SubCategory:  "Bookcases",
			ProductName:  "Bush Somerset Collection Bookcase",
			Sales:        261.96,
			Quantity:     2,
			Discount:     0,
			Profit:       41.9136,
		},
		{
			OrderID:        "US-2017-108966",
			OrderDate:      time.Date(2017, 3, 2, 0, 0, 0, 0, time.UTC),
			ShipMode:       "Standard Class",
			CustomerID:     "AB-10015",
			CustomerName:   "Aaron Bergman",
			Segment:        "Consumer",
			Country:        "United States",
			City:           "Seattle",
			State:          "Washington",
			PostalCodeNull: true,
			Region:         "West",
			Category:       "Technology",
			SubCategory:    "Phones",
			ProductName:    "Cisco SPA 501G IP Phone",
			Sales:          1029.95,
			Quantity:       1,
			Discount:       0.2,
			Profit:         -12.5,
		},
	}

	require.NoError(t, rows.Export(records, CleanedDatasetFile))

	got := readCSV(t, filepath.Join(dir, CleanedDatasetFile))
	require.Len(t, got, 3)
	assert.Equal(t, domain.RequiredColumns(), got[0])
	assert.Equal(t, []string{
		"CA-2016-152156", "2016-11-08", "2016-11-11", "Second Class",
		"CG-12520", "Claire Gute", "Consumer", "United States", "Henderson",
		"Kentucky", "42420", "South", "Furniture", "Bookcases",
		"Bush Somerset Collection Bookcase", "261.96", "2", "0", "41.9136",
	}, got[1])
	assert.Equal(t, "", got[2][2], "nulled ship date exports as an empty cell")
	assert.Equal(t, "0", got[2][10], "filled postal exports as zero")
	assert.Equal(t, "0.2", got[2][17])
	assert.Equal(t, "-12.5", got[2][18])
}

func TestWorkbookExporter(t *testing.T) {
	dir := t.TempDir()
	wb := NewWorkbookExporter(dir)

	regression := &domain.RegressionReport{Slope: 0.12, Intercept: -3.4, MSE: 80.5, R2: 0.41}
	data := WorkbookData{
		Summary: domain.Summary{
			TotalSales:   300,
			TotalProfit:  5,
			OrderCount:   2,
			ProfitMargin: 5.0 / 300.0,
			RowCount:     2,
		},
		SalesByRegion:    []domain.RegionSales{{Region: "East", Sales: 200}, {Region: "West", Sales: 100}},
		ProfitByCategory: []domain.CategoryProfit{{Category: "Furniture", Profit: 5}},
		TopCustomers:     []domain.CustomerSales{{Customer: "Ann", Sales: 300}},
		MonthlySales:     []domain.MonthlySales{{Month: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), Sales: 300}},
		SalesByState:     []domain.StateSales{{State: "Kentucky", Sales: 300}},
		Regression:       regression,
	}

	require.NoError(t, wb.Export(data, SummaryWorkbookFile))

	f, err := excelize.OpenFile(filepath.Join(dir, SummaryWorkbookFile))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{"Summary", "Sales by Region", "Profit by Category", "Top Customers", "Monthly Sales", "Sales by State"}, sheets)

	totalSales, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "300", totalSales)

	slopeLabel, err := f.GetCellValue("Summary", "A7")
	require.NoError(t, err)
	assert.Equal(t, "Regression Slope", slopeLabel)

	region, err := f.GetCellValue("Sales by Region", "A2")
	require.NoError(t, err)
	assert.Equal(t, "East", region)
}
