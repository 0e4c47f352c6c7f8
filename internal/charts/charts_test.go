package charts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/pkg/contracts/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(content), len(pngMagic))
	assert.Equal(t, pngMagic, content[:len(pngMagic)])
}

func TestBarCharts(t *testing.T) {
	dir := t.TempDir()

	t.Run("sales by region", func(t *testing.T) {
		path := filepath.Join(dir, "sales_by_region.png")
		err := SalesByRegionBar([]domain.RegionSales{
			{Region: "West", Sales: 725457.82},
			{Region: "East", Sales: 678781.24},
			{Region: "Central", Sales: 501239.89},
			{Region: "South", Sales: 391721.91},
		}, path)
		require.NoError(t, err)
		assertPNG(t, path)
	})

	t.Run("profit by category", func(t *testing.T) {
		path := filepath.Join(dir, "profit_by_category.png")
		err := ProfitByCategoryBar([]domain.CategoryProfit{
			{Category: "Technology", Profit: 145454.95},
			{Category: "Office Supplies", Profit: 122490.80},
			{Category: "Furniture", Profit: 18451.27},
		}, path)
		require.NoError(t, err)
		assertPNG(t, path)
	})

	t.Run("top customers", func(t *testing.T) {
		path := filepath.Join(dir, "top_customers.png")
		err := TopCustomersBar([]domain.CustomerSales{
			{Customer: "Sean Miller", Sales: 25043.05},
			{Customer: "Tamara Chand", Sales: 19052.22},
		}, path)
		require.NoError(t, err)
		assertPNG(t, path)
	})

	t.Run("empty groups still render", func(t *testing.T) {
		path := filepath.Join(dir, "empty.png")
		require.NoError(t, SalesByRegionBar(nil, path))
		assertPNG(t, path)
	})
}

func TestDiscountProfitScatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discount_profit.png")
	err := DiscountProfitScatter([]domain.ScatterPoint{
		{Discount: 0, Profit: 41.91},
		{Discount: 0.2, Profit: -6.87},
		{Discount: 0.8, Profit: -123.86},
	}, path)
	require.NoError(t, err)
	assertPNG(t, path)
}

func TestMonthlySalesLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly_sales.png")
	months := []domain.MonthlySales{
		{Month: time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC), Sales: 14236.9},
		{Month: time.Date(2016, 2, 1, 0, 0, 0, 0, time.UTC), Sales: 4519.9},
		{Month: time.Date(2016, 3, 1, 0, 0, 0, 0, time.UTC), Sales: 55691.0},
	}
	require.NoError(t, MonthlySalesLine(months, path))
	assertPNG(t, path)
}

func TestSalesProfitFitScatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profit_fit.png")
	records := []domain.Record{
		{Sales: 100, Profit: 12},
		{Sales: 200, Profit: 25},
		{Sales: 300, Profit: 31},
	}
	fit := domain.RegressionReport{Slope: 0.1, Intercept: 1.5, R2: 0.92}
	require.NoError(t, SalesProfitFitScatter(records, fit, path))
	assertPNG(t, path)
}

func TestStateSalesChoropleth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_by_state.html")
	err := StateSalesChoropleth([]domain.StateSales{
		{State: "California", Sales: 457687.63},
		{State: "New York", Sales: 310876.27},
		{State: "Texas", Sales: 170188.05},
	}, path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(content)

	assert.Contains(t, html, "California")
	assert.Contains(t, html, "New York")
	assert.Contains(t, html, "maps/USA.js", "map asset with state boundaries must be referenced")
	assert.Contains(t, html, "visualMap")
}
