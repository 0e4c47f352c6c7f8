package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name       string
		records    []domain.Record
		wantSales  float64
		wantProfit float64
	}{
		{
			name:      "empty table yields zero",
			records:   nil,
			wantSales: 0, wantProfit: 0,
		},
		{
			name: "sums match the columns exactly",
			records: []domain.Record{
				{Sales: 261.96, Profit: 41.9136},
				{Sales: 731.94, Profit: 219.582},
				{Sales: 14.62, Profit: -6.871},
			},
			wantSales:  261.96 + 731.94 + 14.62,
			wantProfit: 41.9136 + 219.582 + -6.871,
		},
		{
			name: "negative profit is signable",
			records: []domain.Record{
				{Sales: 100, Profit: -50},
				{Sales: 50, Profit: -25},
			},
			wantSales: 150, wantProfit: -75,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantSales, TotalSales(tt.records), 1e-9)
			assert.InDelta(t, tt.wantProfit, TotalProfit(tt.records), 1e-9)
		})
	}
}

func TestOrderCount(t *testing.T) {
	records := []domain.Record{
		{OrderID: "CA-1"},
		{OrderID: "CA-1"},
		{OrderID: "CA-2"},
		{OrderID: ""},
	}
	assert.Equal(t, 2, OrderCount(records))
	assert.Zero(t, OrderCount(nil))
}

func TestProfitMargin(t *testing.T) {
	t.Run("ratio of totals", func(t *testing.T) {
		records := []domain.Record{
			{Sales: 100, Profit: 10},
			{Sales: 200, Profit: -5},
		}
		assert.InDelta(t, 5.0/300.0, ProfitMargin(records), 1e-9)
	})

	t.Run("zero sales yields the sentinel", func(t *testing.T) {
		assert.Zero(t, ProfitMargin(nil))
		assert.Zero(t, ProfitMargin([]domain.Record{{Sales: 0, Profit: 12}}))
	})
}

func TestSalesByRegion(t *testing.T) {
	records := []domain.Record{
		{Region: "West", Sales: 100},
		{Region: "East", Sales: 150},
		{Region: "Central", Sales: 75},
		{Region: "West", Sales: 25},
		{Region: "East", Sales: 50},
	}

	got := SalesByRegion(records)
	require.Len(t, got, 3)

	assert.Equal(t, "East", got[0].Region)
	assert.InDelta(t, 200, got[0].Sales, 1e-9)
	assert.Equal(t, "West", got[1].Region)
	assert.InDelta(t, 125, got[1].Sales, 1e-9)
	assert.Equal(t, "Central", got[2].Region)

	t.Run("sorted descending", func(t *testing.T) {
		for i := 1; i < len(got); i++ {
			assert.GreaterOrEqual(t, got[i-1].Sales, got[i].Sales)
		}
	})

	t.Run("group values sum to total sales", func(t *testing.T) {
		var sum float64
		for _, g := range got {
			sum += g.Sales
		}
		assert.InDelta(t, TotalSales(records), sum, 1e-9)
	})

	t.Run("ties keep first-encountered order", func(t *testing.T) {
		tied := SalesByRegion([]domain.Record{
			{Region: "South", Sales: 10},
			{Region: "North", Sales: 10},
		})
		require.Len(t, tied, 2)
		assert.Equal(t, "South", tied[0].Region)
		assert.Equal(t, "North", tied[1].Region)
	})
}

func TestProfitByCategory(t *testing.T) {
	records := []domain.Record{
		{Category: "Furniture", Profit: 10},
		{Category: "Technology", Profit: 100},
		{Category: "Office Supplies", Profit: -20},
		{Category: "Furniture", Profit: 5},
	}

	got := ProfitByCategory(records)
	require.Len(t, got, 3)
	assert.Equal(t, domain.CategoryProfit{Category: "Technology", Profit: 100}, got[0])
	assert.Equal(t, "Furniture", got[1].Category)
	assert.InDelta(t, 15, got[1].Profit, 1e-9)
	assert.Equal(t, "Office Supplies", got[2].Category)
}

func TestTopCustomers(t *testing.T) {
	records := []domain.Record{
		{CustomerName: "Ann", Sales: 100},
		{CustomerName: "Bob", Sales: 300},
		{CustomerName: "Cara", Sales: 200},
		{CustomerName: "Ann", Sales: 250},
	}

	t.Run("top n descending", func(t *testing.T) {
		got := TopCustomers(records, 2)
		require.Len(t, got, 2)
		assert.Equal(t, "Ann", got[0].Customer)
		assert.InDelta(t, 350, got[0].Sales, 1e-9)
		assert.Equal(t, "Bob", got[1].Customer)
	})

	t.Run("n beyond distinct customers returns all", func(t *testing.T) {
		got := TopCustomers(records, 10)
		assert.Len(t, got, 3)
	})

	t.Run("n of zero or less returns none", func(t *testing.T) {
		assert.Empty(t, TopCustomers(records, 0))
		assert.Empty(t, TopCustomers(records, -1))
	})

	t.Run("ties are stable on first encounter", func(t *testing.T) {
		tied := TopCustomers([]domain.Record{
			{CustomerName: "Zed", Sales: 50},
			{CustomerName: "Amy", Sales: 50},
			{CustomerName: "Max", Sales: 60},
		}, 3)
		require.Len(t, tied, 3)
		assert.Equal(t, "Max", tied[0].Customer)
		assert.Equal(t, "Zed", tied[1].Customer)
		assert.Equal(t, "Amy", tied[2].Customer)
	})
}

func TestSalesByState(t *testing.T) {
	records := []domain.Record{
		{State: "California", Sales: 500},
		{State: "Texas", Sales: 300},
		{State: "California", Sales: 100},
		{State: "", Sales: 999},
	}

	got := SalesByState(records)
	require.Len(t, got, 2)
	assert.Equal(t, "California", got[0].State)
	assert.InDelta(t, 600, got[0].Sales, 1e-9)
	assert.Equal(t, "Texas", got[1].State)
}

func TestMonthlySales(t *testing.T) {
	records := []domain.Record{
		{OrderDate: day(2016, 3, 5), Sales: 100},
		{OrderDate: day(2016, 3, 28), Sales: 50},
		{OrderDate: day(2016, 1, 2), Sales: 75},
		{OrderDate: day(2017, 1, 15), Sales: 25},
		{Sales: 999}, // nulled order date is excluded
	}

	got := MonthlySales(records)
	require.Len(t, got, 3)
	assert.Equal(t, day(2016, 1, 1), got[0].Month)
	assert.InDelta(t, 75, got[0].Sales, 1e-9)
	assert.Equal(t, day(2016, 3, 1), got[1].Month)
	assert.InDelta(t, 150, got[1].Sales, 1e-9)
	assert.Equal(t, day(2017, 1, 1), got[2].Month)
}

func TestDiscountProfitPoints(t *testing.T) {
	records := []domain.Record{
		{Discount: 0.2, Profit: 6.87},
		{Discount: 0, Profit: 41.91},
	}
	got := DiscountProfitPoints(records)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ScatterPoint{Discount: 0.2, Profit: 6.87}, got[0])
	assert.Equal(t, domain.ScatterPoint{Discount: 0, Profit: 41.91}, got[1])
}

func TestSummarize(t *testing.T) {
	t.Run("two-row scenario", func(t *testing.T) {
		records := []domain.Record{
			{OrderID: "O-1", Region: "West", Sales: 100, Profit: 10},
			{OrderID: "O-2", Region: "East", Sales: 200, Profit: -5},
		}

		summary := Summarize(records)
		assert.InDelta(t, 300, summary.TotalSales, 1e-9)
		assert.InDelta(t, 5, summary.TotalProfit, 1e-9)
		assert.Equal(t, 2, summary.OrderCount)
		assert.InDelta(t, 5.0/300.0, summary.ProfitMargin, 1e-9)
		assert.Equal(t, 2, summary.RowCount)

		byRegion := SalesByRegion(records)
		require.Len(t, byRegion, 2)
		assert.Equal(t, domain.RegionSales{Region: "East", Sales: 200}, byRegion[0])
		assert.Equal(t, domain.RegionSales{Region: "West", Sales: 100}, byRegion[1])
	})

	t.Run("empty table", func(t *testing.T) {
		summary := Summarize(nil)
		assert.Zero(t, summary.TotalSales)
		assert.Zero(t, summary.TotalProfit)
		assert.Zero(t, summary.OrderCount)
		assert.Zero(t, summary.ProfitMargin)
		assert.Zero(t, summary.RowCount)
	})
}
