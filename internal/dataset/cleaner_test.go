package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superstore/pkg/contracts/domain"
)

func rawRow(line int, orderDate, shipDate string, rec domain.Record) RawRow {
	return RawRow{Line: line, Record: rec, OrderDateText: orderDate, ShipDateText: shipDate}
}

func TestCleanerDates(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected time.Time
	}{
		{"day-first slash", "08/11/2017", time.Date(2017, 11, 8, 0, 0, 0, 0, time.UTC)},
		{"single digit day-first", "8/1/2017", time.Date(2017, 1, 8, 0, 0, 0, 0, time.UTC)},
		{"day-first dash", "08-11-2017", time.Date(2017, 11, 8, 0, 0, 0, 0, time.UTC)},
		{"iso", "2017-11-08", time.Date(2017, 11, 8, 0, 0, 0, 0, time.UTC)},
	}

	cleaner := NewCleaner(testLogger(), false, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &RawTable{Rows: []RawRow{rawRow(2, tt.text, tt.text, domain.Record{OrderID: "A"})}}
			records, report, err := cleaner.Clean(table)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, tt.expected, records[0].OrderDate)
			assert.Equal(t, tt.expected, records[0].ShipDate)
			assert.Zero(t, report.OrderDatesNulled)
		})
	}
}

func TestCleanerMalformedDatePolicy(t *testing.T) {
	table := func() *RawTable {
		return &RawTable{Rows: []RawRow{
			rawRow(2, "31/02/2017", "11/11/2017", domain.Record{OrderID: "A", Sales: 10}),
			rawRow(3, "08/11/2017", "11/11/2017", domain.Record{OrderID: "B", Sales: 20}),
		}}
	}

	t.Run("default policy nulls the value and keeps the row", func(t *testing.T) {
		cleaner := NewCleaner(testLogger(), false, nil)
		records, report, err := cleaner.Clean(table())
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.False(t, records[0].HasOrderDate())
		assert.True(t, records[0].HasShipDate())
		assert.True(t, records[1].HasOrderDate())
		assert.Equal(t, 1, report.OrderDatesNulled)
		assert.Zero(t, report.ShipDatesNulled)
	})

	t.Run("strict mode aborts with DateParseError", func(t *testing.T) {
		cleaner := NewCleaner(testLogger(), true, nil)
		_, _, err := cleaner.Clean(table())
		require.Error(t, err)
		assert.True(t, IsDateParseError(err), "expected DateParseError, got %T", err)
		assert.Contains(t, err.Error(), "31/02/2017")
	})
}

func TestCleanerPostalFill(t *testing.T) {
	table := &RawTable{Rows: []RawRow{
		rawRow(2, "08/11/2017", "11/11/2017", domain.Record{OrderID: "A", PostalCodeNull: true}),
		rawRow(3, "08/11/2017", "11/11/2017", domain.Record{OrderID: "B", PostalCode: 42420}),
	}}

	cleaner := NewCleaner(testLogger(), false, nil)
	records, report, err := cleaner.Clean(table)
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, 0, records[0].PostalCode)
	assert.Equal(t, 42420, records[1].PostalCode)
	assert.Equal(t, 1, report.PostalFilled)
	for _, rec := range records {
		assert.GreaterOrEqual(t, rec.PostalCode, 0)
	}
}

func TestCleanerDropDuplicates(t *testing.T) {
	base := domain.Record{OrderID: "A", CustomerName: "Ann", Region: "West", Sales: 100, Profit: 10}
	other := domain.Record{OrderID: "B", CustomerName: "Bob", Region: "East", Sales: 200, Profit: -5}

	t.Run("removes exact duplicates keeping the first", func(t *testing.T) {
		table := &RawTable{Rows: []RawRow{
			rawRow(2, "08/11/2017", "11/11/2017", base),
			rawRow(3, "08/11/2017", "11/11/2017", other),
			rawRow(4, "08/11/2017", "11/11/2017", base),
		}}

		cleaner := NewCleaner(testLogger(), false, nil)
		records, report, err := cleaner.Clean(table)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, "A", records[0].OrderID)
		assert.Equal(t, "B", records[1].OrderID)
		assert.Equal(t, 3, report.RowsBefore)
		assert.Equal(t, 2, report.RowsAfter)
		assert.Equal(t, 1, report.DuplicatesRemoved)
	})

	t.Run("filled null postal equals explicit zero", func(t *testing.T) {
		withNull := base
		withNull.PostalCodeNull = true
		table := &RawTable{Rows: []RawRow{
			rawRow(2, "08/11/2017", "11/11/2017", withNull),
			rawRow(3, "08/11/2017", "11/11/2017", base),
		}}

		cleaner := NewCleaner(testLogger(), false, nil)
		records, report, err := cleaner.Clean(table)
		require.NoError(t, err)
		assert.Len(t, records, 1)
		assert.Equal(t, 1, report.DuplicatesRemoved)
	})

	t.Run("rows differing in one column survive", func(t *testing.T) {
		variant := base
		variant.Sales = 101
		table := &RawTable{Rows: []RawRow{
			rawRow(2, "08/11/2017", "11/11/2017", base),
			rawRow(3, "08/11/2017", "11/11/2017", variant),
		}}

		cleaner := NewCleaner(testLogger(), false, nil)
		records, report, err := cleaner.Clean(table)
		require.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Zero(t, report.DuplicatesRemoved)
	})

	t.Run("no two identical rows survive for any table", func(t *testing.T) {
		rows := make([]RawRow, 0, 40)
		for i := 0; i < 40; i++ {
			rec := base
			if i%3 == 0 {
				rec = other
			}
			rows = append(rows, rawRow(i+2, "08/11/2017", "11/11/2017", rec))
		}

		cleaner := NewCleaner(testLogger(), false, nil)
		records, _, err := cleaner.Clean(&RawTable{Rows: rows})
		require.NoError(t, err)

		seen := make(map[domain.Record]struct{})
		for _, rec := range records {
			_, dup := seen[rec]
			assert.False(t, dup, "duplicate row survived cleaning")
			seen[rec] = struct{}{}
		}
	})
}

func TestCleanerEmptyTable(t *testing.T) {
	cleaner := NewCleaner(testLogger(), false, nil)
	records, report, err := cleaner.Clean(&RawTable{})
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, report.RowsBefore)
	assert.Zero(t, report.RowsAfter)
}
