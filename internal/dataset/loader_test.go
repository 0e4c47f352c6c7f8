package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleHeader = "Row ID,Order ID,Order Date,Ship Date,Ship Mode,Customer ID,Customer Name,Segment,Country,City,State,Postal Code,Region,Category,Sub-Category,Product Name,Sales,Quantity,Discount,Profit"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderCSV(t *testing.T) {
	t.Run("parses rows and keeps dates textual", func(t *testing.T) {
		csvData := sampleHeader + "\n" +
			"1,CA-2017-152156,08/11/2017,11/11/2017,Second Class,CG-12520,Claire Gute,Consumer,United States,Henderson,Kentucky,42420,South,Furniture,Bookcases,Bush Somerset Collection Bookcase,261.96,2,0,41.9136\n" +
			"2,CA-2017-152156,08/11/2017,11/11/2017,Second Class,CG-12520,Claire Gute,Consumer,United States,Henderson,Kentucky,42420,South,Furniture,Chairs,Hon Deluxe Fabric Upholstered Stacking Chairs,731.94,3,0,219.582\n"

		loader := NewLoader(testLogger(), EncodingUTF8)
		table, err := loader.Load(context.Background(), writeTempCSV(t, csvData))
		require.NoError(t, err)

		require.Len(t, table.Rows, 2)
		assert.Equal(t, 20, table.Columns)

		first := table.Rows[0]
		assert.Equal(t, "CA-2017-152156", first.Record.OrderID)
		assert.Equal(t, "08/11/2017", first.OrderDateText)
		assert.Equal(t, "11/11/2017", first.ShipDateText)
		assert.Equal(t, "Claire Gute", first.Record.CustomerName)
		assert.Equal(t, 42420, first.Record.PostalCode)
		assert.False(t, first.Record.PostalCodeNull)
		assert.InDelta(t, 261.96, first.Record.Sales, 1e-9)
		assert.Equal(t, 2, first.Record.Quantity)
		assert.InDelta(t, 41.9136, first.Record.Profit, 1e-9)
		assert.True(t, first.Record.OrderDate.IsZero(), "loader must not parse dates")
	})

	t.Run("strips UTF-8 BOM", func(t *testing.T) {
		csvData := "\xEF\xBB\xBF" + sampleHeader + "\n" +
			"1,US-1,01/01/2015,02/01/2015,First Class,C-1,Ann,Consumer,United States,Austin,Texas,73301,Central,Technology,Phones,Phone,100,1,0,10\n"

		loader := NewLoader(testLogger(), EncodingLatin1)
		table, err := loader.Load(context.Background(), writeTempCSV(t, csvData))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "US-1", table.Rows[0].Record.OrderID)
	})

	t.Run("decodes latin-1 customer names", func(t *testing.T) {
		// 0xE9 is é in Latin-1 and invalid as standalone UTF-8.
		csvData := sampleHeader + "\n" +
			"1,US-2,01/01/2015,02/01/2015,First Class,C-2,Ren\xe9e,Consumer,United States,Austin,Texas,73301,Central,Technology,Phones,Phone,100,1,0,10\n"

		loader := NewLoader(testLogger(), EncodingLatin1)
		table, err := loader.Load(context.Background(), writeTempCSV(t, csvData))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Renée", table.Rows[0].Record.CustomerName)
	})

	t.Run("null postal code is tracked", func(t *testing.T) {
		csvData := sampleHeader + "\n" +
			"1,US-3,01/01/2015,02/01/2015,First Class,C-3,Bob,Consumer,United States,Burlington,Vermont,,East,Office Supplies,Paper,Notebook,20,2,0.1,4\n"

		loader := NewLoader(testLogger(), EncodingUTF8)
		table, err := loader.Load(context.Background(), writeTempCSV(t, csvData))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.True(t, table.Rows[0].Record.PostalCodeNull)
		assert.Equal(t, 0, table.Rows[0].Record.PostalCode)
	})

	t.Run("tolerates thousands separators in sales", func(t *testing.T) {
		csvData := sampleHeader + "\n" +
			"1,US-4,01/01/2015,02/01/2015,First Class,C-4,Cara,Corporate,United States,Austin,Texas,73301,Central,Technology,Machines,Copier,\"1,706.18\",5,0,340\n"

		loader := NewLoader(testLogger(), EncodingUTF8)
		table, err := loader.Load(context.Background(), writeTempCSV(t, csvData))
		require.NoError(t, err)
		require.Len(t, table.Rows, 1)
		assert.InDelta(t, 1706.18, table.Rows[0].Record.Sales, 1e-9)
	})

	t.Run("skips blank rows", func(t *testing.T) {
		csvData := sampleHeader + "\n" +
			"1,US-5,01/01/2015,02/01/2015,First Class,C-5,Dan,Consumer,United States,Austin,Texas,73301,Central,Furniture,Tables,Table,500,1,0.2,-20\n" +
			",,,,,,,,,,,,,,,,,,,\n"

		loader := NewLoader(testLogger(), EncodingUTF8)
		table, err := loader.Load(context.Background(), writeTempCSV(t, csvData))
		require.NoError(t, err)
		assert.Len(t, table.Rows, 1)
	})
}

func TestLoaderFormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "missing required column",
			content: "Order ID,Order Date\nUS-1,01/01/2015\n",
			wantMsg: "missing required column",
		},
		{
			name:    "empty file",
			content: "",
			wantMsg: "no rows",
		},
		{
			name: "malformed sales number",
			content: sampleHeader + "\n" +
				"1,US-1,01/01/2015,02/01/2015,First Class,C-1,Ann,Consumer,United States,Austin,Texas,73301,Central,Technology,Phones,Phone,not-a-number,1,0,10\n",
			wantMsg: "malformed number",
		},
		{
			name: "empty quantity cell",
			content: sampleHeader + "\n" +
				"1,US-1,01/01/2015,02/01/2015,First Class,C-1,Ann,Consumer,United States,Austin,Texas,73301,Central,Technology,Phones,Phone,100,,0,10\n",
			wantMsg: "empty numeric cell",
		},
	}

	loader := NewLoader(testLogger(), EncodingUTF8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loader.Load(context.Background(), writeTempCSV(t, tt.content))
			require.Error(t, err)
			assert.True(t, IsFormatError(err), "expected FormatError, got %T", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("unsupported extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "orders.parquet")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		_, err := loader.Load(context.Background(), path)
		require.Error(t, err)
		assert.True(t, IsFormatError(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
		require.Error(t, err)
		assert.True(t, IsFormatError(err))
	})
}

func TestLoaderXLSX(t *testing.T) {
	header := []string{"Order ID", "Order Date", "Ship Date", "Ship Mode", "Customer ID", "Customer Name", "Segment", "Country", "City", "State", "Postal Code", "Region", "Category", "Sub-Category", "Product Name", "Sales", "Quantity", "Discount", "Profit"}
	row := []interface{}{"US-10", "05/06/2016", "08/06/2016", "Standard Class", "C-9", "Eve", "Home Office", "United States", "Seattle", "Washington", 98101, "West", "Furniture", "Chairs", "Chair", 250.5, 2, 0.1, 30.25}

	path := filepath.Join(t.TempDir(), "orders.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for col, val := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, val))
	}
	for col, val := range row {
		cell, err := excelize.CoordinatesToCellName(col+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, val))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	loader := NewLoader(testLogger(), EncodingUTF8)
	table, err := loader.Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, table.Rows, 1)
	rec := table.Rows[0].Record
	assert.Equal(t, "US-10", rec.OrderID)
	assert.Equal(t, "Eve", rec.CustomerName)
	assert.Equal(t, 98101, rec.PostalCode)
	assert.Equal(t, "West", rec.Region)
	assert.InDelta(t, 250.5, rec.Sales, 1e-9)
	assert.Equal(t, "05/06/2016", table.Rows[0].OrderDateText)
}
