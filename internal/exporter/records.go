package exporter

import (
	"fmt"

	"superstore/pkg/contracts/domain"
)

// CleanedDatasetFile is the row-level artifact carrying the cleaned table
const CleanedDatasetFile = "cleaned_dataset.csv"

// RecordExporter streams the cleaned table itself as a CSV artifact, so
// downstream tools consume exactly the rows the dashboard serves
type RecordExporter struct {
	writer *CSVWriter
}

// NewRecordExporter creates a record exporter on top of a CSV writer
func NewRecordExporter(writer *CSVWriter) *RecordExporter {
	return &RecordExporter{writer: writer}
}

// Export streams records row by row into filePath
func (e *RecordExporter) Export(records []domain.Record, filePath string) error {
	stream, err := e.writer.CreateStreamWriter(filePath, recordHeaders())
	if err != nil {
		return fmt.Errorf("create stream: %w", err)
	}

	for i, rec := range records {
		if err := stream.WriteRecord(recordToRow(rec)); err != nil {
			stream.Close()
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	return stream.Close()
}

// recordHeaders returns the cleaned-table header, matching the loaded
// column set
func recordHeaders() []string {
	return domain.RequiredColumns()
}

// recordToRow converts one cleaned record to a CSV row. Nulled dates
// export as empty cells.
func recordToRow(rec domain.Record) []string {
	return []string{
		rec.OrderID,
		formatDate(rec.OrderDate),
		formatDate(rec.ShipDate),
		rec.ShipMode,
		rec.CustomerID,
		rec.CustomerName,
		rec.Segment,
		rec.Country,
		rec.City,
		rec.State,
		formatInt(rec.PostalCode),
		rec.Region,
		rec.Category,
		rec.SubCategory,
		rec.ProductName,
		formatExact(rec.Sales),
		formatInt(rec.Quantity),
		formatExact(rec.Discount),
		formatExact(rec.Profit),
	}
}
