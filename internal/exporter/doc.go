// Package exporter writes the tables produced by a report run to disk.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for spreadsheet compatibility.
//
// AggregateExporter: Writes one CSV file per aggregation (sales by
// region, profit by category, top customers, monthly sales, sales by
// state).
//
// RecordExporter: Streams the cleaned table itself into a row-level CSV
// artifact at full precision.
//
// WorkbookExporter: Writes the aggregate tables plus the KPI summary
// into a single XLSX workbook, one sheet per table.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("/path/to/out")
//	agg := exporter.NewAggregateExporter(writer)
//	err := agg.ExportSalesByRegion(groups, "sales_by_region.csv")
package exporter
