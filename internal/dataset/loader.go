package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"superstore/pkg/contracts/domain"
)

// Source encodings accepted by the loader. The published Superstore CSV
// is Latin-1; exports from spreadsheet tools are usually UTF-8.
const (
	EncodingLatin1 = "latin1"
	EncodingUTF8   = "utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RawTable is the loader output: typed cells except the two date
// columns, which stay textual until the cleaner applies the date policy.
type RawTable struct {
	Path    string
	Format  domain.SourceFormat
	Columns int
	Rows    []RawRow
}

// RawRow pairs a partially-typed record with its source position and
// the unparsed date cells.
type RawRow struct {
	Line          int
	Record        domain.Record
	OrderDateText string
	ShipDateText  string
}

// Loader reads a Superstore table from CSV or XLSX
type Loader struct {
	logger   *slog.Logger
	encoding string
}

// NewLoader creates a loader. encoding applies to CSV input only;
// XLSX carries its own encoding.
func NewLoader(logger *slog.Logger, encoding string) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if encoding == "" {
		encoding = EncodingLatin1
	}
	return &Loader{
		logger:   logger.With(slog.String("component", "loader")),
		encoding: encoding,
	}
}

// Load reads the file at path into a RawTable. The format is chosen by
// extension: .csv and .xlsx are supported, anything else is a FormatError.
func (l *Loader) Load(ctx context.Context, path string) (*RawTable, error) {
	var (
		table *RawTable
		err   error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		table, err = l.loadCSV(ctx, path)
	case ".xlsx":
		table, err = l.loadXLSX(ctx, path)
	default:
		return nil, &FormatError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)),
		}
	}
	if err != nil {
		return nil, err
	}

	l.logger.Info("dataset loaded",
		slog.String("path", table.Path),
		slog.String("format", string(table.Format)),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", table.Columns))

	return table, nil
}

func (l *Loader) loadCSV(ctx context.Context, path string) (*RawTable, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "read file", Err: err}
	}

	// A BOM marks the file as UTF-8 regardless of the configured encoding.
	if bytes.HasPrefix(content, utf8BOM) {
		content = bytes.TrimPrefix(content, utf8BOM)
	} else if l.encoding == EncodingLatin1 {
		decoded, decErr := io.ReadAll(transform.NewReader(bytes.NewReader(content), charmap.ISO8859_1.NewDecoder()))
		if decErr != nil {
			return nil, &FormatError{Path: path, Reason: "decode latin-1", Err: decErr}
		}
		content = decoded
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "parse CSV", Err: err}
	}

	return l.buildTable(ctx, path, domain.FormatCSV, rows)
}

func (l *Loader) loadXLSX(ctx context.Context, path string) (*RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FormatError{Path: path, Reason: "open workbook", Err: err}
	}
	defer f.Close()

	// The data sheet is whichever sheet carries the expected header row.
	var lastErr error
	for _, name := range f.GetSheetList() {
		rows, rowErr := f.GetRows(name)
		if rowErr != nil {
			lastErr = rowErr
			continue
		}
		table, buildErr := l.buildTable(ctx, path, domain.FormatXLSX, rows)
		if buildErr == nil {
			l.logger.Debug("workbook sheet selected", slog.String("sheet", name))
			return table, nil
		}
		lastErr = buildErr
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	return nil, &FormatError{Path: path, Reason: "no sheet with the expected columns", Err: lastErr}
}

// buildTable maps the header, then types every data row.
func (l *Loader) buildTable(ctx context.Context, path string, format domain.SourceFormat, rows [][]string) (*RawTable, error) {
	headerIdx := -1
	for i, row := range rows {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &FormatError{Path: path, Reason: "file contains no rows"}
	}

	columns, err := mapColumns(rows[headerIdx])
	if err != nil {
		return nil, &FormatError{Path: path, Line: headerIdx + 1, Reason: err.Error()}
	}

	table := &RawTable{
		Path:    path,
		Format:  format,
		Columns: len(rows[headerIdx]),
		Rows:    make([]RawRow, 0, len(rows)-headerIdx-1),
	}

	for i := headerIdx + 1; i < len(rows); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		line := i + 1
		raw, err := parseRow(row, columns, line)
		if err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Path = path
			}
			return nil, err
		}
		table.Rows = append(table.Rows, raw)
	}

	return table, nil
}

// mapColumns resolves required column names to indices. Exact header
// names are matched first, then a case-insensitive fallback.
func mapColumns(header []string) (map[string]int, error) {
	exact := make(map[string]int, len(header))
	lower := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := exact[name]; !seen {
			exact[name] = i
		}
		key := strings.ToLower(name)
		if _, seen := lower[key]; !seen {
			lower[key] = i
		}
	}

	columns := make(map[string]int, len(domain.RequiredColumns()))
	for _, col := range domain.RequiredColumns() {
		if idx, ok := exact[col]; ok {
			columns[col] = idx
			continue
		}
		if idx, ok := lower[strings.ToLower(col)]; ok {
			columns[col] = idx
			continue
		}
		return nil, fmt.Errorf("missing required column %q", col)
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int, line int) (RawRow, error) {
	cell := func(col string) string {
		idx := columns[col]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	sales, err := parseFloatCell(cell(domain.ColumnSales), domain.ColumnSales, line)
	if err != nil {
		return RawRow{}, err
	}
	quantity, err := parseIntCell(cell(domain.ColumnQuantity), domain.ColumnQuantity, line)
	if err != nil {
		return RawRow{}, err
	}
	discount, err := parseFloatCell(cell(domain.ColumnDiscount), domain.ColumnDiscount, line)
	if err != nil {
		return RawRow{}, err
	}
	profit, err := parseFloatCell(cell(domain.ColumnProfit), domain.ColumnProfit, line)
	if err != nil {
		return RawRow{}, err
	}

	postal, postalNull, err := parsePostalCell(cell(domain.ColumnPostalCode), line)
	if err != nil {
		return RawRow{}, err
	}

	return RawRow{
		Line: line,
		Record: domain.Record{
			OrderID:        cell(domain.ColumnOrderID),
			ShipMode:       cell(domain.ColumnShipMode),
			CustomerID:     cell(domain.ColumnCustomerID),
			CustomerName:   cell(domain.ColumnCustomerName),
			Segment:        cell(domain.ColumnSegment),
			Country:        cell(domain.ColumnCountry),
			City:           cell(domain.ColumnCity),
			State:          cell(domain.ColumnState),
			PostalCode:     postal,
			PostalCodeNull: postalNull,
			Region:         cell(domain.ColumnRegion),
			Category:       cell(domain.ColumnCategory),
			SubCategory:    cell(domain.ColumnSubCategory),
			ProductName:    cell(domain.ColumnProductName),
			Sales:          sales,
			Quantity:       quantity,
			Discount:       discount,
			Profit:         profit,
		},
		OrderDateText: cell(domain.ColumnOrderDate),
		ShipDateText:  cell(domain.ColumnShipDate),
	}, nil
}

// parseFloatCell parses a numeric cell, tolerating thousands separators
// and currency-style formatting left over from spreadsheet exports.
func parseFloatCell(s, column string, line int) (float64, error) {
	if s == "" {
		return 0, &FormatError{Line: line, Column: column, Reason: "empty numeric cell"}
	}
	cleaned := strings.ReplaceAll(s, ",", "")
	cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "$"))
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, &FormatError{Line: line, Column: column, Reason: fmt.Sprintf("malformed number %q", s)}
	}
	return v, nil
}

func parseIntCell(s, column string, line int) (int, error) {
	v, err := parseFloatCell(s, column, line)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// parsePostalCell treats an empty cell as null; the cleaner fills it.
// XLSX sometimes surfaces postal codes as floats ("10024.0").
func parsePostalCell(s string, line int) (int, bool, error) {
	if s == "" {
		return 0, true, nil
	}
	v, err := parseFloatCell(s, domain.ColumnPostalCode, line)
	if err != nil {
		return 0, false, err
	}
	return int(v), false, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
