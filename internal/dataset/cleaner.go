package dataset

import (
	"log/slog"
	"time"

	"superstore/pkg/contracts/domain"
)

// Date formats accepted by the cleaner, tried in order. The source
// writes day-first dates, so day-first layouts come before ISO.
var defaultDateFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/2006 15:04:05",
}

// Cleaner normalizes a raw table: fills null postal codes with zero,
// parses the two date columns, and drops exact-duplicate rows keeping
// the first occurrence.
type Cleaner struct {
	logger      *slog.Logger
	strict      bool
	dateFormats []string
}

// NewCleaner creates a cleaner. In strict mode an unparseable date
// aborts the run; otherwise the value is nulled and the row kept.
func NewCleaner(logger *slog.Logger, strict bool, dateFormats []string) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if len(dateFormats) == 0 {
		dateFormats = defaultDateFormats
	}
	return &Cleaner{
		logger:      logger.With(slog.String("component", "cleaner")),
		strict:      strict,
		dateFormats: dateFormats,
	}
}

// Clean runs the cleaning steps in order and reports row counts before
// and after along with what changed.
func (c *Cleaner) Clean(table *RawTable) ([]domain.Record, domain.CleanReport, error) {
	report := domain.CleanReport{RowsBefore: len(table.Rows)}

	records := make([]domain.Record, 0, len(table.Rows))
	for _, raw := range table.Rows {
		rec := raw.Record

		if rec.PostalCodeNull {
			rec.PostalCode = 0
			report.PostalFilled++
		}

		orderDate, ok := c.parseDate(raw.OrderDateText)
		if !ok {
			if c.strict {
				return nil, report, &DateParseError{Line: raw.Line, Column: domain.ColumnOrderDate, Value: raw.OrderDateText}
			}
			report.OrderDatesNulled++
		}
		rec.OrderDate = orderDate

		shipDate, ok := c.parseDate(raw.ShipDateText)
		if !ok {
			if c.strict {
				return nil, report, &DateParseError{Line: raw.Line, Column: domain.ColumnShipDate, Value: raw.ShipDateText}
			}
			report.ShipDatesNulled++
		}
		rec.ShipDate = shipDate

		records = append(records, rec)
	}

	records, report.DuplicatesRemoved = dropDuplicates(records)
	report.RowsAfter = len(records)

	c.logger.Info("dataset cleaned",
		slog.Int("rows_before", report.RowsBefore),
		slog.Int("rows_after", report.RowsAfter),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Int("postal_filled", report.PostalFilled),
		slog.Int("order_dates_nulled", report.OrderDatesNulled),
		slog.Int("ship_dates_nulled", report.ShipDatesNulled))

	return records, report, nil
}

// parseDate tries every accepted format. ok is false when none match
// or the cell is empty; the caller decides what that means.
func (c *Cleaner) parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, format := range c.dateFormats {
		if t, err := time.ParseInLocation(format, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dropDuplicates removes rows equal to an earlier row on every loaded
// column, keeping the first occurrence. Order is preserved.
func dropDuplicates(records []domain.Record) ([]domain.Record, int) {
	seen := make(map[domain.Record]struct{}, len(records))
	out := records[:0]
	removed := 0
	for _, rec := range records {
		// Postal null bookkeeping is not part of row identity: a filled
		// null and an explicit zero are the same row.
		key := rec
		key.PostalCodeNull = false
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, rec)
	}
	return out, removed
}
