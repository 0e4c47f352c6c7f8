// Package dataset reads and cleans the Superstore sales table.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Loader: reads CSV or XLSX files into a raw table with typed cells
// 2. Cleaner: fills null postal codes, parses dates, drops duplicates
// 3. Filter: narrows a cleaned table for one dashboard view
//
// # Data Flow
//
//	CSV/XLSX file → Loader → RawTable → Cleaner → []domain.Record → Filter → view
//
// The cleaned slice is immutable by convention: Filter and every
// downstream consumer allocate their own slices and never write back.
//
// # Error Handling
//
// The loader fails with *FormatError on anything that is not parseable
// tabular data with the expected columns. The cleaner's date policy is
// configurable: by default unparseable dates are nulled and counted,
// in strict mode cleaning aborts with *DateParseError.
package dataset
