package domain

import (
	"time"
)

// Record represents one row of the Superstore sales table
type Record struct {
	OrderID        string    `json:"order_id" validate:"required"`
	OrderDate      time.Time `json:"order_date"`
	ShipDate       time.Time `json:"ship_date"`
	ShipMode       string    `json:"ship_mode"`
	CustomerID     string    `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	Segment        string    `json:"segment"`
	Country        string    `json:"country"`
	City           string    `json:"city"`
	State          string    `json:"state"`
	PostalCode     int       `json:"postal_code"`
	PostalCodeNull bool      `json:"-"`
	Region         string    `json:"region"`
	Category       string    `json:"category"`
	SubCategory    string    `json:"sub_category"`
	ProductName    string    `json:"product_name"`
	Sales          float64   `json:"sales" validate:"min=0"`
	Quantity       int       `json:"quantity" validate:"min=1"`
	Discount       float64   `json:"discount" validate:"min=0,max=1"`
	Profit         float64   `json:"profit"`
}

// HasOrderDate reports whether the order date survived cleaning.
// A zero time means the source value was missing or unparseable.
func (r *Record) HasOrderDate() bool {
	return !r.OrderDate.IsZero()
}

// HasShipDate reports whether the ship date survived cleaning.
func (r *Record) HasShipDate() bool {
	return !r.ShipDate.IsZero()
}

// OrderMonth returns the order date truncated to the first of its month.
// Callers must check HasOrderDate first; a zero date truncates to zero.
func (r *Record) OrderMonth() time.Time {
	if r.OrderDate.IsZero() {
		return time.Time{}
	}
	return time.Date(r.OrderDate.Year(), r.OrderDate.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Column names as they appear in the source file header.
const (
	ColumnRowID        = "Row ID"
	ColumnOrderID      = "Order ID"
	ColumnOrderDate    = "Order Date"
	ColumnShipDate     = "Ship Date"
	ColumnShipMode     = "Ship Mode"
	ColumnCustomerID   = "Customer ID"
	ColumnCustomerName = "Customer Name"
	ColumnSegment      = "Segment"
	ColumnCountry      = "Country"
	ColumnCity         = "City"
	ColumnState        = "State"
	ColumnPostalCode   = "Postal Code"
	ColumnRegion       = "Region"
	ColumnCategory     = "Category"
	ColumnSubCategory  = "Sub-Category"
	ColumnProductName  = "Product Name"
	ColumnSales        = "Sales"
	ColumnQuantity     = "Quantity"
	ColumnDiscount     = "Discount"
	ColumnProfit       = "Profit"
)

// RequiredColumns lists the columns a source file must provide.
// Row ID is optional and ignored when present.
func RequiredColumns() []string {
	return []string{
		ColumnOrderID,
		ColumnOrderDate,
		ColumnShipDate,
		ColumnShipMode,
		ColumnCustomerID,
		ColumnCustomerName,
		ColumnSegment,
		ColumnCountry,
		ColumnCity,
		ColumnState,
		ColumnPostalCode,
		ColumnRegion,
		ColumnCategory,
		ColumnSubCategory,
		ColumnProductName,
		ColumnSales,
		ColumnQuantity,
		ColumnDiscount,
		ColumnProfit,
	}
}

// SourceFormat identifies the dataset file format
type SourceFormat string

const (
	FormatCSV  SourceFormat = "csv"
	FormatXLSX SourceFormat = "xlsx"
)

// CleanReport summarizes what the cleaning step changed
type CleanReport struct {
	RowsBefore        int `json:"rows_before"`
	RowsAfter         int `json:"rows_after"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	PostalFilled      int `json:"postal_filled"`
	OrderDatesNulled  int `json:"order_dates_nulled"`
	ShipDatesNulled   int `json:"ship_dates_nulled"`
}

// DatasetInfo describes a loaded dataset for the info endpoint
type DatasetInfo struct {
	Path        string       `json:"path"`
	Format      SourceFormat `json:"format"`
	Fingerprint string       `json:"fingerprint"`
	Columns     int          `json:"columns"`
	Rows        int          `json:"rows"`
	LoadedAt    time.Time    `json:"loaded_at"`
	Clean       CleanReport  `json:"clean"`
}

// FilterValues holds the distinct values the dashboard filter controls offer
type FilterValues struct {
	Regions       []string   `json:"regions"`
	Categories    []string   `json:"categories"`
	SubCategories []string   `json:"sub_categories"`
	Segments      []string   `json:"segments"`
	OrderDateMin  *time.Time `json:"order_date_min,omitempty"`
	OrderDateMax  *time.Time `json:"order_date_max,omitempty"`
}
