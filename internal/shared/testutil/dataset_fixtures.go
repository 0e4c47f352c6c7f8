package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"superstore/pkg/contracts/domain"
)

// SampleHeader is the canonical source header row
const SampleHeader = "Row ID,Order ID,Order Date,Ship Date,Ship Mode,Customer ID,Customer Name,Segment,Country,City,State,Postal Code,Region,Category,Sub-Category,Product Name,Sales,Quantity,Discount,Profit"

// DatasetFixtures provides canonical test data for the Superstore table.
// The CSV rows and the cleaned records describe the same eight rows, so
// tests can load the file and assert against the in-memory equivalents.
//
// Fixture totals: sales 3864.40, profit 543.74, 7 distinct orders.
type DatasetFixtures struct{}

// NewDatasetFixtures creates a fixtures provider
func NewDatasetFixtures() *DatasetFixtures {
	return &DatasetFixtures{}
}

// SampleRows returns the raw CSV data rows, day-first dates as in the
// source file
func (f *DatasetFixtures) SampleRows() []string {
	return []string{
		"1,US-100,05/01/2014,08/01/2014,Standard Class,C-1,Aaron Bergman,Consumer,United States,Seattle,Washington,98103,West,Furniture,Bookcases,Atlantic Bookcase,261.96,2,0,41.91",
		"2,US-100,05/01/2014,08/01/2014,Standard Class,C-1,Aaron Bergman,Consumer,United States,Seattle,Washington,98103,West,Technology,Phones,Nokia Phone,731.94,3,0,219.58",
		"3,US-101,12/03/2014,15/03/2014,Second Class,C-2,Brenda Chu,Corporate,United States,Austin,Texas,73301,Central,Office Supplies,Paper,Xerox Paper,150,5,0.1,30",
		"4,US-102,20/06/2015,24/06/2015,First Class,C-3,Carl Diaz,Consumer,United States,Miami,Florida,33101,South,Furniture,Chairs,Hon Chair,500,4,0.2,-25",
		"5,US-103,01/09/2015,03/09/2015,Standard Class,C-4,Dana Evans,Home Office,United States,New York City,New York,10001,East,Technology,Machines,HP Printer,900,1,0,180",
		"6,US-104,15/11/2016,18/11/2016,Standard Class,C-1,Aaron Bergman,Consumer,United States,Portland,Oregon,97201,West,Office Supplies,Binders,Avery Binder,75.50,3,0.3,-10.25",
		"7,US-105,28/02/2017,04/03/2017,Second Class,C-5,Erin Fox,Corporate,United States,Chicago,Illinois,60601,Central,Technology,Accessories,Logitech Mouse,45,1,0,12.50",
		"8,US-106,30/12/2017,02/01/2018,First Class,C-2,Brenda Chu,Corporate,United States,Dallas,Texas,75201,Central,Furniture,Tables,Bevis Table,1200,2,0.15,95",
	}
}

// SampleCSV returns a complete CSV document with header
func (f *DatasetFixtures) SampleCSV() string {
	return SampleHeader + "\n" + strings.Join(f.SampleRows(), "\n") + "\n"
}

// WriteSampleCSV writes the sample dataset into dir and returns its path
func (f *DatasetFixtures) WriteSampleCSV(dir string) (string, error) {
	path := filepath.Join(dir, "superstore.csv")
	if err := os.WriteFile(path, []byte(f.SampleCSV()), 0644); err != nil {
		return "", fmt.Errorf("write sample csv: %w", err)
	}
	return path, nil
}

// SampleRecords returns the cleaned equivalents of SampleRows
func (f *DatasetFixtures) SampleRecords() []domain.Record {
	return []domain.Record{
		f.record("US-100", date(2014, 1, 5), date(2014, 1, 8), "Standard Class", "C-1", "Aaron Bergman", "Consumer", "Seattle", "Washington", 98103, "West", "Furniture", "Bookcases", "Atlantic Bookcase", 261.96, 2, 0, 41.91),
		f.record("US-100", date(2014, 1, 5), date(2014, 1, 8), "Standard Class", "C-1", "Aaron Bergman", "Consumer", "Seattle", "Washington", 98103, "West", "Technology", "Phones", "Nokia Phone", 731.94, 3, 0, 219.58),
		f.record("US-101", date(2014, 3, 12), date(2014, 3, 15), "Second Class", "C-2", "Brenda Chu", "Corporate", "Austin", "Texas", 73301, "Central", "Office Supplies", "Paper", "Xerox Paper", 150, 5, 0.1, 30),
		f.record("US-102", date(2015, 6, 20), date(2015, 6, 24), "First Class", "C-3", "Carl Diaz", "Consumer", "Miami", "Florida", 33101, "South", "Furniture", "Chairs", "Hon Chair", 500, 4, 0.2, -25),
		f.record("US-103", date(2015, 9, 1), date(2015, 9, 3), "Standard Class", "C-4", "Dana Evans", "Home Office", "New York City", "New York", 10001, "East", "Technology", "Machines", "HP Printer", 900, 1, 0, 180),
		f.record("US-104", date(2016, 11, 15), date(2016, 11, 18), "Standard Class", "C-1", "Aaron Bergman", "Consumer", "Portland", "Oregon", 97201, "West", "Office Supplies", "Binders", "Avery Binder", 75.50, 3, 0.3, -10.25),
		f.record("US-105", date(2017, 2, 28), date(2017, 3, 4), "Second Class", "C-5", "Erin Fox", "Corporate", "Chicago", "Illinois", 60601, "Central", "Technology", "Accessories", "Logitech Mouse", 45, 1, 0, 12.50),
		f.record("US-106", date(2017, 12, 30), date(2018, 1, 2), "First Class", "C-2", "Brenda Chu", "Corporate", "Dallas", "Texas", 75201, "Central", "Furniture", "Tables", "Bevis Table", 1200, 2, 0.15, 95),
	}
}

// TwoRowRecords returns the minimal two-region table used by
// end-to-end assertions: totals 300 sales, 5 profit.
func (f *DatasetFixtures) TwoRowRecords() []domain.Record {
	return []domain.Record{
		f.record("A-1", date(2016, 1, 1), date(2016, 1, 3), "Standard Class", "C-1", "Alice West", "Consumer", "Seattle", "Washington", 98103, "West", "Furniture", "Chairs", "Chair", 100, 1, 0, 10),
		f.record("A-2", date(2016, 2, 1), date(2016, 2, 3), "Standard Class", "C-2", "Bob East", "Consumer", "Boston", "Massachusetts", 2101, "East", "Technology", "Phones", "Phone", 200, 1, 0, -5),
	}
}

func (f *DatasetFixtures) record(orderID string, orderDate, shipDate time.Time, shipMode, customerID, customerName, segment, city, state string, postal int, region, category, subCategory, product string, sales float64, quantity int, discount, profit float64) domain.Record {
	return domain.Record{
		OrderID:      orderID,
		OrderDate:    orderDate,
		ShipDate:     shipDate,
		ShipMode:     shipMode,
		CustomerID:   customerID,
		CustomerName: customerName,
		Segment:      segment,
		Country:      "United States",
		City:         city,
		State:        state,
		PostalCode:   postal,
		Region:       region,
		Category:     category,
		SubCategory:  subCategory,
		ProductName:  product,
		Sales:        sales,
		Quantity:     quantity,
		Discount:     discount,
		Profit:       profit,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
