// Package charts renders the static chart artifacts from aggregated
// values. Bar, scatter, and line charts go to PNG through gonum/plot;
// the state choropleth goes to a self-contained interactive HTML page.
package charts

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"superstore/pkg/contracts/domain"
)

var (
	barBlue    = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	barGreen   = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	barOrange  = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	scatterRed = color.RGBA{R: 139, G: 0, B: 0, A: 255}
	lineGreen  = color.RGBA{R: 0, G: 100, B: 0, A: 255}
	fitBlack   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

// SalesByRegionBar renders the sales-by-region bar chart to path
func SalesByRegionBar(groups []domain.RegionSales, path string) error {
	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Sales
		labels[i] = g.Region
	}
	return renderBarChart("Sales by Region", "Region", "Sales", values, labels, barBlue, path)
}

// ProfitByCategoryBar renders the profit-by-category bar chart to path
func ProfitByCategoryBar(groups []domain.CategoryProfit, path string) error {
	values := make(plotter.Values, len(groups))
	labels := make([]string, len(groups))
	for i, g := range groups {
		values[i] = g.Profit
		labels[i] = g.Category
	}
	return renderBarChart("Profit by Category", "Category", "Profit", values, labels, barGreen, path)
}

// TopCustomersBar renders the ranked top-customers bar chart to path
func TopCustomersBar(customers []domain.CustomerSales, path string) error {
	values := make(plotter.Values, len(customers))
	labels := make([]string, len(customers))
	for i, c := range customers {
		values[i] = c.Sales
		labels[i] = c.Customer
	}
	return renderBarChart("Top Customers by Sales", "Customer", "Sales", values, labels, barOrange, path)
}

func renderBarChart(title, xLabel, yLabel string, values plotter.Values, labels []string, fill color.Color, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return fmt.Errorf("build bar chart %q: %w", title, err)
	}
	bars.Color = fill
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// DiscountProfitScatter renders the discount-vs-profit scatter to path
func DiscountProfitScatter(points []domain.ScatterPoint, path string) error {
	p := plot.New()
	p.Title.Text = "Discount vs Profit"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Discount"
	p.Y.Label.Text = "Profit"

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i] = plotter.XY{X: pt.Discount, Y: pt.Profit}
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("build discount scatter: %w", err)
	}
	scatter.GlyphStyle.Color = scatterRed
	scatter.GlyphStyle.Radius = vg.Points(2)

	p.Add(scatter)
	p.Add(plotter.NewGrid())

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// MonthlySalesLine renders the monthly sales trend to path
func MonthlySalesLine(months []domain.MonthlySales, path string) error {
	p := plot.New()
	p.Title.Text = "Monthly Sales Trend"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Sales"

	xys := make(plotter.XYs, len(months))
	labels := make([]string, len(months))
	for i, m := range months {
		xys[i] = plotter.XY{X: float64(i), Y: m.Sales}
		labels[i] = m.Month.Format("2006-01")
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("build trend line: %w", err)
	}
	line.Color = lineGreen
	line.Width = vg.Points(2)

	p.Add(line)
	p.Add(plotter.NewGrid())
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XRight

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SalesProfitFitScatter renders the sales-vs-profit scatter with the
// fitted least-squares line overlaid.
func SalesProfitFitScatter(records []domain.Record, fit domain.RegressionReport, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Profit vs Sales (slope %.4f, R² %.3f)", fit.Slope, fit.R2)
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Sales"
	p.Y.Label.Text = "Profit"

	xys := make(plotter.XYs, len(records))
	for i, rec := range records {
		xys[i] = plotter.XY{X: rec.Sales, Y: rec.Profit}
	}

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("build fit scatter: %w", err)
	}
	scatter.GlyphStyle.Color = scatterRed
	scatter.GlyphStyle.Radius = vg.Points(2)

	fitLine := plotter.NewFunction(fit.Predict)
	fitLine.Color = fitBlack
	fitLine.Width = vg.Points(2)
	fitLine.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(scatter, fitLine)
	p.Add(plotter.NewGrid())

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(path), err)
	}
	return nil
}
