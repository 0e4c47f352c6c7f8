package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"superstore/pkg/contracts/domain"
)

// choroplethMap is the registered ECharts map the state names resolve
// against. The registered asset draws the state boundaries.
const choroplethMap = "USA"

// StateSalesChoropleth renders the interactive US sales map to a
// self-contained HTML page at path.
func StateSalesChoropleth(states []domain.StateSales, path string) error {
	var maxSales float64
	data := make([]opts.MapData, 0, len(states))
	for _, s := range states {
		if s.Sales > maxSales {
			maxSales = s.Sales
		}
		data = append(data, opts.MapData{Name: s.State, Value: s.Sales})
	}

	m := charts.NewMap()
	m.RegisterMapType(choroplethMap)
	m.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Sales by State",
			Width:     "1200px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Sales by State",
			Subtitle: "Aggregated order sales per US state",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxSales),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#e0f3f8", "#74add1", "#313695"},
			},
		}),
	)
	m.AddSeries("sales", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}"}),
	)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if err := m.Render(f); err != nil {
		return fmt.Errorf("render choropleth: %w", err)
	}
	return nil
}
