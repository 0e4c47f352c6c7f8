package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"superstore/internal/charts"
	"superstore/internal/config"
	"superstore/internal/dataset"
	"superstore/internal/exporter"
	"superstore/internal/infrastructure"
	"superstore/internal/regress"
	"superstore/internal/services"
	"superstore/internal/validation"
	"superstore/pkg/contracts/domain"
)

// TracerName identifies report spans
const TracerName = "superstore.report"

// Chart artifact file names inside the output directory
const (
	SalesByRegionChart    = "sales_by_region.png"
	ProfitByCategoryChart = "profit_by_category.png"
	TopCustomersChart     = "top_customers.png"
	DiscountProfitChart   = "discount_profit.png"
	MonthlySalesChart     = "monthly_sales.png"
	SalesByStateMap       = "sales_by_state.html"
	SalesProfitFitChart   = "sales_profit_fit.png"
)

// Generator runs the one-shot report pipeline: load and clean the
// dataset, aggregate, fit the regression baseline, render charts,
// export tables, and write the manifest.
type Generator struct {
	cfg       config.Config
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
	tracer    trace.Tracer
	validator *validation.FileValidator
	dataset   *services.DatasetService
}

// NewGenerator creates a report generator. metrics may be nil when
// observability is disabled.
func NewGenerator(cfg config.Config, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Generator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Generator{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "report")),
		metrics:   metrics,
		tracer:    otel.Tracer(TracerName),
		validator: validation.NewFileValidator(logger),
		dataset:   services.NewDatasetService(cfg.Dataset, logger, metrics),
	}
}

// Run executes the full pipeline into outputDir. An empty outputDir
// falls back to the configured report directory. A failed regression
// fit is recorded in the manifest and does not abort the run.
func (g *Generator) Run(ctx context.Context, outputDir string) (*Manifest, error) {
	if outputDir == "" {
		outputDir = g.cfg.Report.OutputDir
	}

	started := time.Now()
	ctx, span := g.tracer.Start(ctx, "report.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("report.output_dir", outputDir),
			attribute.String("report.dataset_path", g.cfg.Dataset.Path),
		),
	)
	defer span.End()

	g.logger.InfoContext(ctx, "report run started",
		slog.String("output_dir", outputDir),
		slog.String("dataset_path", g.cfg.Dataset.Path),
	)

	m := &Manifest{
		GeneratedAt: started.UTC(),
		Status:      "running",
	}

	var runErr error
	defer func() {
		infrastructure.RecordReportMetrics(ctx, g.metrics, int64(len(m.Artifacts)), time.Since(started), runErr == nil)
		if runErr != nil {
			span.RecordError(runErr)
			span.SetStatus(codes.Error, runErr.Error())
		}
	}()

	if runErr = g.runStage(ctx, m, "prepare", func(ctx context.Context) error {
		return g.validator.ValidateOutputDirectory(outputDir)
	}); runErr != nil {
		return nil, runErr
	}

	if runErr = g.runStage(ctx, m, "load", func(ctx context.Context) error {
		return g.dataset.Load(ctx)
	}); runErr != nil {
		return nil, runErr
	}

	var (
		summary          domain.Summary
		salesByRegion    []domain.RegionSales
		profitByCategory []domain.CategoryProfit
		topCustomers     []domain.CustomerSales
		salesByState     []domain.StateSales
		monthlySales     []domain.MonthlySales
		discountProfit   []domain.ScatterPoint
	)

	if runErr = g.runStage(ctx, m, "aggregate", func(ctx context.Context) error {
		var err error
		if summary, err = g.dataset.Summary(ctx, dataset.Filter{}); err != nil {
			return err
		}
		if salesByRegion, err = g.dataset.SalesByRegion(ctx, dataset.Filter{}); err != nil {
			return err
		}
		if profitByCategory, err = g.dataset.ProfitByCategory(ctx, dataset.Filter{}); err != nil {
			return err
		}
		if topCustomers, err = g.dataset.TopCustomers(ctx, dataset.Filter{}, g.cfg.Report.TopCustomers); err != nil {
			return err
		}
		if salesByState, err = g.dataset.SalesByState(ctx, dataset.Filter{}); err != nil {
			return err
		}
		if monthlySales, err = g.dataset.MonthlySales(ctx, dataset.Filter{}); err != nil {
			return err
		}
		discountProfit, err = g.dataset.DiscountProfit(ctx, dataset.Filter{})
		return err
	}); runErr != nil {
		return nil, runErr
	}

	if runErr = g.runStage(ctx, m, "regress", func(ctx context.Context) error {
		fit, err := g.dataset.Regression(ctx, dataset.Filter{})
		if err != nil {
			var insufficient *regress.InsufficientDataError
			if errors.As(err, &insufficient) {
				m.RegressionError = insufficient.Error()
				return nil
			}
			return err
		}
		m.Regression = &fit
		return nil
	}); runErr != nil {
		return nil, runErr
	}

	if runErr = g.runStage(ctx, m, "charts", func(ctx context.Context) error {
		return g.renderCharts(ctx, m, outputDir, chartInputs{
			salesByRegion:    salesByRegion,
			profitByCategory: profitByCategory,
			topCustomers:     topCustomers,
			salesByState:     salesByState,
			monthlySales:     monthlySales,
			discountProfit:   discountProfit,
		})
	}); runErr != nil {
		return nil, runErr
	}

	if runErr = g.runStage(ctx, m, "export", func(ctx context.Context) error {
		records, err := g.dataset.Records(ctx, dataset.Filter{})
		if err != nil {
			return err
		}
		return g.exportTables(ctx, m, outputDir, records, exporter.WorkbookData{
			Summary:          summary,
			SalesByRegion:    salesByRegion,
			ProfitByCategory: profitByCategory,
			TopCustomers:     topCustomers,
			MonthlySales:     monthlySales,
			SalesByState:     salesByState,
			Regression:       m.Regression,
		})
	}); runErr != nil {
		return nil, runErr
	}

	info, err := g.dataset.Info(ctx)
	if err != nil {
		runErr = fmt.Errorf("read dataset info: %w", err)
		return nil, runErr
	}
	m.Dataset = info
	m.Summary = summary
	m.Status = "completed"
	m.Duration = time.Since(started).Round(time.Millisecond).String()

	manifestPath := filepath.Join(outputDir, ManifestFile)
	if runErr = m.SaveToFile(manifestPath); runErr != nil {
		return nil, runErr
	}

	g.logger.InfoContext(ctx, "report run completed",
		slog.String("manifest", manifestPath),
		slog.Int("artifacts", len(m.Artifacts)),
		slog.Duration("duration", time.Since(started)),
	)

	return m, nil
}

type chartInputs struct {
	salesByRegion    []domain.RegionSales
	profitByCategory []domain.CategoryProfit
	topCustomers     []domain.CustomerSales
	salesByState     []domain.StateSales
	monthlySales     []domain.MonthlySales
	discountProfit   []domain.ScatterPoint
}

// renderCharts fans the independent chart renders out across
// goroutines, then records the artifacts in a stable order
func (g *Generator) renderCharts(ctx context.Context, m *Manifest, outputDir string, in chartInputs) error {
	type chartArtifact struct {
		name   string
		kind   string
		render func(path string) error
	}

	jobs := []chartArtifact{
		{SalesByRegionChart, "chart", func(path string) error {
			return charts.SalesByRegionBar(in.salesByRegion, path)
		}},
		{ProfitByCategoryChart, "chart", func(path string) error {
			return charts.ProfitByCategoryBar(in.profitByCategory, path)
		}},
		{TopCustomersChart, "chart", func(path string) error {
			return charts.TopCustomersBar(in.topCustomers, path)
		}},
		{DiscountProfitChart, "chart", func(path string) error {
			return charts.DiscountProfitScatter(in.discountProfit, path)
		}},
		{MonthlySalesChart, "chart", func(path string) error {
			return charts.MonthlySalesLine(in.monthlySales, path)
		}},
		{SalesByStateMap, "map", func(path string) error {
			return charts.StateSalesChoropleth(in.salesByState, path)
		}},
	}

	// The fit overlay renders only when the fit succeeded
	if m.Regression != nil {
		records, err := g.dataset.Records(ctx, dataset.Filter{})
		if err != nil {
			return err
		}
		fit := *m.Regression
		jobs = append(jobs, chartArtifact{SalesProfitFitChart, "chart", func(path string) error {
			return charts.SalesProfitFitScatter(records, fit, path)
		}})
	}

	var eg errgroup.Group
	for _, job := range jobs {
		job := job
		eg.Go(func() error {
			if err := job.render(filepath.Join(outputDir, job.name)); err != nil {
				return fmt.Errorf("render %s: %w", job.name, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for _, job := range jobs {
		if err := g.addArtifact(ctx, m, outputDir, job.name, job.kind); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) exportTables(ctx context.Context, m *Manifest, outputDir string, records []domain.Record, data exporter.WorkbookData) error {
	writer := exporter.NewCSVWriter(outputDir)

	rows := exporter.NewRecordExporter(writer)
	if err := rows.Export(records, exporter.CleanedDatasetFile); err != nil {
		return fmt.Errorf("export cleaned dataset: %w", err)
	}
	if err := g.addArtifact(ctx, m, outputDir, exporter.CleanedDatasetFile, "dataset"); err != nil {
		return err
	}

	tables := exporter.NewAggregateExporter(writer)

	if err := tables.ExportSalesByRegion(data.SalesByRegion, exporter.SalesByRegionFile); err != nil {
		return fmt.Errorf("export sales-by-region table: %w", err)
	}
	if err := g.addArtifact(ctx, m, outputDir, exporter.SalesByRegionFile, "table"); err != nil {
		return err
	}

	if err := tables.ExportProfitByCategory(data.ProfitByCategory, exporter.ProfitByCategoryFile); err != nil {
		return fmt.Errorf("export profit-by-category table: %w", err)
	}
	if err := g.addArtifact(ctx, m, outputDir, exporter.ProfitByCategoryFile, "table"); err != nil {
		return err
	}

	if err := tables.ExportTopCustomers(data.TopCustomers, exporter.TopCustomersFile); err != nil {
		return fmt.Errorf("export top-customers table: %w", err)
	}
	if err := g.addArtifact(ctx, m, outputDir, exporter.TopCustomersFile, "table"); err != nil {
		return err
	}

	if err := tables.ExportMonthlySales(data.MonthlySales, exporter.MonthlySalesFile); err != nil {
		return fmt.Errorf("export monthly-sales table: %w", err)
	}
	if err := g.addArtifact(ctx, m, outputDir, exporter.MonthlySalesFile, "table"); err != nil {
		return err
	}

	if err := tables.ExportSalesByState(data.SalesByState, exporter.SalesByStateFile); err != nil {
		return fmt.Errorf("export sales-by-state table: %w", err)
	}
	if err := g.addArtifact(ctx, m, outputDir, exporter.SalesByStateFile, "table"); err != nil {
		return err
	}

	workbook := exporter.NewWorkbookExporter(outputDir)
	if err := workbook.Export(data, exporter.SummaryWorkbookFile); err != nil {
		return fmt.Errorf("export summary workbook: %w", err)
	}
	return g.addArtifact(ctx, m, outputDir, exporter.SummaryWorkbookFile, "workbook")
}

// runStage executes one pipeline stage inside its own span and records
// the outcome on the manifest
func (g *Generator) runStage(ctx context.Context, m *Manifest, name string, fn func(context.Context) error) error {
	ctx, span := g.tracer.Start(ctx, "report."+name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	start := time.Now()
	g.logger.InfoContext(ctx, "report stage started", slog.String("stage", name))

	err := fn(ctx)
	duration := time.Since(start)

	result := StageResult{
		Name:     name,
		Duration: duration.Round(time.Millisecond).String(),
		Status:   "completed",
	}
	if err != nil {
		result.Status = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		g.logger.ErrorContext(ctx, "report stage failed",
			slog.String("stage", name),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration),
		)
	} else {
		g.logger.InfoContext(ctx, "report stage completed",
			slog.String("stage", name),
			slog.Duration("duration", duration),
		)
	}
	m.Stages = append(m.Stages, result)

	return err
}

// addArtifact stats a produced file and records it on the manifest
func (g *Generator) addArtifact(ctx context.Context, m *Manifest, dir, name, kind string) error {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat artifact %s: %w", name, err)
	}

	m.Artifacts = append(m.Artifacts, Artifact{
		Name:      name,
		Kind:      kind,
		Path:      path,
		SizeBytes: info.Size(),
	})

	g.logger.InfoContext(ctx, "artifact written",
		slog.String("name", name),
		slog.String("kind", kind),
		slog.Int64("size_bytes", info.Size()),
	)

	return nil
}
