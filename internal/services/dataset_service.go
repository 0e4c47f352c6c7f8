package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"superstore/internal/analytics"
	"superstore/internal/config"
	"superstore/internal/dataset"
	"superstore/internal/infrastructure"
	"superstore/internal/regress"
	"superstore/internal/validation"
	"superstore/pkg/contracts/domain"
)

// DatasetService owns the cleaned table. Load runs once at startup;
// every query method serves a filtered view of the same immutable
// records afterwards.
type DatasetService struct {
	cfg       config.DatasetConfig
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
	validator *validation.FileValidator
	loader    *dataset.Loader
	cleaner   *dataset.Cleaner

	// Populated by Load, read-only afterwards. Query methods may be
	// called concurrently once Load has returned.
	records []domain.Record
	info    domain.DatasetInfo
	filters domain.FilterValues
	loaded  bool
}

// NewDatasetService creates a dataset service. metrics may be nil when
// observability is disabled.
func NewDatasetService(cfg config.DatasetConfig, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dataset_service"))

	return &DatasetService{
		cfg:       cfg,
		logger:    logger,
		metrics:   metrics,
		validator: validation.NewFileValidator(logger),
		loader:    dataset.NewLoader(logger, cfg.Encoding),
		cleaner:   dataset.NewCleaner(logger, cfg.StrictDates, cfg.DateFormats),
	}
}

// Load reads, cleans, and fingerprints the configured dataset file.
// A FormatError here means the file is unusable and the caller should
// refuse to start serving.
func (s *DatasetService) Load(ctx context.Context) error {
	start := time.Now()

	err := s.load(ctx)

	format := string(s.info.Format)
	if format == "" {
		format = "unknown"
	}
	infrastructure.RecordDatasetLoadMetrics(ctx, s.metrics, format,
		int64(s.info.Rows),
		int64(s.info.Clean.DuplicatesRemoved),
		int64(s.info.Clean.OrderDatesNulled+s.info.Clean.ShipDatesNulled),
		time.Since(start), err)

	if err != nil {
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("path", s.cfg.Path),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", s.info.Path),
		slog.String("format", string(s.info.Format)),
		slog.String("fingerprint", s.info.Fingerprint),
		slog.Int("rows", s.info.Rows),
		slog.Int("columns", s.info.Columns),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (s *DatasetService) load(ctx context.Context) error {
	path := s.cfg.Path

	if err := s.validator.ValidateDatasetFile(path); err != nil {
		return &dataset.FormatError{Path: path, Reason: "pre-validation failed", Err: err}
	}

	table, err := s.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	records, cleanReport, err := s.cleaner.Clean(table)
	if err != nil {
		return fmt.Errorf("clean dataset: %w", err)
	}

	fingerprint, err := dataset.Fingerprint(path)
	if err != nil {
		// The file was readable a moment ago; degrade to an empty
		// fingerprint rather than failing the whole load.
		s.logger.WarnContext(ctx, "dataset fingerprint failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}

	s.records = records
	s.info = domain.DatasetInfo{
		Path:        path,
		Format:      table.Format,
		Fingerprint: fingerprint,
		Columns:     table.Columns,
		Rows:        len(records),
		LoadedAt:    time.Now().UTC(),
		Clean:       cleanReport,
	}
	s.filters = dataset.DistinctValues(records)
	s.loaded = true
	return nil
}

// Loaded reports whether Load has completed successfully
func (s *DatasetService) Loaded() bool {
	return s.loaded
}

// Info returns dataset metadata for the info endpoint
func (s *DatasetService) Info(ctx context.Context) (domain.DatasetInfo, error) {
	if !s.loaded {
		return domain.DatasetInfo{}, ErrDatasetNotLoaded
	}
	return s.info, nil
}

// FilterValues returns the distinct values the dashboard filter
// controls offer, plus the order-date bounds.
func (s *DatasetService) FilterValues(ctx context.Context) (domain.FilterValues, error) {
	if !s.loaded {
		return domain.FilterValues{}, ErrDatasetNotLoaded
	}
	return s.filters, nil
}

// Records returns the rows matching the filter. The returned slice is
// freshly allocated; callers may not mutate the records themselves.
func (s *DatasetService) Records(ctx context.Context, f dataset.Filter) ([]domain.Record, error) {
	if !s.loaded {
		return nil, ErrDatasetNotLoaded
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return nil, fmt.Errorf("%w: range start %s is after range end %s",
			ErrInvalidFilter, f.From.Format("2006-01-02"), f.To.Format("2006-01-02"))
	}
	return f.Apply(s.records), nil
}

// Summary computes the KPI bundle for the filtered subset
func (s *DatasetService) Summary(ctx context.Context, f dataset.Filter) (domain.Summary, error) {
	start := time.Now()
	rows, err := s.Records(ctx, f)
	if err != nil {
		infrastructure.RecordQueryMetrics(ctx, s.metrics, "summary", time.Since(start), false)
		return domain.Summary{}, err
	}

	summary := analytics.Summarize(rows)
	infrastructure.RecordQueryMetrics(ctx, s.metrics, "summary", time.Since(start), true)
	return summary, nil
}

// SalesByRegion returns per-region sales totals, descending by value
func (s *DatasetService) SalesByRegion(ctx context.Context, f dataset.Filter) ([]domain.RegionSales, error) {
	start := time.Now()
	rows, err := s.Records(ctx, f)
	if err != nil {
		infrastructure.RecordQueryMetrics(ctx, s.metrics, "sales_by_region", time.Since(start), false)
		return nil, err
	}

	result := analytics.SalesByRegion(rows)
	infrastructure.RecordQueryMetrics(ctx, s.metrics, "sales_by_region", time.Since(start), true)
	return result, nil
}

// ProfitByCategory returns per-category profit totals, descending by value
func (s *DatasetService) ProfitByCategory(ctx context.Context, f dataset.Filter) ([]domain.CategoryProfit, error) {
	start := time.Now()
	rows, err := s.Records(ctx, f)
	if err != nil {
		infrastructure.RecordQueryMetrics(ctx, s.metrics, "profit_by_category", time.Since(start), false)
		return nil, err
	}

	result := analytics.ProfitByCategory(rows)
	infrastructure.RecordQueryMetrics(ctx, s.metrics, "profit_by_category", time.Since(start), true)
	return result, nil
}

// TopCustomers returns the n customers with the highest sales totals
func (s *DatasetService) TopCustomers(ctx context.Context, f dataset.Filter, n int) ([]domain.CustomerSales, error) {
	if n < 1 || n > 100 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}

	start := time.Now()
	rows, err := s.Records(ctx, f)
	if err != nil {
		infrastructure.RecordQueryMetrics(ctx, s.metrics, "top_customers", time.Since(start), false)
		return nil, err
	}

	result := analytics.TopCustomers(rows, n)
	infrastructure.RecordQueryMetrics(ctx, s.metrics, "top_customers", time.Since(start), true)
	return result, nil
}

// SalesByState returns per-state sales totals for the choropleth
func (s *DatasetService) SalesByState(ctx context.Context, f dataset.Filter) ([]domain.StateSales, error) {
	start := time.Now()
	rows, err := s.Records(ctx, f)
	if err != nil {
		infrastructure.RecordQueryMetrics(ctx, s.metrics, "sales_by_state", time.Since(start), false)
		return nil, err
	}

	result := analytics.SalesByState(rows)
	infrastructure.RecordQueryMetrics(ctx, s.metrics, "sales_by_state", time.Since(start), true)
	return result, nil
}

// MonthlySales returns the monthly sales trend, ascending by month.
// Rows with a nulled order date are excluded.
func (s *DatasetService) MonthlySales(ctx context.Context, f dataset.Filter) ([]domain.MonthlySales, error) {
	start := time.Now()
	rows, err := s.Records(ctx, f)
	if err != nil {
		infrastructure.RecordQueryMetrics(ctx, s.metrics, "monthly_sales", time.Since(start), false)
		return nil, err
	}

	result := analytics.MonthlySales(rows)
	infrastructure.RecordQueryMetrics(ctx, s.metrics, "monthly_sales", time.Since(start), true)
	return result, nil
}

// DiscountProfit returns the (discount, profit) points for the scatter
func (s *DatasetService) DiscountProfit(ctx context.Context, f dataset.Filter) ([]domain.ScatterPoint, error) {
	start := time.Now()
	rows, err := s.Records(ctx, f)
	if err != nil {
		infrastructure.RecordQueryMetrics(ctx, s.metrics, "discount_profit", time.Since(start), false)
		return nil, err
	}

	result := analytics.DiscountProfitPoints(rows)
	infrastructure.RecordQueryMetrics(ctx, s.metrics, "discount_profit", time.Since(start), true)
	return result, nil
}

// Regression fits the profit-on-sales baseline over the filtered
// subset. An InsufficientDataError passes through untouched so the
// transport layer can map it.
func (s *DatasetService) Regression(ctx context.Context, f dataset.Filter) (domain.RegressionReport, error) {
	rows, err := s.Records(ctx, f)
	if err != nil {
		return domain.RegressionReport{}, err
	}

	report, err := regress.Fit(rows)
	infrastructure.RecordRegressionMetrics(ctx, s.metrics, err)
	if err != nil {
		s.logger.WarnContext(ctx, "regression fit failed",
			slog.Int("rows", len(rows)),
			slog.String("error", err.Error()))
		return domain.RegressionReport{}, err
	}

	return report, nil
}
