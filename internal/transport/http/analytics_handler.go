package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"superstore/internal/dataset"
	apierrors "superstore/internal/errors"
	customMiddleware "superstore/internal/middleware"
	"superstore/internal/services"
)

// AnalyticsHandler serves the dashboard analytics queries with RFC 7807
// error responses
type AnalyticsHandler struct {
	service      AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validation   *customMiddleware.ValidationMiddleware
	queryParams  *customMiddleware.QueryParamValidator
}

// NewAnalyticsHandler creates a new analytics handler with RFC 7807 error handling
func NewAnalyticsHandler(service AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
		validation:   customMiddleware.NewValidationMiddleware(logger, errorHandler),
		queryParams:  customMiddleware.NewQueryParamValidator(errorHandler),
	}
}

// Routes returns the analytics routes with proper Chi patterns
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// Use render for consistent JSON responses
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/sales-by-region", h.GetSalesByRegion)
	r.Get("/profit-by-category", h.GetProfitByCategory)
	r.Get("/top-customers", h.GetTopCustomers)
	r.Get("/sales-by-state", h.GetSalesByState)
	r.Get("/monthly-sales", h.GetMonthlySales)
	r.Get("/discount-profit", h.GetDiscountProfit)

	// Regression fits a model per request, worth its own span
	r.With(customMiddleware.TraceMiddleware("analytics.regression")).Get("/regression", h.GetRegression)

	return r
}

// bindFilter parses and validates the shared filter parameters. On
// failure the RFC 7807 response has already been written.
func (h *AnalyticsHandler) bindFilter(w http.ResponseWriter, r *http.Request) (dataset.Filter, bool) {
	req := bindFilterRequest(r)
	if err := h.validation.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return dataset.Filter{}, false
	}

	f, err := filterFromRequest(req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return dataset.Filter{}, false
	}

	return f, true
}

// handleServiceError maps service sentinels to API errors before
// falling back to the central error handler
func (h *AnalyticsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "analytics query failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("path", r.URL.Path),
	)

	if errors.Is(err, services.ErrDatasetNotLoaded) {
		h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotLoaded)
		return
	}
	if errors.Is(err, services.ErrInvalidLimit) {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("limit", "Limit must be between 1 and 100"))
		return
	}

	h.errorHandler.HandleError(w, r, err)
}

// GetSummary handles GET /api/analytics/summary
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing summary",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	summary, err := h.service.Summary(r.Context(), f)
	customMiddleware.RecordQueryOutcome(r.Context(), "summary", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetSalesByRegion handles GET /api/analytics/sales-by-region
func (h *AnalyticsHandler) GetSalesByRegion(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing sales by region",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	rows, err := h.service.SalesByRegion(r.Context(), f)
	customMiddleware.RecordQueryOutcome(r.Context(), "sales_by_region", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetProfitByCategory handles GET /api/analytics/profit-by-category
func (h *AnalyticsHandler) GetProfitByCategory(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing profit by category",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	rows, err := h.service.ProfitByCategory(r.Context(), f)
	customMiddleware.RecordQueryOutcome(r.Context(), "profit_by_category", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetTopCustomers handles GET /api/analytics/top-customers
func (h *AnalyticsHandler) GetTopCustomers(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing top customers",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	limit, err := h.queryParams.ValidateInt(r, "limit", 1, 100, 10)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	rows, err := h.service.TopCustomers(r.Context(), f, limit)
	customMiddleware.RecordQueryOutcome(r.Context(), "top_customers", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetSalesByState handles GET /api/analytics/sales-by-state
func (h *AnalyticsHandler) GetSalesByState(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing sales by state",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	rows, err := h.service.SalesByState(r.Context(), f)
	customMiddleware.RecordQueryOutcome(r.Context(), "sales_by_state", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetMonthlySales handles GET /api/analytics/monthly-sales
func (h *AnalyticsHandler) GetMonthlySales(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing monthly sales",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	rows, err := h.service.MonthlySales(r.Context(), f)
	customMiddleware.RecordQueryOutcome(r.Context(), "monthly_sales", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   rows,
		"count":  len(rows),
	})
}

// GetDiscountProfit handles GET /api/analytics/discount-profit
func (h *AnalyticsHandler) GetDiscountProfit(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "computing discount profit scatter",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	points, err := h.service.DiscountProfit(r.Context(), f)
	customMiddleware.RecordQueryOutcome(r.Context(), "discount_profit", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   points,
		"count":  len(points),
	})
}

// GetRegression handles GET /api/analytics/regression
func (h *AnalyticsHandler) GetRegression(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	h.logger.InfoContext(r.Context(), "fitting regression",
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	f, ok := h.bindFilter(w, r)
	if !ok {
		return
	}

	start := time.Now()
	report, err := h.service.Regression(r.Context(), f)
	customMiddleware.RecordQueryOutcome(r.Context(), "regression", time.Since(start), err == nil)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   report,
	})
}
