package app

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"superstore/internal/config"
	apierrors "superstore/internal/errors"
	"superstore/internal/infrastructure"
	customMiddleware "superstore/internal/middleware"
	"superstore/internal/services"
	handlers "superstore/internal/transport/http"
	"superstore/pkg/contracts"
)

// AppName is the human-readable product name shown in startup logs.
const AppName = "Superstore Analytics"

// systemMetricsInterval is how often runtime stats are sampled.
const systemMetricsInterval = 30 * time.Second

// Application wires configuration, services, and the HTTP server together.
type Application struct {
	Config         *config.Config
	Router         *chi.Mux
	Server         *http.Server
	Logger         *slog.Logger
	OTelProviders  *infrastructure.OTelProviders
	Metrics        *infrastructure.BusinessMetrics
	SystemMetrics  *infrastructure.SystemMetricsCollector
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
	FrontendFS     fs.FS
}

// NewApplication creates a fully wired application. configPath may be empty,
// in which case the default config locations are searched. frontendFS holds
// the embedded dashboard bundle and may be nil for API-only deployments.
func NewApplication(configPath string, frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("dataset_path", cfg.Dataset.Path))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		FrontendFS:    frontendFS,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the service layer in dependency order.
func (a *Application) initializeServices() error {
	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}
	a.Metrics = metrics

	a.DatasetService = services.NewDatasetService(a.Config.Dataset, a.Logger, metrics)

	collector, err := infrastructure.NewSystemMetricsCollector(a.OTelProviders.Meter, systemMetricsInterval)
	if err != nil {
		return fmt.Errorf("failed to create system metrics collector: %w", err)
	}
	a.SystemMetrics = collector

	a.HealthService = services.NewHealthService(a.DatasetService, collector, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			a.Logger.Error("failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}
		r.Use(customMiddleware.BusinessMetricsMiddleware(a.Metrics))

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))

		secureHeaders := customMiddleware.DefaultSecureHeaders()
		secureHeaders.DevMode = a.isDevelopmentMode()
		r.Use(secureHeaders.Handler)

		r.Use(customMiddleware.CORS(a.getCORSConfig()))

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
		a.setupFrontendRoutes(r)
	})

	// Prometheus scrapes stay outside the middleware group
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures the JSON API endpoints.
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.ReadTimeout, a.Logger))

		errorHandler := apierrors.NewErrorHandler(a.Logger, false)

		// Body guards only act on write requests, reads pass through
		validationMW := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)
		r.Use(validationMW.ContentTypeValidator("application/json"))
		r.Use(validationMW.ValidateRequest)

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		analyticsHandler := handlers.NewAnalyticsHandler(a.DatasetService, a.Logger, errorHandler)
		r.Mount("/analytics", analyticsHandler.Routes())

		datasetHandler := handlers.NewDatasetHandler(a.DatasetService, a.Logger, errorHandler)
		r.Mount("/dataset", datasetHandler.Routes())

		r.Post("/logs", handlers.NewClientLogHandler(a.Logger).Handle)
	})
}

// setupFrontendRoutes serves the embedded dashboard bundle.
func (a *Application) setupFrontendRoutes(r chi.Router) {
	if a.FrontendFS == nil {
		a.Logger.Warn("frontend bundle not available, serving API only")
		return
	}

	// Registered last so the API and metrics routes win
	r.Get("/*", a.serveFrontend(a.FrontendFS))
}

// serveFrontend returns a handler for the embedded dashboard files. Paths
// without an extension fall back to index.html so a reload on a dashboard
// view still loads the app shell.
func (a *Application) serveFrontend(frontendFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			name = "index.html"
		}

		file, err := frontendFS.Open(name)
		if err != nil {
			if path.Ext(name) != "" {
				http.NotFound(w, r)
				return
			}
			name = "index.html"
			if file, err = frontendFS.Open(name); err != nil {
				http.NotFound(w, r)
				return
			}
		}
		defer file.Close()

		w.Header().Set("Content-Type", frontendContentType(name))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if name == "index.html" {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		}

		io.Copy(w, file)
	}
}

// frontendContentType maps bundle file extensions to MIME types. Embedded
// files bypass the http.FileServer sniffing, so the type is set explicitly.
func frontendContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}

// getCORSConfig builds the CORS policy for the dashboard origin plus any
// configured extras.
func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	cors := customMiddleware.CORSConfig{
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
		AllowCredentials: true,
		MaxAge:           300,
		Logger:           a.Logger,
	}

	origins := []string{
		fmt.Sprintf("http://localhost:%d", a.Config.Server.Port),
		fmt.Sprintf("http://127.0.0.1:%d", a.Config.Server.Port),
	}
	if a.isDevelopmentMode() {
		// Local static dev servers for dashboard work
		origins = append(origins,
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		)
	}
	if a.Config.Security.EnableCORS && len(a.Config.Security.AllowedOrigins) > 0 {
		origins = append(origins, a.Config.Security.AllowedOrigins...)
	}
	cors.AllowedOrigins = origins

	a.Logger.Info("CORS configured",
		slog.Bool("development", a.isDevelopmentMode()),
		slog.Any("allowed_origins", cors.AllowedOrigins))

	return cors
}

// isDevelopmentMode reports whether the server runs in development mode.
func (a *Application) isDevelopmentMode() bool {
	if env := os.Getenv("SUPERSTORE_ENV"); env == "development" {
		return true
	}
	if env := os.Getenv("GO_ENV"); env == "development" {
		return true
	}
	return false
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start loads the dataset and starts the HTTP server. A dataset that fails
// to load refuses startup instead of serving 503s forever. cancel is called
// if the listener dies so the caller can unwind.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("address", a.Config.Server.Address()),
		slog.String("level", a.Config.Logging.Level))

	if err := a.DatasetService.Load(ctx); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	go a.SystemMetrics.Start(ctx)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("url", a.dashboardURL()))

	go a.openDashboard(ctx)

	return nil
}

// dashboardURL is the address a local browser reaches the server at.
func (a *Application) dashboardURL() string {
	return fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)
}

// openDashboard waits for the server to answer health checks, then opens
// the dashboard in the default browser. A failed launch logs and prints the
// URL so the user can open it by hand.
func (a *Application) openDashboard(ctx context.Context) {
	if a.FrontendFS == nil {
		return
	}

	url := a.dashboardURL()
	healthURL := url + "/api/health"

	for i := 0; i < 10; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		resp, err := http.Get(healthURL)
		if err == nil {
			ready := resp.StatusCode == http.StatusOK
			resp.Body.Close()
			if ready {
				if err := openBrowser(url); err != nil {
					a.Logger.Warn("failed to open browser",
						slog.String("error", err.Error()),
						slog.String("url", url))
					fmt.Printf("\n%s is running at %s\n\n", AppName, url)
				}
				return
			}
		}

		time.Sleep(500 * time.Millisecond)
	}

	a.Logger.Warn("server did not become ready for browser opening",
		slog.String("url", healthURL))
}

// openBrowser launches the default browser for the given URL.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.SystemMetrics.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted or the listener fails.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	// The run context may already be dead, shutdown gets a fresh one
	return a.Stop(context.Background())
}
