package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"superstore/internal/infrastructure"
	"superstore/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	dataset   *DatasetService
	collector *infrastructure.SystemMetricsCollector
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// SystemStats represents runtime statistics for the stats endpoint
type SystemStats struct {
	UptimeSeconds      float64 `json:"uptime_seconds"`
	DatasetLoaded      bool    `json:"dataset_loaded"`
	DatasetRows        int     `json:"dataset_rows"`
	DatasetFingerprint string  `json:"dataset_fingerprint,omitempty"`
	Goroutines         int64   `json:"goroutines"`
	MemoryUsageBytes   int64   `json:"memory_usage_bytes"`
	GoVersion          string  `json:"go_version"`
	OS                 string  `json:"os"`
	Arch               string  `json:"arch"`
}

// NewHealthService creates a new health service. collector may be nil
// when observability is disabled.
func NewHealthService(dataset *DatasetService, collector *infrastructure.SystemMetricsCollector, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	return &HealthService{
		dataset:   dataset,
		collector: collector,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   contracts.Version,
	}
}

// ReadinessCheck reports whether the service can answer analytics
// queries. The dataset must be loaded for readiness.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services:  make(map[string]interface{}),
	}

	status.Services["dataset"] = hs.checkDatasetHealth()

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	return status
}

// LivenessCheck returns liveness status with basic runtime facts
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

// SystemStats returns runtime statistics
func (hs *HealthService) SystemStats(ctx context.Context) (SystemStats, error) {
	stats := SystemStats{
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
	}

	if hs.collector != nil {
		runtimeStats := hs.collector.GetCurrentStats(ctx)
		stats.Goroutines = runtimeStats.GoRoutines
		stats.MemoryUsageBytes = runtimeStats.MemoryUsage
	} else {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		stats.Goroutines = int64(runtime.NumGoroutine())
		stats.MemoryUsageBytes = int64(mem.Alloc)
	}

	if hs.dataset != nil && hs.dataset.Loaded() {
		info, err := hs.dataset.Info(ctx)
		if err != nil {
			return stats, fmt.Errorf("dataset info: %w", err)
		}
		stats.DatasetLoaded = true
		stats.DatasetRows = info.Rows
		stats.DatasetFingerprint = info.Fingerprint
	}

	return stats, nil
}

// checkDatasetHealth checks dataset service health
func (hs *HealthService) checkDatasetHealth() ServiceHealth {
	if hs.dataset == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "dataset service not configured",
		}
	}

	if !hs.dataset.Loaded() {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "dataset not loaded",
		}
	}

	return ServiceHealth{
		Status: "ready",
	}
}
