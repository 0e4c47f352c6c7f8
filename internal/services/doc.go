// Package services implements the business logic layer between the HTTP
// handlers and the dataset pipeline.
//
// DatasetService owns the cleaned table: it loads and cleans the source
// file once at startup, then serves filtered views per request. The table
// is immutable after Load, so concurrent readers need no locking.
//
// HealthService reports liveness, readiness, and runtime statistics for
// the serving process.
//
// Services take their dependencies through constructors and return
// domain-specific errors that the transport layer translates into
// problem-details responses:
//
//	svc := services.NewDatasetService(cfg.Dataset, logger, metrics)
//	if err := svc.Load(ctx); err != nil {
//	    return fmt.Errorf("load dataset: %w", err)
//	}
//	summary, err := svc.Summary(ctx, dataset.Filter{})
package services
