package observability

import (
	"context"
	"log/slog"
	"time"
)

// TimeOperation runs fn and records its duration and outcome under the
// operation tag. Failures are logged at error level, successes at debug.
// logger and metrics may be nil.
func TimeOperation(ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	recordOperation(ctx, logger, metrics, operation, time.Since(start), err)
	return err
}

// TimeOperationResult is TimeOperation for functions that return a value.
func TimeOperationResult[T any](ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	result, err := fn()
	recordOperation(ctx, logger, metrics, operation, time.Since(start), err)
	return result, err
}

func recordOperation(ctx context.Context, logger *slog.Logger, metrics Metrics, operation string, elapsed time.Duration, err error) {
	if metrics != nil {
		tag := T("operation", operation)
		metrics.Timing(MetricOperationDuration, elapsed, tag)
		metrics.Counter(MetricOperationTotal, 1, tag)
		if err != nil {
			metrics.Counter(MetricOperationErrors, 1, tag)
		}
	}

	if logger == nil {
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "operation failed",
			"operation", operation,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return
	}
	logger.DebugContext(ctx, "operation completed",
		"operation", operation,
		"duration_ms", elapsed.Milliseconds(),
	)
}
