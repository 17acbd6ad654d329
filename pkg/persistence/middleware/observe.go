package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/taskstream/pkg/domain"
	"github.com/aretw0/taskstream/pkg/observability"
	"github.com/aretw0/taskstream/pkg/ports"
)

type loggingMiddleware struct {
	next   ports.PlanStore
	logger *slog.Logger
}

// NewLoggingMiddleware logs every store operation. A missing run is logged at
// debug level since callers routinely probe for runs.
func NewLoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ports.PlanStore) ports.PlanStore {
		return &loggingMiddleware{next: next, logger: logger}
	}
}

func (m *loggingMiddleware) log(ctx context.Context, op, id string, start time.Time, err error) {
	attrs := []any{"op", op, "duration", time.Since(start)}
	if id != "" {
		attrs = append(attrs, "run_id", id)
	}
	switch {
	case err == nil:
		m.logger.DebugContext(ctx, "plan store", attrs...)
	case errors.Is(err, domain.ErrRunNotFound):
		m.logger.DebugContext(ctx, "plan store", append(attrs, "error", err)...)
	default:
		m.logger.ErrorContext(ctx, "plan store", append(attrs, "error", err)...)
	}
}

func (m *loggingMiddleware) Save(ctx context.Context, run *domain.Run) error {
	start := time.Now()
	err := m.next.Save(ctx, run)
	m.log(ctx, "save", run.ID, start, err)
	return err
}

func (m *loggingMiddleware) Load(ctx context.Context, id string) (*domain.Run, error) {
	start := time.Now()
	run, err := m.next.Load(ctx, id)
	m.log(ctx, "load", id, start, err)
	return run, err
}

func (m *loggingMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.log(ctx, "delete", id, start, err)
	return err
}

func (m *loggingMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.log(ctx, "list", "", start, err)
	return ids, err
}

type metricsMiddleware struct {
	next    ports.PlanStore
	metrics *observability.Metrics
}

// NewMetricsMiddleware records operation counts and latencies.
func NewMetricsMiddleware(metrics *observability.Metrics) Middleware {
	return func(next ports.PlanStore) ports.PlanStore {
		return &metricsMiddleware{next: next, metrics: metrics}
	}
}

func (m *metricsMiddleware) Save(ctx context.Context, run *domain.Run) error {
	start := time.Now()
	err := m.next.Save(ctx, run)
	m.metrics.ObserveStore("save", err, time.Since(start))
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, id string) (*domain.Run, error) {
	start := time.Now()
	run, err := m.next.Load(ctx, id)
	m.metrics.ObserveStore("load", err, time.Since(start))
	return run, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := m.next.Delete(ctx, id)
	m.metrics.ObserveStore("delete", err, time.Since(start))
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	ids, err := m.next.List(ctx)
	m.metrics.ObserveStore("list", err, time.Since(start))
	return ids, err
}
