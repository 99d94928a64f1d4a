package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InvocationMetrics records per-action dispatch metrics.
type InvocationMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	level    prometheus.Histogram
}

// NewInvocationMetrics creates dispatch metrics. The call level histogram is
// registered with reg; a nil reg uses prometheus.DefaultRegisterer.
func NewInvocationMetrics(reg prometheus.Registerer) (*InvocationMetrics, error) {
	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram(
		"invocation.duration",
		metric.WithDescription("Action handler duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		"invocation.total",
		metric.WithDescription("Total number of action invocations"),
	)
	if err != nil {
		return nil, err
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	level := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "invocation_call_level",
		Help:    "Hop count of dispatched invocations.",
		Buckets: prometheus.LinearBuckets(1, 1, 16),
	})

	if err := reg.Register(level); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}

		existing, ok := already.ExistingCollector.(prometheus.Histogram)
		if !ok {
			return nil, err
		}

		level = existing
	}

	return &InvocationMetrics{
		duration: duration,
		total:    total,
		level:    level,
	}, nil
}

// Record observes one finished invocation.
func (m *InvocationMetrics) Record(ctx context.Context, action string, level int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("invocation.action", action),
		attribute.Bool("invocation.error", err != nil),
	)

	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.total.Add(ctx, 1, attrs)
	m.level.Observe(float64(level))
}
