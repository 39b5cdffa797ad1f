package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// VerifyMetrics records low-cardinality verification outcomes.
type VerifyMetrics struct {
	service string

	checks   metric.Int64Counter
	runs     metric.Int64Counter
	duration metric.Float64Histogram
}

// NewVerifyMetrics creates the instruments on mp. A nil mp means the global
// MeterProvider.
func NewVerifyMetrics(mp metric.MeterProvider, service string) (*VerifyMetrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter("orbit-guard/" + service)

	checks, err := m.Int64Counter(
		"verify.checks",
		metric.WithDescription("Checker invocations by outcome"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}
	runs, err := m.Int64Counter(
		"verify.runs",
		metric.WithDescription("Verification runs by overall result"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}
	duration, err := m.Float64Histogram(
		"verify.check.duration",
		metric.WithDescription("Checker duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &VerifyMetrics{
		service:  service,
		checks:   checks,
		runs:     runs,
		duration: duration,
	}, nil
}

// CheckDone records one checker result.
func (v *VerifyMetrics) CheckDone(ctx context.Context, check, outcome string, d time.Duration) {
	if v == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("service.name", v.service),
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	)
	v.checks.Add(ctx, 1, attrs)
	v.duration.Record(ctx, d.Seconds(), attrs)
}

// RunDone records the overall result of one run.
func (v *VerifyMetrics) RunDone(ctx context.Context, ok bool) {
	if v == nil {
		return
	}
	v.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service.name", v.service),
		attribute.Bool("ok", ok),
	))
}
