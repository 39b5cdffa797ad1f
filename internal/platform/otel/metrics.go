package otel

import (
	"context"
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMetricsPrometheus wires an OTEL MeterProvider backed by a dedicated
// Prometheus registry. There is no scrape listener; callers gather the
// registry (see WriteTextfile) and then call Shutdown on the provider.
func InitMetricsPrometheus(
	ctx context.Context,
	serviceName string,
	extraAttrs ...attribute.KeyValue,
) (*prom.Registry, *sdkmetric.MeterProvider, error) {
	res, err := newResource(ctx, serviceName, extraAttrs...)
	if err != nil {
		return nil, nil, err
	}

	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, nil, fmt.Errorf("otel: prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exp),
	)
	otel.SetMeterProvider(mp)
	if err := runtime.Start(
		runtime.WithMeterProvider(mp),
		runtime.WithMinimumReadMemStatsInterval(time.Second),
	); err != nil {
		_ = mp.Shutdown(ctx)
		return nil, nil, fmt.Errorf("otel: runtime metrics: %w", err)
	}

	return reg, mp, nil
}

// WriteTextfile writes everything reg gathers to path in the Prometheus text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string, reg prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("otel: write metrics textfile: %w", err)
	}
	return nil
}
