package metrics

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestVerifyMetrics_RecordsChecksAndRuns(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(ctx) }()

	m, err := NewVerifyMetrics(mp, "orbitguard")
	if err != nil {
		t.Fatalf("NewVerifyMetrics err=%v", err)
	}
	m.CheckDone(ctx, "backend_deployment", "passed", 3*time.Millisecond)
	m.CheckDone(ctx, "api_endpoints", "error", time.Millisecond)
	m.RunDone(ctx, false)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect err=%v", err)
	}

	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			if sum, ok := md.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					got[md.Name] += dp.Value
				}
			}
		}
	}
	if got["verify.checks"] != 2 {
		t.Fatalf("expected 2 checks recorded, got %d", got["verify.checks"])
	}
	if got["verify.runs"] != 1 {
		t.Fatalf("expected 1 run recorded, got %d", got["verify.runs"])
	}
}

func TestVerifyMetrics_NilReceiver(t *testing.T) {
	var m *VerifyMetrics
	m.CheckDone(context.Background(), "x", "passed", 0)
	m.RunDone(context.Background(), true)
}
