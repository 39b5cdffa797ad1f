package boot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"orbit-guard/internal/platform/logging"
	"orbit-guard/internal/platform/metrics"

	"go.uber.org/zap"
)

func TestRun_ReturnsJobExitCode(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_EXPORTER", "")

	for _, want := range []int{0, 1} {
		got := Run(context.Background(), Options{ServiceName: "orbitguard-test", Log: zap.NewNop()},
			func(ctx context.Context, deps Deps) int {
				if deps.Log == nil || deps.Meter == nil {
					t.Fatalf("expected deps to be populated")
				}
				if logging.From(ctx, nil) != deps.Log {
					t.Fatalf("expected logger in job context")
				}
				return want
			})
		if got != want {
			t.Fatalf("expected exit code %d, got %d", want, got)
		}
	}
}

func TestRun_WritesMetricsFile(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_EXPORTER", "")

	path := filepath.Join(t.TempDir(), "orbitguard.prom")
	code := Run(context.Background(), Options{
		ServiceName: "orbitguard-test",
		Log:         zap.NewNop(),
		MetricsFile: path,
	}, func(context.Context, Deps) int { return 0 })
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file err=%v", err)
	}
	if !strings.Contains(string(b), "go_goroutines") {
		t.Fatalf("expected Go collector output, got:\n%s", b)
	}
}

func TestRun_JobMeterFeedsMetricsFile(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_EXPORTER", "")

	path := filepath.Join(t.TempDir(), "orbitguard.prom")
	code := Run(context.Background(), Options{
		ServiceName: "orbitguard-test",
		Log:         zap.NewNop(),
		MetricsFile: path,
	}, func(ctx context.Context, deps Deps) int {
		m, err := metrics.NewVerifyMetrics(deps.Meter, "orbitguard-test")
		if err != nil {
			t.Fatalf("NewVerifyMetrics err=%v", err)
		}
		m.RunDone(ctx, true)
		return 0
	})
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics file err=%v", err)
	}
	if !strings.Contains(string(b), "verify_runs") {
		t.Fatalf("expected verify_runs series from the job meter, got:\n%s", b)
	}
}

func TestRun_BootFailures(t *testing.T) {
	job := func(context.Context, Deps) int { return 0 }
	if code := Run(context.Background(), Options{Log: zap.NewNop()}, job); code != 1 {
		t.Fatalf("expected exit code 1 without service name, got %d", code)
	}
	if code := Run(context.Background(), Options{ServiceName: "x", Log: zap.NewNop()}, nil); code != 1 {
		t.Fatalf("expected exit code 1 without job, got %d", code)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")
	if code := Run(context.Background(), Options{ServiceName: "x", Log: zap.NewNop()}, job); code != 1 {
		t.Fatalf("expected exit code 1 on tracing init failure, got %d", code)
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("ORBITGUARD_METRICS_FILE", "/tmp/orbitguard.prom")
	t.Setenv("ORBITGUARD_SHUTDOWN_TIMEOUT", "2s")

	opts := OptionsFromEnv("orbitguard")
	if opts.ServiceName != "orbitguard" || opts.MetricsFile != "/tmp/orbitguard.prom" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.ShutdownTimeout.String() != "2s" {
		t.Fatalf("expected 2s shutdown timeout, got %s", opts.ShutdownTimeout)
	}
}
