package otel

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitMetricsPrometheus_WritesTextfile(t *testing.T) {
	ctx := context.Background()
	reg, mp, err := InitMetricsPrometheus(ctx, "orbitguard-test")
	if err != nil {
		t.Fatalf("InitMetricsPrometheus err=%v", err)
	}
	defer func() { _ = mp.Shutdown(ctx) }()

	path := filepath.Join(t.TempDir(), "orbitguard.prom")
	if err := WriteTextfile(path, reg); err != nil {
		t.Fatalf("WriteTextfile err=%v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile err=%v", err)
	}
	if !strings.Contains(string(b), "go_goroutines") {
		t.Fatalf("expected Go collector series in textfile, got:\n%s", b)
	}
}

func TestInit_NoExporterConfigured(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_EXPORTER", "")

	shutdown, err := Init(context.Background(), "orbitguard-test", nil)
	if err != nil {
		t.Fatalf("Init err=%v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown err=%v", err)
	}
}

func TestInit_RejectsUnknownProtocol(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "carrier-pigeon")

	if _, err := Init(context.Background(), "orbitguard-test", nil); err == nil {
		t.Fatalf("expected error for unsupported protocol")
	}
}
