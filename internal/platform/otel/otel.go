package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"orbit-guard/internal/platform/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFn flushes and shuts down an OTEL provider.
type ShutdownFn func(context.Context) error

// Init configures global OpenTelemetry tracing.
//
// Exporter selection:
//   - OTEL_EXPORTER_OTLP_ENDPOINT set: OTLP over OTEL_EXPORTER_OTLP_PROTOCOL
//     ("grpc" or "http/protobuf"), plaintext gRPC when OTEL_EXPORTER_OTLP_INSECURE=true.
//   - OTEL_TRACES_EXPORTER=console: pretty-printed spans on console.
//   - otherwise spans are recorded (trace ids reach the logs) but not exported.
func Init(ctx context.Context, serviceName string, console io.Writer, extraAttrs ...attribute.KeyValue) (ShutdownFn, error) {
	res, err := newResource(ctx, serviceName, extraAttrs...)
	if err != nil {
		return nil, err
	}

	exp, err := newTraceExporter(ctx, console)
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if exp != nil {
		opts = append(opts, sdktrace.WithBatcher(exp,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxQueueSize(2048),
			sdktrace.WithMaxExportBatchSize(512),
		))
	}
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func newResource(ctx context.Context, serviceName string, extraAttrs ...attribute.KeyValue) (*resource.Resource, error) {
	res, err := resource.New(
		ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
		resource.WithAttributes(extraAttrs...),
	)
	if err != nil {
		return nil, fmt.Errorf("otel: resource: %w", err)
	}
	return res, nil
}

func newTraceExporter(ctx context.Context, console io.Writer) (sdktrace.SpanExporter, error) {
	endpoint := config.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	if endpoint == "" {
		if !strings.EqualFold(config.Getenv("OTEL_TRACES_EXPORTER", ""), "console") {
			return nil, nil
		}
		if console == nil {
			console = os.Stderr
		}
		return stdouttrace.New(
			stdouttrace.WithWriter(console),
			stdouttrace.WithPrettyPrint(),
		)
	}

	proto := config.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	switch strings.ToLower(proto) {
	case "grpc":
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(endpoint),
		}
		if config.GetenvBool("OTEL_EXPORTER_OTLP_INSECURE", false) {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
	case "http/protobuf", "http":
		return otlptrace.New(ctx, otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint(endpoint),
		))
	default:
		return nil, errors.New("unsupported OTEL_EXPORTER_OTLP_PROTOCOL: " + proto)
	}
}
