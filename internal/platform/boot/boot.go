package boot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orbit-guard/internal/platform/config"
	"orbit-guard/internal/platform/logging"
	"orbit-guard/internal/platform/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Deps are the platform dependencies handed to a job.
type Deps struct {
	Log *zap.Logger

	// Meter is backed by the Prometheus registry that MetricsFile is
	// written from.
	Meter metric.MeterProvider
}

// Options configures the platform boot.
type Options struct {
	ServiceName string

	// Log overrides logger construction. Nil builds one with logging.New.
	Log *zap.Logger

	// TraceConsole receives console spans when OTEL_TRACES_EXPORTER=console.
	// Nil means stderr.
	TraceConsole io.Writer

	// MetricsFile, when set, receives the Prometheus text exposition after
	// the job returns.
	MetricsFile string

	// OTELExtraAttrs are added to both tracing and metrics resources.
	OTELExtraAttrs []attribute.KeyValue

	// ShutdownTimeout bounds telemetry flush.
	ShutdownTimeout time.Duration
}

// OptionsFromEnv fills the environment-backed options for service.
func OptionsFromEnv(service string) Options {
	return Options{
		ServiceName:     service,
		MetricsFile:     config.Getenv("ORBITGUARD_METRICS_FILE", ""),
		ShutdownTimeout: config.GetenvDuration("ORBITGUARD_SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

// Run boots logging, tracing and metrics, runs job until it returns or a
// shutdown signal cancels its context, then flushes telemetry. The returned
// value is the process exit code: job's code, or 1 if boot itself failed.
func Run(ctx context.Context, opts Options, job func(ctx context.Context, deps Deps) int) int {
	code, err := run(ctx, opts, job)
	if err != nil {
		// Logger may not exist yet; stderr is the only guaranteed sink.
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return code
}

func run(ctx context.Context, opts Options, job func(ctx context.Context, deps Deps) int) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.ServiceName == "" {
		return 1, errors.New("boot: ServiceName is required")
	}
	if job == nil {
		return 1, errors.New("boot: job is required")
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	log := opts.Log
	if log == nil {
		l, err := logging.New(opts.ServiceName)
		if err != nil {
			return 1, err
		}
		log = l
	}
	defer func() { _ = log.Sync() }()

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTrace, err := otel.Init(runCtx, opts.ServiceName, opts.TraceConsole, opts.OTELExtraAttrs...)
	if err != nil {
		return 1, fmt.Errorf("boot: tracing: %w", err)
	}
	reg, mp, err := otel.InitMetricsPrometheus(runCtx, opts.ServiceName, opts.OTELExtraAttrs...)
	if err != nil {
		_ = shutdownTrace(context.Background())
		return 1, fmt.Errorf("boot: metrics: %w", err)
	}

	code := job(logging.With(runCtx, log), Deps{Log: log, Meter: mp})
	if runCtx.Err() != nil && ctx.Err() == nil {
		log.Info("shutdown signal received")
	}

	if opts.MetricsFile != "" {
		if err := otel.WriteTextfile(opts.MetricsFile, reg); err != nil {
			log.Error("metrics textfile", zap.String("path", opts.MetricsFile), zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := mp.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := shutdownTrace(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		log.Warn("telemetry shutdown", zap.Error(err))
	}
	return code, nil
}
