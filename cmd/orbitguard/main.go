package main

import (
	"context"
	"os"
	"time"

	"orbit-guard/internal/platform/boot"
	"orbit-guard/internal/platform/config"
	"orbit-guard/internal/platform/metrics"
	"orbit-guard/internal/verify"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const service = "orbitguard"

func main() {
	os.Exit(boot.Run(context.Background(), boot.OptionsFromEnv(service), verifyDeployment))
}

func verifyDeployment(ctx context.Context, deps boot.Deps) int {
	m, err := metrics.NewVerifyMetrics(deps.Meter, service)
	if err != nil {
		// Verification proceeds without metrics.
		deps.Log.Warn("verify metrics init", zap.Error(err))
	}

	r := &verify.Runner{
		Out:          os.Stdout,
		Log:          deps.Log,
		Tracer:       otel.Tracer("orbit-guard/" + service),
		CheckTimeout: config.GetenvDuration("ORBITGUARD_CHECK_TIMEOUT", time.Second),
	}
	if m != nil {
		r.Observer = m
	}

	rep := r.Run(ctx, verify.DeploymentCheckers())

	if path := config.Getenv("ORBITGUARD_REPORT_FILE", ""); path != "" {
		if err := verify.WriteReportFile(path, rep); err != nil {
			deps.Log.Error("report file", zap.String("path", path), zap.Error(err))
		} else {
			deps.Log.Info("report written", zap.String("path", path))
		}
	}
	return verify.ExitCode(rep)
}
