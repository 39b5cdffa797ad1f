package verify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"time"

	"orbit-guard/internal/platform/logging"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	bannerTitle = "🚀 RWANDA ORBIT GUARD - DEPLOYMENT VERIFICATION TESTS"
	bannerReady = "🎉 ALL DEPLOYMENT TESTS PASSED - SYSTEM IS READY!"
	bannerWarn  = "⚠️  Some tests require attention"
)

var rule = strings.Repeat("=", 60)

// Observer receives per-check and per-run outcomes. *metrics.VerifyMetrics
// satisfies it.
type Observer interface {
	CheckDone(ctx context.Context, check, outcome string, d time.Duration)
	RunDone(ctx context.Context, ok bool)
}

// Runner executes checkers in order and prints the pass/fail banner.
type Runner struct {
	Out      io.Writer
	Log      *zap.Logger
	Observer Observer
	Tracer   trace.Tracer

	// CheckTimeout bounds the context handed to each checker. Zero means no
	// per-check deadline.
	CheckTimeout time.Duration
}

// RunAll runs the deployment suite with no telemetry, writing the banner to out.
func RunAll(ctx context.Context, out io.Writer) Report {
	r := &Runner{Out: out}
	return r.Run(ctx, DeploymentCheckers())
}

// Run invokes every checker in order. A checker that returns false, returns
// an error, or panics counts as not passed; the loop always continues.
func (r *Runner) Run(ctx context.Context, checkers []Checker) Report {
	if ctx == nil {
		ctx = context.Background()
	}
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	tracer := r.Tracer
	if tracer == nil {
		tracer = otel.Tracer("orbit-guard/verify")
	}

	rep := Report{
		RunID:   uuid.NewString(),
		Started: time.Now().UTC(),
		Total:   len(checkers),
		Results: make([]Result, 0, len(checkers)),
	}

	ctx, span := tracer.Start(ctx, "verify.run", trace.WithAttributes(
		attribute.String("verify.run_id", rep.RunID),
		attribute.Int("verify.total", rep.Total),
	))
	defer span.End()

	log := logging.WithTrace(ctx, logging.From(ctx, r.Log)).With(zap.String("run_id", rep.RunID))
	log.Info("verification started", zap.Int("total", rep.Total))

	fmt.Fprintln(out, bannerTitle)
	fmt.Fprintln(out, rule)

	for _, c := range checkers {
		res := r.runOne(ctx, tracer, log, out, c)
		rep.Results = append(rep.Results, res)

		switch res.Outcome {
		case OutcomePassed:
			rep.Passed++
			fmt.Fprintf(out, "✅ %s: PASSED\n", c.Name)
		case OutcomeFailed:
			fmt.Fprintf(out, "❌ %s: FAILED\n", c.Name)
		default:
			fmt.Fprintf(out, "💥 %s: ERROR - %s\n", c.Name, res.Error)
		}

		if r.Observer != nil {
			r.Observer.CheckDone(ctx, res.Name, res.Outcome.String(), res.Duration)
		}
	}

	rep.OK = rep.Passed == rep.Total
	rep.Duration = time.Since(rep.Started)

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "📊 TEST SUMMARY: %d/%d tests passed\n", rep.Passed, rep.Total)
	if rep.OK {
		fmt.Fprintln(out, bannerReady)
	} else {
		fmt.Fprintln(out, bannerWarn)
		span.SetStatus(codes.Error, "verification incomplete")
	}

	span.SetAttributes(
		attribute.Int("verify.passed", rep.Passed),
		attribute.Bool("verify.ok", rep.OK),
	)
	if r.Observer != nil {
		r.Observer.RunDone(ctx, rep.OK)
	}
	log.Info("verification finished",
		zap.Int("passed", rep.Passed),
		zap.Int("total", rep.Total),
		zap.Bool("ok", rep.OK),
		zap.Duration("duration", rep.Duration),
	)
	return rep
}

func (r *Runner) runOne(ctx context.Context, tracer trace.Tracer, log *zap.Logger, out io.Writer, c Checker) Result {
	ctx, span := tracer.Start(ctx, "verify.check", trace.WithAttributes(
		attribute.String("verify.check", c.Name),
	))
	defer span.End()

	if r.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.CheckTimeout)
		defer cancel()
	}

	start := time.Now()
	ok, err := invoke(ctx, log, out, c)
	res := Result{Name: c.Name, Duration: time.Since(start)}

	switch {
	case err != nil:
		res.Outcome = OutcomeError
		res.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, res.Error)
		log.Warn("check errored", zap.String("check", c.Name), zap.Error(err))
	case ok:
		res.Outcome = OutcomePassed
		log.Debug("check passed", zap.String("check", c.Name), zap.Duration("duration", res.Duration))
	default:
		res.Outcome = OutcomeFailed
		span.SetStatus(codes.Error, "check failed")
		log.Warn("check failed", zap.String("check", c.Name))
	}
	span.SetAttributes(attribute.String("verify.outcome", res.Outcome.String()))
	return res
}

// invoke calls c.Check, converting a panic into an error carrying the panic
// value as its message.
func invoke(ctx context.Context, log *zap.Logger, out io.Writer, c Checker) (ok bool, err error) {
	if c.Check == nil {
		return false, errors.New("verify: nil check")
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	defer func() {
		if p := recover(); p != nil {
			log.Error("check panicked",
				zap.String("check", c.Name),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()),
			)
			ok = false
			if perr, isErr := p.(error); isErr {
				err = perr
				return
			}
			err = fmt.Errorf("%v", p)
		}
	}()
	return c.Check(ctx, out)
}
