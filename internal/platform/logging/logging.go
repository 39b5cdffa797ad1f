package logging

import (
	"fmt"
	"os"

	"orbit-guard/internal/platform/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelEnv selects the minimum log level (debug, info, warn, error).
const LevelEnv = "ORBITGUARD_LOG_LEVEL"

// New builds the JSON logger used by orbitguard. Logs go to stderr so that
// stdout carries only the verification banner.
func New(service string) (*zap.Logger, error) {
	return NewTo(service, config.Getenv(LevelEnv, "info"), zapcore.Lock(os.Stderr))
}

// NewTo is New with an explicit level and sink.
func NewTo(service, level string, ws zapcore.WriteSyncer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %s: %w", LevelEnv, err)
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), ws, lvl)
	return zap.New(core, zap.AddCaller()).With(zap.String("service", service)), nil
}
