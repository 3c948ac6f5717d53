package log

import (
	"context"
	"os"

	"go.uber.org/zap"
)

var logger *zap.Logger

func init() {
	if os.Getenv("DEBUG") == "true" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
}

func WithCtx(ctx context.Context) *zap.Logger {
	fields := []zap.Field{}

	if v := ctx.Value("contact_id"); v != nil {
		fields = append(fields, zap.Any("contact_id", v))
	}
	if v := ctx.Value("platform"); v != nil {
		fields = append(fields, zap.Any("platform", v))
	}

	return logger.With(fields...)
}

func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}

// SetLogger swaps the package logger and returns a restore func. Intended
// for tests that assert on emitted log entries.
func SetLogger(l *zap.Logger) func() {
	prev := logger
	logger = l
	return func() { logger = prev }
}
