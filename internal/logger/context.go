package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type contextKey string

const loggerKey contextKey = "logger"

// EchoKey is the echo.Context key holding the request logger.
const EchoKey = "logger"

// FromContext retrieves the logger from the context, falling back to the global one.
func FromContext(ctx context.Context) *zap.Logger {
	log, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return zap.L()
	}
	return log
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromEcho retrieves the logger from the Echo context, falling back to the global one.
func FromEcho(c echo.Context) *zap.Logger {
	log, ok := c.Get(EchoKey).(*zap.Logger)
	if !ok {
		return zap.L()
	}
	return log
}
