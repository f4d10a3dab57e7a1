package logger

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	echoKey              = "logger"
)

// FromContext retrieves the logger from the context.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		return L()
	}
	return l
}

// WithContext adds the logger to the context.
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromEcho retrieves the logger from the Echo context.
func FromEcho(c echo.Context) *zap.Logger {
	l, ok := c.Get(echoKey).(*zap.Logger)
	if !ok {
		return L()
	}
	return l
}
