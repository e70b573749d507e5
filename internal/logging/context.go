package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey int

const loggerKey contextKey = iota

// WithLogger returns a copy of ctx carrying logger. A nil logger stores the
// default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithComponent returns a copy of ctx whose logger tags every event with
// component.
func WithComponent(ctx context.Context, component string) context.Context {
	l := FromContext(ctx).With().Str("component", component).Logger()
	return WithLogger(ctx, &l)
}
