package hevymcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Middleware wraps the handler of the named tool with cross-cutting behavior.
type Middleware func(name string, next HandlerFunc) HandlerFunc

// WithLogging returns a middleware that logs start, end, duration, and errors.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(name string, next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, args map[string]any) (json.RawMessage, error) {
			logger.InfoContext(ctx, "tool start", "tool", name)
			start := time.Now()
			res, err := next(ctx, args)
			dur := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "tool error", "tool", name, "duration", dur, "error", err)
				return nil, err
			}
			logger.InfoContext(ctx, "tool end", "tool", name, "duration", dur, "bytes", len(res))
			return res, nil
		}
	}
}

// chain applies middlewares in onion order: the first one is outermost.
func chain(name string, h HandlerFunc, middlewares []Middleware) HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](name, h)
	}
	return h
}
