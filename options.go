package hevymcp

import (
	"context"
	"log/slog"
	"time"
)

// toolOptions hold optional tool settings (timeout, tags, hints).
type toolOptions struct {
	timeout   time.Duration
	tags      []string
	readOnly  bool
	dangerous bool
}

// ToolOption configures a tool (e.g. WithTimeout, WithReadOnly).
type ToolOption func(*toolOptions)

// WithTimeout sets a per-tool bound on the outbound call, overriding the dispatcher default.
func WithTimeout(d time.Duration) ToolOption {
	return func(o *toolOptions) {
		o.timeout = d
	}
}

// WithTags sets tool tags (metadata for discovery).
func WithTags(tags ...string) ToolOption {
	return func(o *toolOptions) {
		o.tags = tags
	}
}

// WithReadOnly marks the tool as free of side effects on the remote API.
func WithReadOnly() ToolOption {
	return func(o *toolOptions) {
		o.readOnly = true
	}
}

// WithDangerous marks the tool as destructive (e.g. deletes).
func WithDangerous() ToolOption {
	return func(o *toolOptions) {
		o.dangerous = true
	}
}

// Option configures a Dispatcher.
type Option func(*dispatcherOptions)

type dispatcherOptions struct {
	logger        *slog.Logger
	timeout       time.Duration
	recoverPanics bool
	middlewares   []Middleware
	onBefore      func(context.Context, Call)
	onAfter       func(context.Context, Call, DispatchSummary)
}

// WithLogger sets the logger for dispatch failures. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *dispatcherOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDefaultTimeout bounds every handler invocation; expiry is a transport failure.
// Zero or negative disables the bound.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *dispatcherOptions) {
		o.timeout = d
	}
}

// WithRecoverPanics enables panic recovery in Dispatch (returns SystemError).
func WithRecoverPanics(enable bool) Option {
	return func(o *dispatcherOptions) {
		o.recoverPanics = enable
	}
}

// WithMiddleware wraps every handler; the first middleware is outermost.
func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *dispatcherOptions) {
		o.middlewares = append(o.middlewares, middlewares...)
	}
}

// WithOnBeforeDispatch sets a hook called when a call is received.
func WithOnBeforeDispatch(fn func(context.Context, Call)) Option {
	return func(o *dispatcherOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterDispatch sets a hook called after each call, successful or not.
func WithOnAfterDispatch(fn func(context.Context, Call, DispatchSummary)) Option {
	return func(o *dispatcherOptions) {
		o.onAfter = fn
	}
}
