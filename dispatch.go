package hevymcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// Dispatcher routes calls through lookup, validation and execution and
// normalizes the outcome. It holds no per-call state, so Dispatch may run
// concurrently without locking.
type Dispatcher struct {
	registry *Registry
	handlers map[string]HandlerFunc // wrapped with middlewares
	opts     dispatcherOptions
}

// NewDispatcher creates a Dispatcher over reg. Panic recovery is on by default.
func NewDispatcher(reg *Registry, opts ...Option) *Dispatcher {
	o := dispatcherOptions{
		logger:        slog.Default(),
		recoverPanics: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	handlers := make(map[string]HandlerFunc, reg.Len())
	for _, t := range reg.tools {
		handlers[t.name] = chain(t.name, t.handler, o.middlewares)
	}
	return &Dispatcher{registry: reg, handlers: handlers, opts: o}
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// ListTools returns the discovery form of every tool, in registration order.
func (d *Dispatcher) ListTools() []Descriptor {
	out := make([]Descriptor, 0, d.registry.Len())
	for _, t := range d.registry.tools {
		out = append(out, t.Descriptor())
	}
	return out
}

// Dispatch runs one call: look up the tool, validate the arguments, invoke the
// handler once, and wrap the result.
//
// Unknown tools, invalid arguments and remote rejections come back as a
// Response with Err set (a *ClientError) and a nil error. Transport failures,
// timeouts and handler panics come back as a *SystemError. The handler is never
// invoked on invalid input and a failed call is never retried.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (resp Response, err error) {
	summary := DispatchSummary{ToolName: call.Name, Stage: StageReceived}
	start := time.Now()
	defer func() {
		summary.Duration = time.Since(start)
		if err != nil {
			summary.Err = err
		} else {
			summary.Err = resp.Err
		}
		if d.opts.onAfter != nil {
			d.opts.onAfter(ctx, call, summary)
		}
	}()
	if d.opts.onBefore != nil {
		d.opts.onBefore(ctx, call)
	}

	tool, err := d.registry.Lookup(call.Name)
	if err != nil {
		d.opts.logger.WarnContext(ctx, "unknown tool", "tool", call.Name)
		return Response{Err: err}, nil
	}
	summary.Stage = StageLookedUp

	args, err := ValidateArgs(tool.args, call.Arguments)
	if err != nil {
		d.opts.logger.InfoContext(ctx, "invalid arguments", "tool", call.Name, "error", err)
		return Response{Err: invalidArgumentsError(err)}, nil
	}
	summary.Stage = StageValidated

	payload, err := d.invoke(ctx, tool, args)
	summary.Stage = StageExecuted
	if err != nil {
		return d.classify(ctx, tool, err)
	}
	summary.Stage = StageResponded
	return Response{Payload: normalizePayload(payload)}, nil
}

// invoke calls the handler once under the tool's timeout.
func (d *Dispatcher) invoke(ctx context.Context, tool *Tool, args map[string]any) (payload json.RawMessage, err error) {
	timeout := d.opts.timeout
	if tool.opts.timeout > 0 {
		timeout = tool.opts.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if d.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				payload = nil
				err = &SystemError{Err: &panicError{p: p}}
			}
		}()
	}
	return d.handlers[tool.name](ctx, args)
}

// classify splits handler failures into displayable results and system errors.
func (d *Dispatcher) classify(ctx context.Context, tool *Tool, err error) (Response, error) {
	if IsClientError(err) {
		return Response{Err: err}, nil
	}
	var se StatusError
	if errors.As(err, &se) {
		d.opts.logger.WarnContext(ctx, "remote rejected call", "tool", tool.name, "status", se.StatusCode())
		return Response{Err: remoteRejectedError(se)}, nil
	}
	d.opts.logger.ErrorContext(ctx, "tool call failed", "tool", tool.name, "error", err)
	var sys *SystemError
	if errors.As(err, &sys) {
		return Response{}, sys
	}
	return Response{}, &SystemError{Err: err}
}

// DecodeArguments parses the raw JSON arguments of a call. Empty input and
// null mean no arguments; anything other than a JSON object is invalid.
func DecodeArguments(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, invalidArgumentsError(&ValidationError{Issues: []Issue{{Reason: "json parse error: " + err.Error()}}})
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalidArgumentsError(&ValidationError{Issues: []Issue{typeIssue(nil, "object", v)}})
	}
	return m, nil
}

func normalizePayload(p json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(p)) == 0 {
		return json.RawMessage("null")
	}
	return p
}
