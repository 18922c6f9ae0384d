// Package testutil provides test helpers for hevy-mcp (e.g. FakeAPI).
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
)

// Request is one request recorded by FakeAPI.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   json.RawMessage
}

// Reply is a scripted FakeAPI response. Err takes precedence over Payload.
type Reply struct {
	Payload json.RawMessage
	Err     error
}

// FakeAPI is an in-memory Hevy API that records every request and answers
// with scripted replies keyed by "METHOD /path". Unscripted requests get
// Default, or {"ok":true} when Default is unset. Safe for concurrent use.
type FakeAPI struct {
	Default Reply

	mu       sync.Mutex
	replies  map[string]Reply
	requests []Request
}

// NewFakeAPI returns an empty FakeAPI.
func NewFakeAPI() *FakeAPI {
	return &FakeAPI{replies: make(map[string]Reply)}
}

// On scripts the reply for method and path.
func (f *FakeAPI) On(method, path string, reply Reply) *FakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replies == nil {
		f.replies = make(map[string]Reply)
	}
	f.replies[method+" "+path] = reply
	return f
}

// Requests returns a copy of the recorded requests in arrival order.
func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Last returns the most recent request.
func (f *FakeAPI) Last() (Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return Request{}, false
	}
	return f.requests[len(f.requests)-1], true
}

func (f *FakeAPI) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return f.record(ctx, Request{Method: "GET", Path: path, Query: query})
}

func (f *FakeAPI) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return f.recordBody(ctx, "POST", path, body)
}

func (f *FakeAPI) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return f.recordBody(ctx, "PUT", path, body)
}

func (f *FakeAPI) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return f.record(ctx, Request{Method: "DELETE", Path: path})
}

func (f *FakeAPI) recordBody(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("fake api: encode body: %w", err)
	}
	return f.record(ctx, Request{Method: method, Path: path, Body: data})
}

func (f *FakeAPI) record(ctx context.Context, req Request) (json.RawMessage, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	reply, ok := f.replies[req.Method+" "+req.Path]
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		reply = f.Default
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	if reply.Payload == nil {
		return json.RawMessage(`{"ok":true}`), nil
	}
	return reply.Payload, nil
}

// StatusError is a scripted non-success API response.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}

func (e *StatusError) StatusCode() int      { return e.Code }
func (e *StatusError) ResponseBody() []byte { return e.Body }
