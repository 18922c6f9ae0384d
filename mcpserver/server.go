// Package mcpserver exposes a Dispatcher as an MCP server (list tools and call
// tool) using the official MCP Go SDK.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	hevymcp "github.com/jamoski3112/hevy-mcp"
)

// Server identity reported during initialization.
const (
	Name    = "hevy-mcp-server"
	Version = "1.0.0"
)

// Options configure New.
type Options struct {
	Name    string       // defaults to Name
	Version string       // defaults to Version
	Logger  *slog.Logger // used by Run
}

// New returns an MCP server advertising every tool of d. Call results map to
// text content: payloads and displayable errors (IsError set) are returned as
// tool results; system errors are returned as protocol errors.
func New(d *hevymcp.Dispatcher, opts *Options) (*mcp.Server, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Name == "" {
		o.Name = Name
	}
	if o.Version == "" {
		o.Version = Version
	}
	server := mcp.NewServer(&mcp.Implementation{Name: o.Name, Version: o.Version}, nil)
	for _, desc := range d.ListTools() {
		tool, err := toMCPTool(desc)
		if err != nil {
			return nil, err
		}
		server.AddTool(tool, callHandler(d, desc.Name))
	}
	server.AddReceivingMiddleware(unknownToolMiddleware(d))
	return server, nil
}

// Run serves d over transport until the client disconnects or ctx is done.
func Run(ctx context.Context, d *hevymcp.Dispatcher, transport mcp.Transport, opts *Options) error {
	server, err := New(d, opts)
	if err != nil {
		return err
	}
	logger := slog.Default()
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	logger.InfoContext(ctx, "mcp server running", "tools", len(d.ListTools()))
	err = server.Run(ctx, transport)
	logger.InfoContext(ctx, "mcp server stopped", "error", err)
	return err
}

func toMCPTool(desc hevymcp.Descriptor) (*mcp.Tool, error) {
	schema, err := json.Marshal(desc.InputSchema)
	if err != nil {
		return nil, fmt.Errorf("tool %q: encode input schema: %w", desc.Name, err)
	}
	annotations := &mcp.ToolAnnotations{ReadOnlyHint: desc.ReadOnly}
	if !desc.ReadOnly {
		destructive := desc.Dangerous
		annotations.DestructiveHint = &destructive
	}
	return &mcp.Tool{
		Name:        desc.Name,
		Description: desc.Description,
		InputSchema: json.RawMessage(schema),
		Annotations: annotations,
	}, nil
}

func callHandler(d *hevymcp.Dispatcher, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if req.Params != nil {
			raw = req.Params.Arguments
		}
		args, err := hevymcp.DecodeArguments(raw)
		if err != nil {
			return errorResult(err), nil
		}
		resp, err := d.Dispatch(ctx, hevymcp.Call{Name: name, Arguments: args})
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return errorResult(resp.Err), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(resp.Payload)}},
		}, nil
	}
}

// unknownToolMiddleware answers calls to unregistered tools with an error
// result instead of a protocol error, like any other displayable failure.
func unknownToolMiddleware(d *hevymcp.Dispatcher) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			call, ok := req.(*mcp.CallToolRequest)
			if method != "tools/call" || !ok || call.Params == nil {
				return next(ctx, method, req)
			}
			if _, err := d.Registry().Lookup(call.Params.Name); err == nil {
				return next(ctx, method, req)
			}
			resp, err := d.Dispatch(ctx, hevymcp.Call{Name: call.Params.Name})
			if err != nil {
				return nil, err
			}
			return errorResult(resp.Err), nil
		}
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
