package httpapi

import "encoding/json"

// CallRequest is the body of POST /mcp/call.
type CallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is one content block of a call result.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult mirrors the MCP tool result shape.
type CallResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}
