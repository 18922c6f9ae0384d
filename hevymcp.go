package hevymcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/invopop/jsonschema"
)

// HandlerFunc performs the outbound action of a tool with already validated
// arguments (defaults applied, unknown keys dropped) and returns the payload.
type HandlerFunc func(ctx context.Context, args map[string]any) (json.RawMessage, error)

// Call is a single incoming tool call. It is consumed once by Dispatch.
type Call struct {
	Name      string
	Arguments map[string]any
}

// Response is the outcome of a call: exactly one of Payload and Err is set.
// Err is always a *ClientError (displayable to the caller).
type Response struct {
	Payload json.RawMessage
	Err     error
}

// IsError reports whether the response carries a displayable error.
func (r Response) IsError() bool { return r.Err != nil }

// Text returns the payload, or the error message for error responses.
func (r Response) Text() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return string(r.Payload)
}

// Descriptor is the discovery form of a registered tool.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
	ReadOnly    bool               `json:"-"`
	Dangerous   bool               `json:"-"`
}

// Stage is the last step a call reached in Dispatch.
type Stage uint8

const (
	StageReceived Stage = iota
	StageLookedUp
	StageValidated
	StageExecuted
	StageResponded
)

var stageNames = [...]string{"received", "looked-up", "validated", "executed", "responded"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

// DispatchSummary is passed to the after-dispatch hook (WithOnAfterDispatch)
// when a call finishes. Stage is StageResponded on success; on failure it is
// the last stage completed before the failure. Err is the displayable error or
// the system error.
type DispatchSummary struct {
	ToolName string
	Stage    Stage
	Err      error
	Duration time.Duration
}
