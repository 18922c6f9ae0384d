package hevymcp

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for the four failure kinds of a call. Use errors.Is to check.
var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrRemoteRejected   = errors.New("remote rejected")
	ErrTransport        = errors.New("transport failure")
)

// ClientError is a failure reported back to the caller as a displayable error
// result: an unknown tool, invalid arguments, or a rejection by the remote API.
// The server keeps serving after it.
// Err wraps the cause (ErrUnknownTool, *ValidationError, *RemoteError) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	Err    error
}

func (e *ClientError) Error() string { return e.Reason }

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrInvalidArguments)).
func (e *ClientError) Unwrap() error { return e.Err }

// SystemError is a failure of the call itself: no response reached back from
// the remote API, a timeout expired, or a handler panicked. It is surfaced as a
// call-level error and never retried.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	if e.Err == nil {
		return "tool execution failed"
	}
	return "tool execution failed: " + e.Err.Error()
}

func (e *SystemError) Unwrap() error { return e.Err }

// Is makes every SystemError match ErrTransport.
func (e *SystemError) Is(target error) bool { return target == ErrTransport }

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// ValidationError lists every problem found while validating one value.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	data, err := json.Marshal(e.Issues)
	if err != nil {
		return "Invalid arguments"
	}
	return "Invalid arguments: " + string(data)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidArguments }

// Issue returns the first issue whose dotted path equals field.
func (e *ValidationError) Issue(field string) (Issue, bool) {
	for _, is := range e.Issues {
		if joinPath(is.Path) == field {
			return is, true
		}
	}
	return Issue{}, false
}

// StatusError is implemented by API client errors that carry a non-success
// HTTP response. The Dispatcher turns any error implementing it into a RemoteError.
type StatusError interface {
	error
	StatusCode() int
	ResponseBody() []byte
}

// RemoteError is a non-success response from the remote API.
type RemoteError struct {
	Status int
	Body   []byte
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("API Error: %d - %s", e.Status, e.Body)
}

// Is makes every RemoteError match ErrRemoteRejected.
func (e *RemoteError) Is(target error) bool { return target == ErrRemoteRejected }

func unknownToolError(name string) error {
	return &ClientError{Reason: "Unknown tool: " + name, Err: ErrUnknownTool}
}

func invalidArgumentsError(err error) error {
	return &ClientError{Reason: err.Error(), Err: err}
}

func remoteRejectedError(se StatusError) error {
	re := &RemoteError{Status: se.StatusCode(), Body: se.ResponseBody()}
	return &ClientError{Reason: re.Error(), Err: re}
}

// panicError wraps a recovered panic value for SystemError.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
