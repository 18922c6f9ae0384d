package hevy

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// APIError is a non-success response from the Hevy API. It carries the raw
// body so callers can show exactly what the API said.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hevy %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message())
}

// StatusCode returns the HTTP status code.
func (e *APIError) StatusCode() int { return e.Status }

// ResponseBody returns the raw response body.
func (e *APIError) ResponseBody() []byte { return e.Body }

// Message returns the API's error text: the "error" or "message" member of a
// JSON body, or the whole body otherwise.
func (e *APIError) Message() string {
	if gjson.ValidBytes(e.Body) {
		for _, key := range []string{"error", "message"} {
			if r := gjson.GetBytes(e.Body, key); r.Exists() && r.Type == gjson.String {
				return r.String()
			}
		}
	}
	if len(e.Body) == 0 {
		return "empty response"
	}
	return string(e.Body)
}
