package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// NetworkError means no HTTP response reached the client.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a non-2xx response. Body keeps the raw payload for callers
// that want the backend's own message.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   json.RawMessage
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// Message returns the backend's "message" field when the body carries one.
func (e *HTTPError) Message() string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

type TimeoutError struct {
	Method  string
	Path    string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("backend %s %s: timed out after %s", e.Method, e.Path, e.Timeout)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
