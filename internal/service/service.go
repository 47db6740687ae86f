// Package service maps each backend resource family onto typed calls.
//
// Reads never fail the caller: lists degrade to an empty slice and single
// lookups to nil, with the cause logged. Operations the UI has to branch on
// (order creation, status, payment initiation) return a Result instead.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/backend"
	"github.com/BouramaNG/designfrontwaw-sub001/internal/envelope"
)

// Requester is the slice of the backend client the services depend on.
type Requester interface {
	Get(ctx context.Context, path string, opts ...backend.RequestOption) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any, opts ...backend.RequestOption) (json.RawMessage, error)
}

var _ Requester = (*backend.Client)(nil)

// Result carries a decision outcome to the view layer.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

func ok[T any](data *T, msg string) Result[T] {
	return Result[T]{Success: true, Message: msg, Data: data}
}

func fail[T any](msg string) Result[T] {
	return Result[T]{Success: false, Message: msg}
}

// failureMessage prefers the backend's own wording and falls back to def.
func failureMessage(err error, def string) string {
	var httpErr *backend.HTTPError
	if errors.As(err, &httpErr) {
		if msg := httpErr.Message(); msg != "" {
			return msg
		}
		if httpErr.Status == http.StatusNotFound {
			return "Not found"
		}
	}
	var timeoutErr *backend.TimeoutError
	if errors.As(err, &timeoutErr) {
		return "The service took too long to respond, please try again"
	}
	return def
}

// single is envelope.One with a last resort of decoding the whole object,
// for payloads that carry no id of their own.
func single[T any](raw json.RawMessage, key string) *T {
	if v := envelope.One[T](raw, key); v != nil {
		return v
	}
	if shape, _ := envelope.Detect(raw, key); shape != envelope.ShapeObject {
		return nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
