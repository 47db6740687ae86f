// Package envelope normalizes the backend's inconsistent response wrappers.
//
// One logical endpoint may answer with a bare array, {"data": [...]}, or a
// field named after the resource ({"packages": [...]}). Callers decode through
// List and One instead of special-casing each call site.
package envelope

import (
	"bytes"
	"encoding/json"
)

type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeArray         // [...]
	ShapeData          // {"data": [...]}
	ShapeKeyed         // {"<key>": [...]}
	ShapeObject        // {...} with no recognised array inside
)

func (s Shape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeData:
		return "data"
	case ShapeKeyed:
		return "keyed"
	case ShapeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Detect classifies raw and returns the array payload for the list shapes.
// The check order is fixed: bare array, data array, key array, object.
func Detect(raw json.RawMessage, key string) (Shape, json.RawMessage) {
	switch firstByte(raw) {
	case '[':
		return ShapeArray, raw
	case '{':
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return ShapeUnknown, nil
		}
		if v, ok := fields["data"]; ok && firstByte(v) == '[' {
			return ShapeData, v
		}
		if key != "" {
			if v, ok := fields[key]; ok && firstByte(v) == '[' {
				return ShapeKeyed, v
			}
		}
		return ShapeObject, nil
	default:
		return ShapeUnknown, nil
	}
}

// List decodes the list payload of raw. It never returns nil and drops
// elements that do not decode into T.
func List[T any](raw json.RawMessage, key string) []T {
	shape, arr := Detect(raw, key)
	if shape != ShapeArray && shape != ShapeData && shape != ShapeKeyed {
		return []T{}
	}
	return decodeElements[T](arr)
}

// One decodes a single entity. It tries, in order: a data object, a key
// object, the first element of any list shape, and finally a bare object
// that carries an "id" field. Anything else yields nil.
func One[T any](raw json.RawMessage, key string) *T {
	switch firstByte(raw) {
	case '[':
		return first[T](raw)
	case '{':
	default:
		return nil
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}

	for _, k := range []string{"data", key} {
		if k == "" {
			continue
		}
		v, ok := fields[k]
		if !ok {
			continue
		}
		switch firstByte(v) {
		case '{':
			if out, ok := decode[T](v); ok {
				return out
			}
		case '[':
			if out := first[T](v); out != nil {
				return out
			}
		}
	}

	if _, ok := fields["id"]; ok {
		if out, ok := decode[T](raw); ok {
			return out
		}
	}
	return nil
}

// Outcome reads the {"success": bool, "message": string} status wrapper.
// A body without a success field counts as successful.
func Outcome(raw json.RawMessage) (bool, string) {
	var w struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if firstByte(raw) != '{' || json.Unmarshal(raw, &w) != nil {
		return true, ""
	}
	msg := w.Message
	if msg == "" {
		msg = w.Error
	}
	if w.Success == nil {
		return true, msg
	}
	return *w.Success, msg
}

func decodeElements[T any](arr json.RawMessage) []T {
	var elems []json.RawMessage
	if err := json.Unmarshal(arr, &elems); err != nil {
		return []T{}
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func first[T any](arr json.RawMessage) *T {
	items := decodeElements[T](arr)
	if len(items) == 0 {
		return nil
	}
	return &items[0]
}

func decode[T any](raw json.RawMessage) (*T, bool) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false
	}
	return &v, true
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
