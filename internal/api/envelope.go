package api

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/cookie/internal/domain"
	"github.com/tidwall/gjson"
)

// The API wraps payloads as {"response": ...}. Some listings add ad hoc
// fields next to or inside it (last, totalPages, totalReviewPages), so the
// envelope is read with gjson paths instead of fixed structs.

// parseEnvelope validates a body and returns its root
func parseEnvelope(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: body is not JSON", domain.ErrMalformedResponse)
	}
	return gjson.ParseBytes(body), nil
}

// firstArray returns the first path that holds an array
func firstArray(root gjson.Result, paths ...string) (gjson.Result, bool) {
	for _, p := range paths {
		if r := root.Get(p); r.IsArray() {
			return r, true
		}
	}
	return gjson.Result{}, false
}

// listPayload returns the first array among paths. An explicit null
// response is an empty list; any other shape is malformed.
func listPayload(root gjson.Result, what string, paths ...string) (gjson.Result, error) {
	if arr, ok := firstArray(root, paths...); ok {
		return arr, nil
	}
	if r := root.Get("response"); r.Exists() && r.Type == gjson.Null {
		return gjson.Parse("[]"), nil
	}
	return gjson.Result{}, fmt.Errorf("%w: %s has no list", domain.ErrMalformedResponse, what)
}

// firstBool returns the first path that holds a boolean
func firstBool(root gjson.Result, paths ...string) bool {
	for _, p := range paths {
		if r := root.Get(p); r.Type == gjson.True || r.Type == gjson.False {
			return r.Bool()
		}
	}
	return false
}

// firstInt returns the first path that holds a number
func firstInt(root gjson.Result, paths ...string) int {
	for _, p := range paths {
		if r := root.Get(p); r.Type == gjson.Number {
			return int(r.Int())
		}
	}
	return 0
}

// firstString returns the first path that holds a string
func firstString(root gjson.Result, paths ...string) string {
	for _, p := range paths {
		if r := root.Get(p); r.Type == gjson.String {
			return r.Str
		}
	}
	return ""
}

// decodeList unmarshals every element of an array result
func decodeList[T any](arr gjson.Result) ([]T, error) {
	elems := arr.Array()
	out := make([]T, 0, len(elems))
	for i, el := range elems {
		var v T
		if err := json.Unmarshal([]byte(el.Raw), &v); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", domain.ErrMalformedResponse, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// decodeObject unmarshals the object at path
func decodeObject[T any](root gjson.Result, path string) (*T, error) {
	r := root.Get(path)
	if !r.IsObject() {
		return nil, fmt.Errorf("%w: %s is not an object", domain.ErrMalformedResponse, path)
	}
	var v T
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedResponse, path, err)
	}
	return &v, nil
}
