// Package jsonmap holds the generic JSON object used wherever a document
// carries claims the engine does not interpret.
package jsonmap

import (
	"encoding/json"
	"fmt"
)

// JSONMap represents a JSON object as a map.
//
// Encoding is deterministic: encoding/json writes object keys in sorted order.
type JSONMap map[string]interface{}

// ToJSON serializes the JSONMap to JSON.
func (m JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	data, err := json.Marshal(map[string]interface{}(m))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy of m. Nested objects and arrays are copied too,
// so the result shares no mutable state with m. A nil map clones to nil.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// Without returns a shallow copy of m minus the given keys.
func (m JSONMap) Without(keys ...string) JSONMap {
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// GetString returns the string value stored under key. ok is false when the key
// is absent; an error is returned when it is present but not a string.
func (m JSONMap) GetString(key string) (value string, ok bool, err error) {
	raw, exists := m[key]
	if !exists {
		return "", false, nil
	}
	str, isString := raw.(string)
	if !isString {
		return "", true, fmt.Errorf("field %q must be a string, got %T", key, raw)
	}
	return str, true, nil
}

// RequireString returns the non-empty string stored under key.
func (m JSONMap) RequireString(key string) (string, error) {
	value, ok, err := m.GetString(key)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return "", fmt.Errorf("field %q is required", key)
	}
	return value, nil
}

// FromValue converts a decoded JSON value into a JSONMap when it is an object.
func FromValue(v interface{}) (JSONMap, bool) {
	switch obj := v.(type) {
	case JSONMap:
		return obj, true
	case map[string]interface{}:
		return JSONMap(obj), true
	default:
		return nil, false
	}
}

func cloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case JSONMap:
		return val.Clone()
	case map[string]interface{}:
		return map[string]interface{}(JSONMap(val).Clone())
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	default:
		return val
	}
}
