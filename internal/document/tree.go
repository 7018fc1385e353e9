package document

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Normalize converts v into the generic tree form used by documents:
// map[string]any, []any and scalars. Structs are converted through their
// yaml tags.
func Normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, int, int64, float64:
		return val, nil
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding %T: %w", v, err)
	}
	return out, nil
}

// FromValue normalizes v and requires the result to be a mapping.
func FromValue(v any) (map[string]any, error) {
	n, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return map[string]any{}, nil
	}
	m, ok := n.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a mapping, got %T", n)
	}
	return m, nil
}

// DeepCopy returns a copy of a generic tree that shares no maps or slices
// with the original.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, v := range val {
			m[k] = DeepCopy(v)
		}
		return m
	case []any:
		a := make([]any, len(val))
		for i, v := range val {
			a[i] = DeepCopy(v)
		}
		return a
	default:
		return val
	}
}

// Merge deep-merges src into dst. Maps merge key by key; any other value in
// src replaces the one in dst.
func Merge(dst, src map[string]any) {
	for k, sv := range src {
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := dst[k].(map[string]any); ok {
				Merge(dm, sm)
				continue
			}
		}
		dst[k] = DeepCopy(sv)
	}
}
