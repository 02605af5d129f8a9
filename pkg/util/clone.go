package util

import (
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DeepClone returns a copy of v that shares no mutable state with it.
//
// Generic decoded trees (maps, ordered maps, slices and scalars) are copied
// recursively. Any other value is cloned through a JSON round trip and comes
// back as a generic tree; values that cannot be marshaled are returned as is.
func DeepClone(v any) any {
	switch t := v.(type) {
	case nil, bool, string, float64, float32, int, int64, int32, uint, uint64, json.Number:
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = DeepClone(item)
		}
		return out
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			return t
		}
		out := orderedmap.New[string, any]()
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, DeepClone(pair.Value))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = DeepClone(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return t
		}
		var out any
		if err := json.Unmarshal(data, &out); err != nil {
			return t
		}
		return out
	}
}
