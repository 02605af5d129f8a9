package topology

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	errs "github.com/fadel-segaf-developer/Topology-Visualizer/pkg/errors"
	"github.com/fadel-segaf-developer/Topology-Visualizer/pkg/util"
)

// =============================================================================
// Decoding
// =============================================================================

// Decode parses a JSON document into a generic tree. Objects decode to
// ordered maps so that metric mappings and intent tables keep their input
// order; numbers decode to json.Number.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidJSON, err, "decode topology")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errs.New(errs.ErrCodeInvalidJSON, "decode topology: unexpected data after document")
	}
	return v, nil
}

// maxYAMLValues caps how many values a YAML document may expand to once
// aliases are resolved.
const maxYAMLValues = 1 << 20

// DecodeYAML parses a YAML document into the same generic tree as Decode.
// Documents that expand aliases excessively are rejected with
// INVALID_FORMAT.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml topology")
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	// Decoding through yaml applies its own alias expansion limits.
	var plain any
	if err := doc.Decode(&plain); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml topology")
	}
	d := &yamlDecoder{budget: maxYAMLValues}
	v, err := d.decode(&doc)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode yaml topology")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		obj := orderedmap.New[string, any]()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T, not string", kt)
			}
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", delim)
}

// yamlDecoder converts a yaml node tree into ordered maps and slices,
// resolving aliases until its value budget runs out.
type yamlDecoder struct {
	budget int
}

func (d *yamlDecoder) decode(n *yaml.Node) (any, error) {
	if d.budget--; d.budget < 0 {
		return nil, fmt.Errorf("document expands to more than %d values", maxYAMLValues)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.decode(n.Content[0])
	case yaml.AliasNode:
		return d.decode(n.Alias)
	case yaml.MappingNode:
		obj := orderedmap.New[string, any]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := d.decode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.decode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// =============================================================================
// Generic Tree Accessors
// =============================================================================

// object is a read-only view over either map flavour found in a decoded
// tree. Plain maps iterate in sorted key order.
type object struct {
	ordered *orderedmap.OrderedMap[string, any]
	plain   map[string]any
}

func asObject(v any) (object, bool) {
	switch t := v.(type) {
	case *orderedmap.OrderedMap[string, any]:
		if t == nil {
			return object{}, false
		}
		return object{ordered: t}, true
	case map[string]any:
		if t == nil {
			return object{}, false
		}
		return object{plain: t}, true
	}
	return object{}, false
}

func (o object) get(key string) any {
	if o.ordered != nil {
		v, _ := o.ordered.Get(key)
		return v
	}
	return o.plain[key]
}

func (o object) has(key string) bool {
	if o.ordered != nil {
		_, ok := o.ordered.Get(key)
		return ok
	}
	_, ok := o.plain[key]
	return ok
}

func (o object) keys() []string {
	if o.ordered != nil {
		keys := make([]string, 0, o.ordered.Len())
		for pair := o.ordered.Oldest(); pair != nil; pair = pair.Next() {
			keys = append(keys, pair.Key)
		}
		return keys
	}
	keys := make([]string, 0, len(o.plain))
	for k := range o.plain {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// extra returns the fields of o not named in known.
func (o object) extra(known map[string]bool) Extra {
	var out Extra
	for _, k := range o.keys() {
		if known[k] {
			continue
		}
		if out == nil {
			out = orderedmap.New[string, any]()
		}
		out.Set(k, util.DeepClone(o.get(k)))
	}
	return out
}

func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// str returns v as a string. Numbers are formatted; other values yield "".
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

// num returns v as a finite number.
func num(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func boolean(v any) bool {
	b, _ := v.(bool)
	return b
}

// truthy mirrors the loose presence checks documents rely on: null, false,
// "" and 0 count as absent.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	}
	if f, ok := num(v); ok {
		return f != 0
	}
	return true
}

// uniqueStrings keeps the first occurrence of each non-blank string item.
func uniqueStrings(v any, trim bool) []string {
	items, _ := asArray(v)
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			continue
		}
		if trim {
			s = strings.TrimSpace(s)
		}
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// toTree converts an arbitrary Go value into a decoded tree.
func toTree(v any) (any, error) {
	switch v.(type) {
	case nil, *orderedmap.OrderedMap[string, any], map[string]any, []any:
		return v, nil
	case []byte:
		return Decode(v.([]byte))
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Lookup returns the value stored under key when v is a decoded object,
// such as a link, a work item or an insight source.
func Lookup(v any, key string) any {
	o, ok := asObject(v)
	if !ok {
		return nil
	}
	return o.get(key)
}

// Text formats a scalar from a decoded tree. Non-scalar values yield "".
func Text(v any) string {
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return str(v)
}

// Number returns v as a finite number.
func Number(v any) (float64, bool) {
	return num(v)
}
