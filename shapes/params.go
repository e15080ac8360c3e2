package shapes

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Params is the generic parameter bag passed to a shape factory. Concrete
// factories type-assert or decode the fields they expect and apply their own
// defaults for missing ones.
type Params map[string]any

// Key identifies a cached shape invocation: the registered name plus the
// canonicalized parameter tuple. Canonicalization sorts map keys, flattens
// nested slices/arrays, and renders everything to a stable string so that
// structurally-equal params (regardless of map iteration order) produce the
// same Key.
type Key struct {
	Name  string
	Canon string
}

// NewKey canonicalizes params under name.
func NewKey(name string, params Params) Key {
	return Key{Name: name, Canon: canonicalize(params)}
}

func canonicalize(params Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(canonValue(params[k]))
	}
	sb.WriteByte('}')
	return sb.String()
}

// canonValue recursively renders a parameter value to a deterministic
// string: maps get their keys sorted, slices/arrays are flattened in order.
// This mirrors the source's make_hashable(): sort dict items, tuple-ify
// sequences.
func canonValue(v any) string {
	if v == nil {
		return "nil"
	}
	switch x := v.(type) {
	case map[string]any:
		return canonicalize(Params(x))
	case string:
		return fmt.Sprintf("%q", x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		var sb strings.Builder
		sb.WriteByte('(')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(canonValue(rv.Index(i).Interface()))
		}
		sb.WriteByte(')')
		return sb.String()
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprintf("%v", iter.Key().Interface())] = iter.Value().Interface()
		}
		return canonicalize(Params(m))
	default:
		return fmt.Sprintf("%v", v)
	}
}
