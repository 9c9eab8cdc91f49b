package command

import (
	"fmt"
	"strings"
)

// Values maps argument names to bound values in insertion order.
// A Values belongs to a single dispatch call.
type Values struct {
	keys []string
	m    map[string]any
}

// NewValues creates an empty mapping.
func NewValues() *Values {
	return &Values{m: make(map[string]any)}
}

// Set binds name to v. Rebinding keeps the original position.
func (v *Values) Set(name string, value any) {
	if _, ok := v.m[name]; !ok {
		v.keys = append(v.keys, name)
	}
	v.m[name] = value
}

// Get returns the value bound to name.
func (v *Values) Get(name string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.m[name]
	return val, ok
}

// Has reports whether name is bound.
func (v *Values) Has(name string) bool {
	_, ok := v.Get(name)
	return ok
}

// Keys returns the bound names in insertion order.
func (v *Values) Keys() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.keys...)
}

// Len returns the number of bound values.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// Each calls fn for each binding in order.
func (v *Values) Each(fn func(name string, value any)) {
	if v == nil {
		return
	}
	for _, k := range v.keys {
		fn(k, v.m[k])
	}
}

// Clone returns an independent copy that keeps insertion order.
func (v *Values) Clone() *Values {
	out := NewValues()
	v.Each(out.Set)
	return out
}

// Map returns an unordered copy.
func (v *Values) Map() map[string]any {
	out := make(map[string]any, v.Len())
	v.Each(func(name string, value any) {
		out[name] = value
	})
	return out
}

// String renders the mapping as {a: 1, b: x}.
func (v *Values) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	i := 0
	v.Each(func(name string, value any) {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", name, value)
		i++
	})
	sb.WriteByte('}')
	return sb.String()
}

// Get returns the value bound to name as T.
func Get[T any](v *Values, name string) (T, bool) {
	var zero T
	raw, ok := v.Get(name)
	if !ok {
		return zero, false
	}
	t, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
