// api/schemas/value.go
package schemas

import (
	"encoding/json"
	"fmt"
	"sort"
)

// SubValue is one positional entry of a composite value. The Key is the
// variant key from the source record (a size code, usually); Index is the
// zero-based UI row the value belongs to.
type SubValue struct {
	Key   string
	Index int
	Val   string
}

// Value is a product field that is either a single scalar string or a keyed
// collection of sub-values, one per repeated UI row. The zero Value is an
// empty scalar.
type Value struct {
	scalar    string
	subs      []SubValue
	composite bool
}

// Scalar builds a plain single-valued Value.
func Scalar(s string) Value {
	return Value{scalar: s}
}

// Composite builds a multi-valued Value from key/value pairs. Sub-values are
// ordered by ascending key so positional expansion is deterministic no matter
// how the source document ordered them.
func Composite(pairs map[string]string) Value {
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	subs := make([]SubValue, 0, len(keys))
	for i, k := range keys {
		subs = append(subs, SubValue{Key: k, Index: i, Val: pairs[k]})
	}
	return Value{subs: subs, composite: true}
}

// IsComposite reports whether the value expands to positional sub-values.
func (v Value) IsComposite() bool { return v.composite }

// IsZero reports whether the value carries no data at all.
func (v Value) IsZero() bool { return !v.composite && v.scalar == "" }

// Len is the cardinality: the number of UI rows the value needs. A scalar
// needs exactly one.
func (v Value) Len() int {
	if v.composite {
		return len(v.subs)
	}
	return 1
}

// Scalar returns the single value. It is only meaningful when IsComposite is
// false.
func (v Value) Scalar() string { return v.scalar }

// Subs returns the positional sub-values in ascending index order. For a
// scalar it returns a single entry at index 0, so callers can treat every
// value uniformly when walking rows.
func (v Value) Subs() []SubValue {
	if v.composite {
		out := make([]SubValue, len(v.subs))
		copy(out, v.subs)
		return out
	}
	return []SubValue{{Index: 0, Val: v.scalar}}
}

// At returns the value for row i. Scalars repeat on every row, which is what
// the copy-to-all bulk action on the vendor page assumes.
func (v Value) At(i int) string {
	if !v.composite {
		return v.scalar
	}
	if i < 0 || i >= len(v.subs) {
		return ""
	}
	return v.subs[i].Val
}

// UnmarshalJSON accepts either a JSON string/number (scalar) or an object of
// key -> value (composite).
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = Scalar(t)
	case float64:
		*v = Scalar(trimFloat(t))
	case map[string]interface{}:
		pairs := make(map[string]string, len(t))
		for k, entry := range t {
			switch ev := entry.(type) {
			case string:
				pairs[k] = ev
			case float64:
				pairs[k] = trimFloat(ev)
			default:
				return fmt.Errorf("composite entry %q has unsupported type %T", k, entry)
			}
		}
		*v = Composite(pairs)
	default:
		return fmt.Errorf("value must be a string, number or object, got %T", raw)
	}
	return nil
}

// MarshalJSON renders the value back in the shape it was read from.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.composite {
		return json.Marshal(v.scalar)
	}
	pairs := make(map[string]string, len(v.subs))
	for _, s := range v.subs {
		pairs[s.Key] = s.Val
	}
	return json.Marshal(pairs)
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
