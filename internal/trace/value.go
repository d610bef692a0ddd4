package trace

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the types a trace may contain.
type Value interface {
	traceValue()
}

// String is a string value.
type String string

func (String) traceValue() {}

// Int is an integer value.
type Int int64

func (Int) traceValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) traceValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) traceValue() {}

// Object maps keys to values. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) traceValue() {}

// Strings converts a string slice to an Array.
func Strings(ss []string) Array {
	out := make(Array, len(ss))
	for i, s := range ss {
		out[i] = String(s)
	}
	return out
}

// SortedKeys returns keys ordered by UTF-16 code units, which differs from
// Go's byte order for characters outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func compareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// toValue converts plain Go values to trace values.
func toValue(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, errNull
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case bool:
		return Bool(val), nil
	case []string:
		return Strings(val), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			e, err := toValue(elem)
			if err != nil {
				return nil, wrapIndex(i, err)
			}
			arr[i] = e
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			e, err := toValue(elem)
			if err != nil {
				return nil, wrapKey(k, err)
			}
			obj[k] = e
		}
		return obj, nil
	case float32, float64:
		return nil, errFloat(val)
	default:
		return nil, errUnsupported(v)
	}
}
