package jsonedit

import "encoding/json"

// Member is a single key/value entry of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that preserves the insertion order of its keys.
// A document value is one of: nil, bool, json.Number, string, []any, Object.
type Object []Member

// Get returns the value stored under key.
func (o Object) Get(key string) (any, bool) {
	for i := range o {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// set returns a copy of o with key bound to v, appended when absent.
// o itself is left untouched.
func (o Object) set(key string, v any) Object {
	out := make(Object, len(o), len(o)+1)
	copy(out, o)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = v
			return out
		}
	}
	return append(out, Member{Key: key, Value: v})
}

// DeepEqual reports whether two document values hold the same JSON data.
// Object key order does not affect equality; number literals are compared
// as written.
func DeepEqual(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case json.Number:
		bv, ok := b.(json.Number)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !DeepEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for _, m := range av {
			other, ok := bv.Get(m.Key)
			if !ok || !DeepEqual(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
