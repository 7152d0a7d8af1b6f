package jsonedit

import "fmt"

// Write returns a copy of doc with the value at path replaced by v. The
// input document is never modified: each container on the way down is
// shallow-copied before the targeted slot is set, so untouched branches
// are shared between the old and the new document.
//
// Missing intermediate containers are created: an array when the
// following segment is an Index, an object otherwise. A container of the
// wrong kind for its segment is replaced the same way. Arrays are padded
// with nulls when the index lies past the end.
//
// An empty path replaces the whole document with v. The only error is a
// negative index somewhere in path; doc is then returned untouched.
func Write(doc any, path Path, v any) (any, error) {
	if len(path) == 0 {
		return v, nil
	}
	for _, seg := range path {
		if i, ok := seg.(Index); ok && i < 0 {
			return doc, fmt.Errorf("jsonedit: negative array index in path %s", FormatPath(path))
		}
	}
	return writeAt(doc, path, v), nil
}

func writeAt(doc any, path Path, v any) any {
	if len(path) == 0 {
		return v
	}
	seg, rest := path[0], path[1:]
	switch s := seg.(type) {
	case Key:
		obj, ok := doc.(Object)
		if !ok {
			obj = Object{}
		}
		child, _ := obj.Get(string(s))
		return obj.set(string(s), writeAt(child, rest, v))
	case Index:
		arr, _ := doc.([]any)
		i := int(s)
		n := len(arr)
		if i+1 > n {
			n = i + 1
		}
		out := make([]any, n)
		copy(out, arr)
		var child any
		if i < len(arr) {
			child = arr[i]
		}
		out[i] = writeAt(child, rest, v)
		return out
	}
	return doc
}
