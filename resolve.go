package jsonedit

// Resolve walks path from the root of doc and returns the value it
// addresses. The second result is false when the path does not exist in
// doc; a present null resolves to (nil, true). A segment applied to a
// value of the wrong kind (a Key into an array, an Index into an object
// or a scalar) counts as not found rather than an error.
func Resolve(doc any, path Path) (any, bool) {
	cur := doc
	for _, seg := range path {
		switch s := seg.(type) {
		case Key:
			obj, ok := cur.(Object)
			if !ok {
				return nil, false
			}
			v, ok := obj.Get(string(s))
			if !ok {
				return nil, false
			}
			cur = v
		case Index:
			arr, ok := cur.([]any)
			if !ok {
				return nil, false
			}
			i := int(s)
			if i < 0 || i >= len(arr) {
				return nil, false
			}
			cur = arr[i]
		default:
			return nil, false
		}
	}
	return cur, true
}
