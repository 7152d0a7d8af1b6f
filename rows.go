package jsonedit

// RowType tags the kind of value a Row carries.
type RowType string

const (
	RowString  RowType = "string"
	RowNumber  RowType = "number"
	RowBoolean RowType = "boolean"
	RowNull    RowType = "null"
	RowArray   RowType = "array"
	RowObject  RowType = "object"
)

// IsContainer reports whether the row stands in for a nested array or
// object rather than carrying a scalar value.
func (t RowType) IsContainer() bool {
	return t == RowArray || t == RowObject
}

// Row is one immediate child of a tree node, as supplied by the
// surrounding application's tree model. Key is nil for array elements
// and for a node that is itself a bare scalar.
type Row struct {
	Key   *string
	Value any
	Type  RowType
}

// NormalizeRows converts a node's flattened child rows back into JSON
// text. A single unkeyed row renders its value bare. Otherwise the keyed
// scalar rows form an object in row order; container placeholder rows
// and unkeyed rows are skipped, since nested containers appear as their
// own nodes in the tree rather than inline.
func NormalizeRows(rows []Row) string {
	if len(rows) == 0 {
		return "{}"
	}
	if len(rows) == 1 && rows[0].Key == nil {
		return marshalOrNull(rows[0].Value)
	}
	obj := Object{}
	for _, r := range rows {
		if r.Key == nil || r.Type.IsContainer() {
			continue
		}
		obj = append(obj, Member{Key: *r.Key, Value: r.Value})
	}
	return marshalOrNull(obj)
}

func marshalOrNull(v any) string {
	text, err := Marshal(v)
	if err != nil {
		return "null"
	}
	return text
}
