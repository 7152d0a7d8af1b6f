// Package jsonedit edits a single value inside a larger JSON document:
// a path addresses the value, Resolve reads it, Write puts an edited
// replacement back without disturbing the rest of the document, and
// Session drives the view/edit/save cycle against the surrounding
// application's document store and tree model.
package jsonedit

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse decodes text as a single JSON value. Objects decode to Object,
// preserving the key order of the input; numbers decode to json.Number.
// Anything after the first value is an error.
func Parse(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("jsonedit: failed to parse JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("jsonedit: trailing data after JSON value")
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		// string, json.Number, bool or nil
		return tok, nil
	}
	switch delim {
	case '{':
		obj := Object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, _ := keyTok.(string)
			val, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Member{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil { // consume '}'
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			val, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected %q", delim.String())
	}
}

// Marshal renders v as JSON text with 2-space indentation, keeping
// Object key order. Scalars outside the canonical value types (plain
// ints, floats) are accepted and encoded with encoding/json.
func Marshal(v any) (string, error) {
	var b strings.Builder
	if err := appendJSON(&b, v, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

const indentUnit = "  "

func appendJSON(b *strings.Builder, v any, depth int) error {
	switch t := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(t))
	case json.Number:
		b.WriteString(t.String())
	case string:
		enc, err := json.Marshal(t)
		if err != nil {
			return err
		}
		b.Write(enc)
	case []any:
		if len(t) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		for i, el := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
			writeIndent(b, depth+1)
			if err := appendJSON(b, el, depth+1); err != nil {
				return err
			}
		}
		b.WriteByte('\n')
		writeIndent(b, depth)
		b.WriteByte(']')
	case Object:
		if len(t) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		for i, m := range t {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
			writeIndent(b, depth+1)
			key, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			b.Write(key)
			b.WriteString(": ")
			if err := appendJSON(b, m.Value, depth+1); err != nil {
				return err
			}
		}
		b.WriteByte('\n')
		writeIndent(b, depth)
		b.WriteByte('}')
	default:
		enc, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("jsonedit: cannot marshal value of type %T: %w", v, err)
		}
		b.Write(enc)
	}
	return nil
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}
