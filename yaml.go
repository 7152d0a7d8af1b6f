package jsonedit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	gyaml "github.com/goccy/go-yaml"
)

// JSONCodec reads and writes document text as JSON with 2-space
// indentation. It is the default codec of a Session.
type JSONCodec struct{}

func (JSONCodec) Parse(text string) (any, error) { return Parse(text) }
func (JSONCodec) Marshal(v any) (string, error)  { return Marshal(v) }

// YAMLCodec reads and writes document text as YAML, preserving key
// order, comments, the detected indent width and the sequence
// indentation style across edits. A codec instance is bound to one
// document: Parse captures the document's formatting, Marshal replays
// it.
type YAMLCodec struct {
	indent    int
	indentSeq bool
	comments  gyaml.CommentMap
}

// NewYAMLCodec returns a codec with 2-space indent and indented
// sequences until a Parse detects otherwise.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{indent: 2, indentSeq: true, comments: gyaml.CommentMap{}}
}

// Parse decodes YAML document text into an ordered value tree. Empty
// input yields an empty object, matching an empty mapping document.
func (c *YAMLCodec) Parse(text string) (any, error) {
	if len(text) == 0 {
		return Object{}, nil
	}
	data := []byte(text)
	c.comments = gyaml.CommentMap{}
	var v any
	if err := gyaml.UnmarshalWithOptions(data, &v, gyaml.UseOrderedMap(), gyaml.CommentToMap(c.comments)); err != nil {
		return nil, fmt.Errorf("jsonedit: failed to parse YAML: %w", err)
	}
	c.indent, c.indentSeq = detectIndentAndSequence(data)
	return fromYAML(v), nil
}

// Marshal encodes the value tree as YAML using the formatting captured
// by the last Parse.
func (c *YAMLCodec) Marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := gyaml.NewEncoder(
		&buf, gyaml.Indent(c.indent), gyaml.IndentSequence(c.indentSeq), gyaml.WithComment(c.comments),
	)
	if err := enc.Encode(toYAML(v)); err != nil {
		return "", fmt.Errorf("jsonedit: failed to marshal YAML: %w", err)
	}
	_ = enc.Close()
	return buf.String(), nil
}

// fromYAML converts goccy's decoded representation into the document
// value types: MapSlice becomes Object and numbers become json.Number,
// so a YAML document edits exactly like a JSON one.
func fromYAML(v any) any {
	switch t := v.(type) {
	case gyaml.MapSlice:
		obj := make(Object, 0, len(t))
		for _, item := range t {
			obj = append(obj, Member{Key: fmt.Sprint(item.Key), Value: fromYAML(item.Value)})
		}
		return obj
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = fromYAML(el)
		}
		return out
	case int:
		return json.Number(strconv.Itoa(t))
	case int64:
		return json.Number(strconv.FormatInt(t, 10))
	case uint64:
		return json.Number(strconv.FormatUint(t, 10))
	case float64:
		return json.Number(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		return t
	}
}

func toYAML(v any) any {
	switch t := v.(type) {
	case Object:
		ms := make(gyaml.MapSlice, 0, len(t))
		for _, m := range t {
			ms = append(ms, gyaml.MapItem{Key: m.Key, Value: toYAML(m.Value)})
		}
		return ms
	case []any:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = toYAML(el)
		}
		return out
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return t
	}
}

// detectIndentAndSequence returns the base indent, and whether sequences
// that are values of mapping keys are indented one level (true) or
// "indentless" (false).
func detectIndentAndSequence(b []byte) (int, bool) {
	indent := detectIndent(b)
	lines := bytes.Split(b, []byte("\n"))
	votes := 0 // >0 prefer indented seq, <0 prefer indentless

	for i := 0; i < len(lines); i++ {
		ln := lines[i]
		if isBlankOrComment(ln) {
			continue
		}
		if endsWithMappingKey(ln) {
			keyIndent := leadingSpaces(ln)
			// look ahead to the first non-blank, non-comment line
			for j := i + 1; j < len(lines); j++ {
				nxt := lines[j]
				if isBlankOrComment(nxt) {
					continue
				}
				lsp := leadingSpaces(nxt)
				trimmed := bytes.TrimLeft(nxt, " ")
				if len(trimmed) > 0 && trimmed[0] == '-' {
					if lsp == keyIndent+indent {
						votes++
					} else if lsp == keyIndent {
						votes--
					}
				}
				break
			}
		}
	}
	if votes > 0 {
		return indent, true
	}
	if votes < 0 {
		return indent, false
	}
	// no evidence either way: default to indented sequences (common in K8s/Helm repos)
	return indent, true
}

func isBlankOrComment(ln []byte) bool {
	t := bytes.TrimSpace(ln)
	return len(t) == 0 || t[0] == '#'
}

// endsWithMappingKey returns true if the line is a block mapping key of
// the form "key:" possibly followed by spaces and/or a comment.
func endsWithMappingKey(ln []byte) bool {
	// ignore flow/inline cases; we just need the common block "key:" form
	idx := bytes.IndexByte(ln, ':')
	if idx < 0 {
		return false
	}
	rest := bytes.TrimSpace(ln[idx+1:])
	return len(rest) == 0 || rest[0] == '#'
}

func detectIndent(b []byte) int {
	lines := bytes.Split(b, []byte("\n"))

	// Collect all non-zero indents from non-blank, non-comment lines
	indents := []int{}
	for _, ln := range lines {
		if len(bytes.TrimSpace(ln)) == 0 {
			continue
		}
		trimmed := bytes.TrimLeft(ln, " ")
		if len(trimmed) > 0 && trimmed[0] == '#' {
			continue
		}

		n := leadingSpaces(ln)
		if n > 0 {
			indents = append(indents, n)
		}
	}

	if len(indents) == 0 {
		return 2
	}

	// The GCD of all indents gives the base indent
	result := indents[0]
	for i := 1; i < len(indents); i++ {
		result = gcd(result, indents[i])
		if result == 1 {
			break
		}
	}

	if result > 0 && result <= 8 {
		return result
	}
	return 2
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func leadingSpaces(line []byte) int {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}
