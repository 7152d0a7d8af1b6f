package jsonedit

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object Key or an array Index.
type Segment interface {
	isSegment()
}

// Key addresses a member of an object.
type Key string

// Index addresses an element of an array.
type Index int

func (Key) isSegment()   {}
func (Index) isSegment() {}

// Path addresses a value inside a document, walking from the root. The
// empty path addresses the document itself.
type Path []Segment

// FormatPath renders p in bracket notation rooted at "$": index segments
// as [3], key segments as ["name"]. Keys are not escaped beyond the
// surrounding quotes; this is a display form, not a wire format.
func FormatPath(p Path) string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range p {
		switch s := seg.(type) {
		case Index:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(int(s)))
			b.WriteByte(']')
		case Key:
			b.WriteString(`["`)
			b.WriteString(string(s))
			b.WriteString(`"]`)
		}
	}
	return b.String()
}

// ParsePath parses the bracket notation produced by FormatPath. Quoted
// keys may escape '"' and '\' with a backslash. Because FormatPath does
// not emit those escapes, the round trip through FormatPath only holds
// for keys free of '"' and '\'; paths for such keys must be written with
// the escaped form by hand.
func ParsePath(s string) (Path, error) {
	if len(s) == 0 || s[0] != '$' {
		return nil, fmt.Errorf("jsonedit: path %q should start with %q", s, "$")
	}
	var p Path
	rest := s[1:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return nil, fmt.Errorf("jsonedit: expected '[' at %q", rest)
		}
		rest = rest[1:]
		if len(rest) > 0 && rest[0] == '"' {
			key, tail, err := parseQuotedKey(rest)
			if err != nil {
				return nil, err
			}
			p = append(p, Key(key))
			rest = tail
			continue
		}
		i := strings.IndexByte(rest, ']')
		if i <= 0 {
			return nil, fmt.Errorf("jsonedit: expected '[' <index> ']' at %q", rest)
		}
		n, err := strconv.ParseUint(rest[:i], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("jsonedit: invalid array index %q", rest[:i])
		}
		p = append(p, Index(n))
		rest = rest[i+1:]
	}
	return p, nil
}

// parseQuotedKey consumes `"key"]` from the front of s and returns the
// key and the remaining input.
func parseQuotedKey(s string) (key, rest string, err error) {
	var b strings.Builder
	escaped := false
	for i := 1; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			if i+1 >= len(s) || s[i+1] != ']' {
				return "", "", fmt.Errorf("jsonedit: expected ']' after key %q", b.String())
			}
			return b.String(), s[i+2:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("jsonedit: unterminated key in path %q", s)
}
