package jsonschema

import (
	"strconv"
	"strings"
)

type SegmentKind int

const (
	// SegmentKey selects an object member.
	SegmentKey SegmentKind = iota
	// SegmentArray descends into every element of an array.
	SegmentArray
)

type Segment struct {
	Kind SegmentKind
	Name string
}

// Key returns an object member segment.
func Key(name string) Segment {
	return Segment{Kind: SegmentKey, Name: name}
}

// ArrayWildcard is the segment for "every element of the array".
var ArrayWildcard = Segment{Kind: SegmentArray}

// Path is a compiled field path. The empty Path is the document root.
type Path []Segment

// Compile parses a field path such as "items[].name" or "a['b.c']".
// Indexed access ("items[0]") compiles to the array wildcard since every
// element of an array is documented identically.
func Compile(raw string) (Path, error) {
	if raw == "" {
		return nil, &MalformedPathError{Path: raw, Reason: "empty path"}
	}

	var path Path
	afterDot := false
	for i := 0; i < len(raw); {
		switch c := raw[i]; c {
		case '.':
			switch {
			case len(path) == 0:
				return nil, &MalformedPathError{Path: raw, Reason: "leading '.'"}
			case afterDot:
				return nil, &MalformedPathError{Path: raw, Reason: "consecutive '.'"}
			case i == len(raw)-1:
				return nil, &MalformedPathError{Path: raw, Reason: "trailing '.'"}
			}
			afterDot = true
			i++
		case '[':
			if afterDot {
				return nil, &MalformedPathError{Path: raw, Reason: "expected key after '.'"}
			}
			end := strings.IndexByte(raw[i:], ']')
			if end < 0 {
				return nil, &MalformedPathError{Path: raw, Reason: "unmatched '['"}
			}
			seg, err := compileBracket(raw, raw[i+1:i+end])
			if err != nil {
				return nil, err
			}
			path = append(path, seg)
			i += end + 1
		case ']':
			return nil, &MalformedPathError{Path: raw, Reason: "unmatched ']'"}
		default:
			if len(path) > 0 && !afterDot {
				return nil, &MalformedPathError{Path: raw, Reason: "missing '.' before key"}
			}
			end := strings.IndexAny(raw[i:], ".[]")
			if end < 0 {
				end = len(raw) - i
			}
			name := raw[i : i+end]
			if name == "*" {
				return nil, &MalformedPathError{Path: raw, Reason: "map wildcards are not supported"}
			}
			path = append(path, Key(name))
			afterDot = false
			i += end
		}
	}
	return path, nil
}

func compileBracket(raw, inner string) (Segment, error) {
	switch {
	case inner == "":
		return ArrayWildcard, nil
	case isIndex(inner):
		return ArrayWildcard, nil
	case len(inner) >= 2 && (inner[0] == '\'' || inner[0] == '"') && inner[len(inner)-1] == inner[0]:
		name := inner[1 : len(inner)-1]
		if name == "" {
			return Segment{}, &MalformedPathError{Path: raw, Reason: "empty quoted key"}
		}
		return Key(name), nil
	}
	return Segment{}, &MalformedPathError{Path: raw, Reason: "invalid bracket expression [" + inner + "]"}
}

func isIndex(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the path in its canonical textual form.
func (p Path) String() string {
	var b strings.Builder
	for i, seg := range p {
		if seg.Kind == SegmentArray {
			b.WriteString("[]")
			continue
		}
		if strings.ContainsAny(seg.Name, ".[]'\"") {
			quote := "'"
			if strings.Contains(seg.Name, "'") {
				quote = `"`
			}
			b.WriteString("[" + quote + seg.Name + quote + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Name)
	}
	return b.String()
}

// key is an unambiguous identity used to group structurally equal paths.
func (p Path) key() string {
	var b strings.Builder
	for _, seg := range p {
		if seg.Kind == SegmentArray {
			b.WriteString("[]")
			continue
		}
		b.WriteString(strconv.Itoa(len(seg.Name)))
		b.WriteByte(':')
		b.WriteString(seg.Name)
	}
	return b.String()
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading part of p.
func (p Path) HasPrefix(prefix Path) bool {
	return len(prefix) <= len(p) && p[:len(prefix)].Equal(prefix)
}
