package resource

import (
	"errors"
	"strings"
)

// URITemplate is the resolved form of a request URI template such as
// "http://localhost:8080/users/{id}?expand={expand}".
type URITemplate struct {
	Raw       string
	Path      string
	Query     string
	Segments  []string
	Variables []string
}

// FirstSegment returns the first path segment, or "" for the root path.
func (t URITemplate) FirstSegment() string {
	if len(t.Segments) == 0 {
		return ""
	}
	return t.Segments[0]
}

// HasVariable reports whether {name} appears in the path.
func (t URITemplate) HasVariable(name string) bool {
	for _, v := range t.Variables {
		if v == name {
			return true
		}
	}
	return false
}

// TemplateResolver turns a raw URI template into its components.
type TemplateResolver interface {
	Resolve(template string) (URITemplate, error)
}

// DefaultResolver resolves templates without expanding them.
type DefaultResolver struct{}

var errEmptyTemplate = errors.New("empty template")

func (DefaultResolver) Resolve(template string) (URITemplate, error) {
	raw := strings.TrimSpace(template)
	if raw == "" {
		return URITemplate{}, errEmptyTemplate
	}

	rest := raw
	if i := indexOutsideVariables(rest, "#"); i >= 0 {
		rest = rest[:i]
	}

	t := URITemplate{Raw: raw}
	if i := indexOutsideVariables(rest, "?"); i >= 0 {
		t.Query = rest[i+1:]
		rest = rest[:i]
	}
	if scheme, after, ok := strings.Cut(rest, "://"); ok && validScheme(scheme) {
		rest = "/"
		if j := strings.IndexByte(after, '/'); j >= 0 {
			rest = after[j:]
		}
	}
	if rest == "" {
		rest = "/"
	}
	if !strings.HasPrefix(rest, "/") {
		return URITemplate{}, errors.New("path must start with '/'")
	}
	t.Path = rest

	vars, err := templateVariables(rest)
	if err != nil {
		return URITemplate{}, err
	}
	t.Variables = vars

	for _, seg := range splitOutsideVariables(rest, '/') {
		if seg != "" {
			t.Segments = append(t.Segments, seg)
		}
	}
	return t, nil
}

// validScheme reports whether s is an RFC 3986 scheme name.
func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// indexOutsideVariables is strings.IndexAny that skips {variable} bodies.
func indexOutsideVariables(s, chars string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '{':
			depth++
		case c == '}':
			if depth > 0 {
				depth--
			}
		case depth == 0 && strings.IndexByte(chars, c) >= 0:
			return i
		}
	}
	return -1
}

func splitOutsideVariables(s string, sep byte) []string {
	var parts []string
	for {
		i := indexOutsideVariables(s, string(sep))
		if i < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:i])
		s = s[i+1:]
	}
}

// templateVariables returns the {name} variables of a path. A variable may
// declare a pattern after the name, e.g. {id:\d{3}}; braces inside the
// pattern nest.
func templateVariables(path string) ([]string, error) {
	var vars []string
	depth, start := 0, 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '{':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case '}':
			if depth == 0 {
				return nil, errors.New("unmatched '}'")
			}
			depth--
			if depth > 0 {
				continue
			}
			name := path[start:i]
			if j := strings.IndexByte(name, ':'); j >= 0 {
				name = name[:j]
			}
			if name == "" {
				return nil, errors.New("empty template variable")
			}
			vars = append(vars, name)
		}
	}
	if depth > 0 {
		return nil, errors.New("unmatched '{'")
	}
	return vars, nil
}
