package jsonschema

import "fmt"

// MalformedPathError reports a field path that cannot be tokenized.
type MalformedPathError struct {
	Path   string
	Reason string
}

func (e *MalformedPathError) Error() string {
	return fmt.Sprintf("malformed field path %q: %s", e.Path, e.Reason)
}

// ConflictingPathError reports a path documented with incompatible shapes,
// such as a scalar that also has nested fields.
type ConflictingPathError struct {
	Path   string
	Reason string
}

func (e *ConflictingPathError) Error() string {
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("conflicting field path %q: %s", path, e.Reason)
}
