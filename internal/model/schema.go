package model

import (
	"fmt"
	"strings"
)

// TypeTag is the closed set of JSON types a documented field can take.
type TypeTag string

const (
	TypeString  TypeTag = "string"
	TypeNumber  TypeTag = "number"
	TypeInteger TypeTag = "integer"
	TypeBoolean TypeTag = "boolean"
	TypeObject  TypeTag = "object"
	TypeArray   TypeTag = "array"
	TypeNull    TypeTag = "null"

	// TypeVaries documents a field whose value may be of any JSON type.
	TypeVaries TypeTag = "varies"
)

// FieldDescriptor documents one payload field by its path.
type FieldDescriptor struct {
	Path        string `json:"path"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Optional    bool   `json:"optional"`
	Ignored     bool   `json:"ignored"`
}

// SchemaRef names a schema for consumers that extract named components.
type SchemaRef struct {
	Name string `json:"name"`
}

// UnknownTypeError reports a field type name outside the supported set.
type UnknownTypeError struct {
	Path string
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("field %q: unknown type %q", e.Path, e.Type)
}

var typeNames = map[string]TypeTag{
	"string":                 TypeString,
	"text":                   TypeString,
	"char":                   TypeString,
	"character":              TypeString,
	"charsequence":           TypeString,
	"uuid":                   TypeString,
	"java.lang.string":       TypeString,
	"java.lang.charsequence": TypeString,
	"java.lang.character":    TypeString,
	"java.util.uuid":         TypeString,

	"number":               TypeNumber,
	"double":               TypeNumber,
	"float":                TypeNumber,
	"decimal":              TypeNumber,
	"bigdecimal":           TypeNumber,
	"java.lang.number":     TypeNumber,
	"java.lang.double":     TypeNumber,
	"java.lang.float":      TypeNumber,
	"java.math.bigdecimal": TypeNumber,

	"integer":              TypeInteger,
	"int":                  TypeInteger,
	"long":                 TypeInteger,
	"short":                TypeInteger,
	"byte":                 TypeInteger,
	"biginteger":           TypeInteger,
	"java.lang.integer":    TypeInteger,
	"java.lang.long":       TypeInteger,
	"java.lang.short":      TypeInteger,
	"java.lang.byte":       TypeInteger,
	"java.math.biginteger": TypeInteger,

	"boolean":           TypeBoolean,
	"bool":              TypeBoolean,
	"java.lang.boolean": TypeBoolean,

	"object":           TypeObject,
	"map":              TypeObject,
	"java.lang.object": TypeObject,
	"java.util.map":    TypeObject,

	"array":                TypeArray,
	"list":                 TypeArray,
	"set":                  TypeArray,
	"collection":           TypeArray,
	"java.util.list":       TypeArray,
	"java.util.set":        TypeArray,
	"java.util.collection": TypeArray,

	"null": TypeNull,

	"varies": TypeVaries,
	"any":    TypeVaries,
}

// ParseType maps a documented type name onto a TypeTag.
// Names are matched case-insensitively, so REST Docs names such as
// "STRING" or "VARIES" and Java class names both resolve.
func ParseType(name string) (TypeTag, bool) {
	t, ok := typeNames[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// IsScalar reports whether values of this type cannot contain nested fields.
func (t TypeTag) IsScalar() bool {
	switch t {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
		return true
	}
	return false
}
