// Package jsonschema derives JSON Schema documents from flat field
// descriptors such as "items[].name".
//
// The pipeline is Compile -> Reduce -> Build -> Unwrap -> Format. Every
// stage is a pure function of its input: it never retains or mutates the
// descriptors it is given, so independent calls may run concurrently.
package jsonschema

import "github.com/kolah/apispec/internal/model"

// Schema builds the schema tree for a list of field descriptors.
func Schema(fields []model.FieldDescriptor, title string) (*Node, error) {
	reduced, err := Reduce(fields)
	if err != nil {
		return nil, err
	}
	root, err := Build(reduced, title)
	if err != nil {
		return nil, err
	}
	return Unwrap(root, reduced), nil
}

// Generate returns the formatted JSON Schema for a list of field descriptors.
func Generate(fields []model.FieldDescriptor, title string) (string, error) {
	root, err := Schema(fields, title)
	if err != nil {
		return "", err
	}
	return Format(root)
}

// GenerateMultipart returns one schema covering the fields of every part
// of a multipart request.
func GenerateMultipart(parts []model.RequestPart) (string, error) {
	var fields []model.FieldDescriptor
	for _, p := range parts {
		fields = append(fields, p.Fields...)
	}
	return Generate(fields, "")
}
