package loader

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/kolah/apispec/internal/model"
)

// FieldSet is a standalone list of field descriptors, optionally titled.
type FieldSet struct {
	Title  string
	Fields []model.FieldDescriptor
}

type fieldSetFile struct {
	Title  string       `yaml:"title"`
	Fields []fieldEntry `yaml:"fields"`
}

// LoadFields reads a YAML or JSON file holding either a list of field
// descriptors or a mapping with "title" and "fields".
func LoadFields(path string) (*FieldSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fields file: %w", err)
	}
	set, err := ParseFields(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func ParseFields(data []byte) (*FieldSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing fields: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &FieldSet{Fields: []model.FieldDescriptor{}}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var entries []fieldEntry
		if err := root.Decode(&entries); err != nil {
			return nil, fmt.Errorf("decoding fields: %w", err)
		}
		return &FieldSet{Fields: toFields(entries)}, nil
	case yaml.MappingNode:
		var f fieldSetFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("decoding fields: %w", err)
		}
		return &FieldSet{Title: f.Title, Fields: toFields(f.Fields)}, nil
	default:
		return nil, fmt.Errorf("line %d: expected a list of fields or a mapping", root.Line)
	}
}
