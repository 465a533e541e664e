package openapi

import (
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"

	"github.com/kolah/apispec/internal/model"
)

// SchemaFromJSON converts a generated JSON Schema into an OpenAPI 3.0
// schema object. Property order is preserved. "null" types become
// nullable schemas since 3.0 has no null type.
func SchemaFromJSON(raw []byte) (*base.Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	if len(doc.Content) == 0 {
		return &base.Schema{}, nil
	}
	return convertSchema(doc.Content[0], "#")
}

func convertSchema(n *yaml.Node, at string) (*base.Schema, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s: schema must be an object", at)
	}

	s := &base.Schema{}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i].Value, n.Content[i+1]
		switch key {
		case "type":
			if val.Kind == yaml.SequenceNode {
				for _, t := range val.Content {
					setType(s, t.Value)
				}
				continue
			}
			setType(s, val.Value)
		case "title":
			s.Title = val.Value
		case "description":
			s.Description = val.Value
		case "required":
			if err := val.Decode(&s.Required); err != nil {
				return nil, fmt.Errorf("%s/required: %w", at, err)
			}
		case "properties":
			if val.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%s/properties: expected an object", at)
			}
			s.Properties = orderedmap.New[string, *base.SchemaProxy]()
			for j := 0; j+1 < len(val.Content); j += 2 {
				name := val.Content[j].Value
				child, err := convertSchema(val.Content[j+1], at+"/properties/"+name)
				if err != nil {
					return nil, err
				}
				s.Properties.Set(name, base.CreateSchemaProxy(child))
			}
		case "items":
			child, err := convertSchema(val, at+"/items")
			if err != nil {
				return nil, err
			}
			s.Items = &base.DynamicValue[*base.SchemaProxy, bool]{A: base.CreateSchemaProxy(child)}
		case "oneOf":
			if err := setOneOf(s, val, at); err != nil {
				return nil, err
			}
		}
	}
	return s, nil
}

func setType(s *base.Schema, t string) {
	if t == string(model.TypeNull) {
		nullable := true
		s.Nullable = &nullable
		return
	}
	s.Type = append(s.Type, t)
}

// setOneOf keeps the non-null alternatives. A single remaining alternative
// is inlined.
func setOneOf(s *base.Schema, val *yaml.Node, at string) error {
	if val.Kind != yaml.SequenceNode {
		return fmt.Errorf("%s/oneOf: expected a list", at)
	}
	var alternatives []*base.Schema
	for i, item := range val.Content {
		child, err := convertSchema(item, fmt.Sprintf("%s/oneOf/%d", at, i))
		if err != nil {
			return err
		}
		if len(child.Type) == 0 && child.Nullable != nil {
			s.Nullable = child.Nullable
			continue
		}
		alternatives = append(alternatives, child)
	}
	if len(alternatives) == 1 {
		s.Type = alternatives[0].Type
		return nil
	}
	for _, a := range alternatives {
		s.OneOf = append(s.OneOf, base.CreateSchemaProxy(a))
	}
	return nil
}

// scalarSchema is the schema of a header or parameter documented with a
// free-form type name.
func scalarSchema(typeName string) *base.SchemaProxy {
	s := &base.Schema{}
	tag, ok := model.ParseType(typeName)
	switch {
	case !ok, tag == model.TypeNull:
		s.Type = []string{string(model.TypeString)}
	case tag == model.TypeVaries:
	case tag == model.TypeArray:
		s.Type = []string{string(tag)}
		s.Items = &base.DynamicValue[*base.SchemaProxy, bool]{
			A: base.CreateSchemaProxy(&base.Schema{Type: []string{string(model.TypeString)}}),
		}
	default:
		s.Type = []string{string(tag)}
	}
	return base.CreateSchemaProxy(s)
}

func binarySchema(description string) *base.Schema {
	return &base.Schema{
		Type:        []string{string(model.TypeString)},
		Format:      "binary",
		Description: description,
	}
}

// exampleNode turns a captured payload into an example value. JSON
// payloads become structured nodes, anything else a string.
func exampleNode(contentType, example string) *yaml.Node {
	if example == "" {
		return nil
	}
	if strings.Contains(strings.ToLower(contentType), "json") {
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(example), &doc); err == nil && len(doc.Content) > 0 {
			clearStyle(doc.Content[0])
			return doc.Content[0]
		}
	}
	return stringNode(example)
}

func stringNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// clearStyle drops the flow and quoting style JSON input carries so YAML
// output uses block style.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
