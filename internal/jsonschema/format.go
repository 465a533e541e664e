package jsonschema

import (
	"github.com/goccy/go-json"
	wk8orderedmap "github.com/pb33f/ordered-map/v2"

	"github.com/kolah/apispec/internal/model"
)

// schemaDoc is the serialized form of a Node. Field order is the canonical
// key order: type, title, description, properties, required, items, oneOf.
type schemaDoc struct {
	// Type is a type name, or a list of them for a nullable container.
	Type        any                                            `json:"type,omitempty"`
	Title       string                                         `json:"title,omitempty"`
	Description string                                         `json:"description,omitempty"`
	Properties  *wk8orderedmap.OrderedMap[string, *schemaDoc] `json:"properties,omitempty"`
	Required    []string                                       `json:"required,omitempty"`
	Items       *schemaDoc                                     `json:"items,omitempty"`
	OneOf       []*schemaDoc                                   `json:"oneOf,omitempty"`
}

// Format renders a schema tree as pretty-printed JSON with a fixed key
// order and two-space indentation. Identical trees render byte-identically.
func Format(n *Node) (string, error) {
	b, err := json.MarshalIndentWithOption(document(n), "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func document(n *Node) *schemaDoc {
	doc := &schemaDoc{
		Title:       n.Title,
		Description: n.Description,
	}

	switch n.Kind {
	case KindObject:
		doc.Type = containerType(model.TypeObject, n.Types)
		if n.Properties != nil && n.Properties.Len() > 0 {
			doc.Properties = wk8orderedmap.New[string, *schemaDoc](
				wk8orderedmap.WithCapacity[string, *schemaDoc](n.Properties.Len()),
				wk8orderedmap.WithDisableHTMLEscape[string, *schemaDoc](),
			)
			for name, child := range n.Properties.FromOldest() {
				doc.Properties.Set(name, document(child))
			}
		}
		doc.Required = n.Required
	case KindArray:
		doc.Type = containerType(model.TypeArray, n.Types)
		doc.Items = document(n.Items)
	default:
		switch len(n.Types) {
		case 0:
		case 1:
			doc.Type = string(n.Types[0])
		default:
			for _, t := range n.Types {
				doc.OneOf = append(doc.OneOf, &schemaDoc{Type: string(t)})
			}
		}
	}
	return doc
}

// containerType lists "null" next to the container kind when the position
// was also documented as null.
func containerType(kind model.TypeTag, documented []model.TypeTag) any {
	if containsType(documented, model.TypeNull) {
		return []string{string(kind), string(model.TypeNull)}
	}
	return string(kind)
}
