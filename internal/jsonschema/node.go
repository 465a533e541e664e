package jsonschema

import (
	"github.com/kolah/apispec/internal/model"
	"github.com/pb33f/libopenapi/orderedmap"
)

type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindLeaf
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	}
	return "leaf"
}

// Node is one position of a schema tree.
//
// Object nodes carry Properties (in first-appearance order) and Required,
// array nodes carry Items, leaf nodes carry Types. A leaf without Types
// accepts any value. On object and array nodes Types holds the documented
// type names of that position and does not affect the schema kind.
type Node struct {
	Kind        Kind
	Title       string
	Description string
	Types       []model.TypeTag
	Properties  *orderedmap.Map[string, *Node]
	Required    []string
	Items       *Node
}

func NewObject() *Node {
	return &Node{Kind: KindObject, Properties: orderedmap.New[string, *Node]()}
}

func NewArray(items *Node) *Node {
	if items == nil {
		items = NewLeaf()
	}
	return &Node{Kind: KindArray, Items: items}
}

func NewLeaf(types ...model.TypeTag) *Node {
	return &Node{Kind: KindLeaf, Types: types}
}

// Property returns the named property of an object node.
func (n *Node) Property(name string) (*Node, bool) {
	if n.Kind != KindObject || n.Properties == nil {
		return nil, false
	}
	return n.Properties.Get(name)
}

// IsRequired reports whether name is in the required set.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}
