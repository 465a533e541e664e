package jsonschema

// RootArrayProperty is the synthetic property under which Build places a
// document whose root is an array. Unwrap replaces it with the array.
const RootArrayProperty = "[]"

// Build turns reduced descriptors into a schema tree. The root is an
// object node unless the only descriptor documents the root itself as a
// scalar. Properties follow the first appearance of their paths.
func Build(reduced []Reduced, title string) (*Node, error) {
	a := newArena(reduced)
	if err := a.check(); err != nil {
		return nil, err
	}

	var root *Node
	switch {
	case a.root.hasArray:
		arr, err := a.build(a.root)
		if err != nil {
			return nil, err
		}
		root = NewObject()
		root.Properties.Set(RootArrayProperty, arr)
		root.Required = []string{RootArrayProperty}
	case a.root.hasKey:
		obj, err := a.build(a.root)
		if err != nil {
			return nil, err
		}
		root = obj
	case a.root.desc != nil:
		root = a.leaf(a.root)
	default:
		root = NewObject()
	}

	root.Title = title
	return root, nil
}

func (a *arena) build(s *slot) (*Node, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	switch {
	case s.hasKey:
		obj := NewObject()
		a.describe(obj, s)
		for _, c := range s.children {
			name := c.path[len(c.path)-1].Name
			child, err := a.build(c)
			if err != nil {
				return nil, err
			}
			obj.Properties.Set(name, child)
			if c.required() {
				obj.Required = append(obj.Required, name)
			}
		}
		return obj, nil
	case s.hasArray:
		items, err := a.build(s.child(ArrayWildcard))
		if err != nil {
			return nil, err
		}
		arr := NewArray(items)
		a.describe(arr, s)
		return arr, nil
	case s.desc == nil:
		return nil, conflict(s.path, "position has neither fields nor a descriptor")
	}
	return a.leaf(s), nil
}

func (a *arena) leaf(s *slot) *Node {
	n := NewLeaf()
	a.describe(n, s)
	return n
}

func (a *arena) describe(n *Node, s *slot) {
	if s.desc == nil {
		return
	}
	n.Types = append(n.Types, s.desc.Types...)
	n.Description = s.desc.Description
}
