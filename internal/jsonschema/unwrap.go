package jsonschema

// Unwrap replaces the object wrapper Build puts around a root array with
// the array itself when every reduced path starts at the root array.
// Any other tree is returned unchanged.
func Unwrap(root *Node, reduced []Reduced) *Node {
	if root == nil || root.Kind != KindObject || root.Properties == nil || root.Properties.Len() != 1 {
		return root
	}
	arr, ok := root.Properties.Get(RootArrayProperty)
	if !ok || arr.Kind != KindArray {
		return root
	}
	for _, r := range reduced {
		if len(r.Path) > 0 && r.Path[0].Kind != SegmentArray {
			return root
		}
	}

	unwrapped := *arr
	unwrapped.Title = root.Title
	if unwrapped.Description == "" {
		unwrapped.Description = root.Description
	}
	return &unwrapped
}
