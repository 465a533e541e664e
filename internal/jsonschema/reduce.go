package jsonschema

import (
	"fmt"
	"strings"

	"github.com/kolah/apispec/internal/model"
)

// Reduced is the canonical descriptor of one distinct compiled path.
type Reduced struct {
	Path Path
	// Types is the union of documented types in first-seen order. It is
	// empty when any contributor documented the field as varies.
	Types       []model.TypeTag
	Optional    bool
	Description string
}

// Any reports whether the field may hold any JSON value.
func (r Reduced) Any() bool {
	return len(r.Types) == 0
}

// Reduce collapses descriptors into one Reduced entry per distinct path,
// in first-seen order. Ignored descriptors are dropped together with any
// fields nested below a path that is only documented as ignored.
func Reduce(fields []model.FieldDescriptor) ([]Reduced, error) {
	var (
		reduced []Reduced
		index   = make(map[string]int)
		anyType = make(map[string]bool)
		ignored []Path
	)

	for _, f := range fields {
		path, err := Compile(f.Path)
		if err != nil {
			return nil, err
		}
		if f.Ignored {
			ignored = append(ignored, path)
			continue
		}

		typ, ok := model.ParseType(f.Type)
		if !ok {
			return nil, &model.UnknownTypeError{Path: f.Path, Type: f.Type}
		}
		// "tags[]" typed as array documents the array itself.
		if typ == model.TypeArray && len(path) > 0 && path[len(path)-1].Kind == SegmentArray {
			path = path[:len(path)-1]
		}

		k := path.key()
		i, seen := index[k]
		if !seen {
			i = len(reduced)
			index[k] = i
			reduced = append(reduced, Reduced{Path: path, Optional: f.Optional})
		}
		r := &reduced[i]

		if typ == model.TypeVaries {
			anyType[k] = true
			r.Types = nil
		} else if !anyType[k] && !containsType(r.Types, typ) {
			r.Types = append(r.Types, typ)
		}
		r.Optional = r.Optional || f.Optional
		if r.Description == "" && strings.TrimSpace(f.Description) != "" {
			r.Description = f.Description
		}
	}

	reduced = dropIgnored(reduced, index, ignored)

	a := newArena(reduced)
	if err := a.check(); err != nil {
		return nil, err
	}
	return reduced, nil
}

func dropIgnored(reduced []Reduced, index map[string]int, ignored []Path) []Reduced {
	var roots []Path
	for _, p := range ignored {
		if _, documented := index[p.key()]; !documented {
			roots = append(roots, p)
		}
	}
	if len(roots) == 0 {
		return reduced
	}

	kept := reduced[:0:0]
	for _, r := range reduced {
		drop := false
		for _, root := range roots {
			if r.Path.HasPrefix(root) {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, r)
		}
	}
	return kept
}

func containsType(types []model.TypeTag, t model.TypeTag) bool {
	for _, existing := range types {
		if existing == t {
			return true
		}
	}
	return false
}

func typeList(types []model.TypeTag) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, "|")
}

func conflict(p Path, format string, args ...any) error {
	return &ConflictingPathError{Path: p.String(), Reason: fmt.Sprintf(format, args...)}
}
