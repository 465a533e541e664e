package jsonschema

import "github.com/kolah/apispec/internal/model"

// slot is one path prefix seen in the reduced descriptor set.
type slot struct {
	path     Path
	children []*slot
	byKey    map[string]*slot
	hasKey   bool
	hasArray bool
	desc     *Reduced
}

func (s *slot) child(seg Segment) *slot {
	return s.byKey[Path{seg}.key()]
}

func (s *slot) container() bool {
	return s.hasKey || s.hasArray
}

// arena indexes every prefix of every reduced path so that merge and
// conflict decisions are made per position, independent of serialization.
type arena struct {
	root  *slot
	slots []*slot
}

func newArena(reduced []Reduced) *arena {
	a := &arena{}
	a.root = a.newSlot(nil)
	for i := range reduced {
		r := &reduced[i]
		cur := a.root
		for depth, seg := range r.Path {
			if seg.Kind == SegmentArray {
				cur.hasArray = true
			} else {
				cur.hasKey = true
			}
			next := cur.child(seg)
			if next == nil {
				next = a.newSlot(r.Path[:depth+1])
				cur.byKey[Path{seg}.key()] = next
				cur.children = append(cur.children, next)
			}
			cur = next
		}
		cur.desc = r
	}
	return a
}

func (a *arena) newSlot(p Path) *slot {
	s := &slot{path: append(Path(nil), p...), byKey: make(map[string]*slot)}
	a.slots = append(a.slots, s)
	return s
}

// check rejects positions documented with incompatible shapes.
func (a *arena) check() error {
	for _, s := range a.slots {
		if err := s.check(); err != nil {
			return err
		}
	}
	return nil
}

func (s *slot) check() error {
	if s.hasKey && s.hasArray {
		return conflict(s.path, "documented as both object and array")
	}
	if s.desc == nil || !s.container() || s.desc.Any() {
		return nil
	}
	for _, t := range s.desc.Types {
		switch {
		case t == model.TypeNull:
		case s.hasKey && t == model.TypeObject:
		case s.hasArray && t == model.TypeArray:
		case t.IsScalar():
			return conflict(s.path, "documented as %s but has nested fields", typeList(s.desc.Types))
		case s.hasKey:
			return conflict(s.path, "documented as %s but has object fields", t)
		default:
			return conflict(s.path, "documented as %s but has array elements", t)
		}
	}
	return nil
}

// required decides whether the property at s is required on its parent.
// Descriptors ending at s, or at s followed only by array wildcards,
// decide explicitly; otherwise the property is required when any nested
// field is required.
func (s *slot) required() bool {
	var anchored []*Reduced
	for cur := s; cur != nil; {
		if cur.desc != nil {
			anchored = append(anchored, cur.desc)
		}
		if !cur.hasArray || cur.hasKey {
			break
		}
		cur = cur.child(ArrayWildcard)
	}
	if len(anchored) > 0 {
		for _, d := range anchored {
			if d.Optional {
				return false
			}
		}
		return true
	}
	return s.hasRequiredDescendant()
}

func (s *slot) hasRequiredDescendant() bool {
	for _, c := range s.children {
		if c.path[len(c.path)-1].Kind == SegmentKey {
			if c.required() {
				return true
			}
			continue
		}
		if c.desc != nil && !c.desc.Optional {
			return true
		}
		if c.hasRequiredDescendant() {
			return true
		}
	}
	return false
}
