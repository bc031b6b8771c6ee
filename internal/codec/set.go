// Package codec provides an ordered set of ffprobe identifiers (codec names
// and container format names). Insertion order is preserved so that issue
// text lists codecs in the order their streams appear in the file.
package codec

import "strings"

// Set is an insertion-ordered set of lowercase identifiers. The zero value
// is an empty set ready to use.
type Set struct {
	order []string
	index map[string]struct{}
}

// NewSet returns a set holding names in first-seen order.
func NewSet(names ...string) Set {
	var s Set
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Normalize lowercases and trims an identifier.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add inserts name (normalized). Empty names and duplicates are ignored.
func (s *Set) Add(name string) {
	name = Normalize(name)
	if name == "" {
		return
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = struct{}{}
	s.order = append(s.order, name)
}

// Has reports whether name is a member.
func (s Set) Has(name string) bool {
	_, ok := s.index[Normalize(name)]
	return ok
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return NewSet(s.order...)
}

// Len returns the number of members.
func (s Set) Len() int { return len(s.order) }

// Empty reports whether the set has no members.
func (s Set) Empty() bool { return len(s.order) == 0 }

// Names returns the members in insertion order. The slice is a copy.
func (s Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Intersects reports whether s and other share at least one member.
// An empty set intersects nothing.
func (s Set) Intersects(other Set) bool {
	for _, n := range s.order {
		if other.Has(n) {
			return true
		}
	}
	return false
}

// SubsetOf reports whether every member of s is in other. The empty set is
// a subset of everything.
func (s Set) SubsetOf(other Set) bool {
	for _, n := range s.order {
		if !other.Has(n) {
			return false
		}
	}
	return true
}

// String joins the members with ", ".
func (s Set) String() string {
	return strings.Join(s.order, ", ")
}
