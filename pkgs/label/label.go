// Package label implements the Label value used throughout the variant
// tree: a pair of (axis, value) used in filter expressions and variant
// names.
package label

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Label identifies one point in the variant space. Axis is empty for a
// bare label (e.g. "rhel64"); when present the label was declared inside
// a named "variants AXIS:" group and prints as "(axis=value)".
type Label struct {
	Axis  string
	Value string
}

// New builds an axis-less label.
func New(value string) Label {
	return Label{Value: value}
}

// NewAxis builds an axis-qualified label.
func NewAxis(axis, value string) Label {
	return Label{Axis: axis, Value: value}
}

// LongName renders the label the way it appears in a variant's dotted
// name: the bare value for axis-less labels, "(axis=value)" otherwise.
func (l Label) LongName() string {
	if l.Axis == "" {
		return l.Value
	}
	return fmt.Sprintf("(%s=%s)", l.Axis, l.Value)
}

// Equal follows the spec's intentionally axis-asymmetric rule: an
// axis-less label compares by Value only, an axis-qualified label
// compares by LongName. This lets an anonymous query label ("rhel64")
// match an axis-qualified label stored in a node's name without the
// caller having to know the axis, while two differently-axised labels
// sharing a value never collide.
func (l Label) Equal(other Label) bool {
	if l.Axis == "" {
		return l.Value == other.Value
	}
	return l.LongName() == other.LongName()
}

// Hash returns a stable hash of Value alone, so that two labels hash
// equal whenever their values hash equal -- the fast path used when
// testing an axis-less query label against a label set.
func (l Label) Hash() uint64 {
	return xxhash.Sum64String(l.Value)
}

func (l Label) String() string {
	return l.LongName()
}

// Set is the reachability set attached to every tree node: every Label
// reachable anywhere in the node's subtree, used by the "might_match"
// pruning predicate. Lookup honors the same axis-asymmetric equality as
// Label.Equal: an axis-less query matches any label sharing its Value,
// an axis-qualified query only matches the identical (axis, value).
type Set struct {
	values    map[string]struct{}
	longNames map[string]struct{}
}

// NewSet returns an empty label set.
func NewSet() *Set {
	return &Set{
		values:    make(map[string]struct{}),
		longNames: make(map[string]struct{}),
	}
}

// Add records l as reachable.
func (s *Set) Add(l Label) {
	s.values[l.Value] = struct{}{}
	if l.Axis != "" {
		s.longNames[l.LongName()] = struct{}{}
	}
}

// AddAll merges other into s.
func (s *Set) AddAll(other *Set) {
	if other == nil {
		return
	}
	for v := range other.values {
		s.values[v] = struct{}{}
	}
	for n := range other.longNames {
		s.longNames[n] = struct{}{}
	}
}

// Contains reports whether l is reachable in this set.
func (s *Set) Contains(l Label) bool {
	if s == nil {
		return false
	}
	if l.Axis == "" {
		_, ok := s.values[l.Value]
		return ok
	}
	_, ok := s.longNames[l.LongName()]
	return ok
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	out := NewSet()
	out.AddAll(s)
	return out
}
