// Package filter implements the disjunctive-normal-form filter algebra
// used to prune and gate variants during enumeration: Only, No, Join,
// Condition and NegativeCondition, each built on the same three-level
// structure (OR of AND of adjacency SEQUENCE) and the same family of
// match / might-match predicates.
package filter

import (
	"strings"

	"github.com/pevogam/cartconf/pkgs/label"
)

// Sequence is an IMMEDIATELY-FOLLOWED-BY chain of labels joined by "."
// in source syntax.
type Sequence []label.Label

// Conjunct is an AND ("..") of sequences.
type Conjunct []Sequence

// Filter is an OR (",") of conjuncts: the full DNF expansion of a
// filter expression.
type Filter struct {
	Disjuncts []Conjunct
}

// Empty reports whether f has no disjuncts at all (the zero Filter).
func (f Filter) Empty() bool {
	return len(f.Disjuncts) == 0
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, l := range s {
		parts[i] = l.LongName()
	}
	return strings.Join(parts, ".")
}

func (c Conjunct) String() string {
	parts := make([]string, len(c))
	for i, s := range c {
		parts[i] = s.String()
	}
	return strings.Join(parts, "..")
}

func (f Filter) String() string {
	parts := make([]string, len(f.Disjuncts))
	for i, c := range f.Disjuncts {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// Kind identifies which of the five filter constructs a Filter is
// playing the role of; RequiresAction/IsIrrelevant read it to pick the
// right side of the Only/No (and Condition/NegativeCondition) duality.
type Kind int

const (
	// KindOnly prunes a branch where the filter cannot match.
	KindOnly Kind = iota
	// KindNo prunes a branch where the filter already matches.
	KindNo
	// KindCondition inlines its guarded content once the filter matches.
	KindCondition
	// KindNegativeCondition inlines its guarded content once the filter
	// is certain never to match.
	KindNegativeCondition
	// KindJoin does not prune at all: the enumerator treats every
	// clause of a Join as an independent Only filter and cross-
	// multiplies the sub-variants each one selects.
	KindJoin
)

func (k Kind) String() string {
	switch k {
	case KindOnly:
		return "only"
	case KindNo:
		return "no"
	case KindCondition:
		return "condition"
	case KindNegativeCondition:
		return "!condition"
	case KindJoin:
		return "join"
	default:
		return "unknown"
	}
}
