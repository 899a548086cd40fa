package ast

import (
	"github.com/pevogam/cartconf/pkgs/filter"
	"github.com/pevogam/cartconf/pkgs/label"
)

// ContentEntry is one item of a node's ordered program: either a plain
// Operation, or a Gate (Only/No/Join/Condition/NegativeCondition)
// together -- for the two Condition kinds -- with the content it
// guards.
type ContentEntry struct {
	Pos   Pos
	Op    Operation
	Gate  *filter.Gate
	Inner []ContentEntry
}

// IsGate reports whether this entry is a filter construct rather than
// a plain operation.
func (c ContentEntry) IsGate() bool { return c.Gate != nil }

const maxFailedCases = 5

// Node is one point of the variant tree: either the root, an axis
// group, or one "- NAME:" alternative.
type Node struct {
	AxisName          string
	Name              []label.Label
	Dependencies      []filter.Filter
	Content           []ContentEntry
	Children          []*Node
	Labels            *label.Set
	AppendToShortname bool
	IsDefault         bool

	failedCases []filter.FailureRecord
}

// NewNode returns an empty node with its label set initialised.
func NewNode() *Node {
	return &Node{Labels: label.NewSet()}
}

// AddLabel records l both on Name's reachability and, transitively, on
// every ancestor once linked in (see AddChild).
func (n *Node) AddLabel(l label.Label) {
	n.Labels.Add(l)
}

// AddChild appends child and merges its reachable labels (plus its own
// name) up into n's label set, maintaining the invariant that a node's
// label set is a superset of everything reachable in its subtree.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
	for _, l := range child.Name {
		n.Labels.Add(l)
	}
	n.Labels.AddAll(child.Labels)
}

// LookupFailure scans the bounded MRU deque for a record proving the
// described visit cannot succeed; on a hit it promotes the record to
// the front (most-recently-used) and reports true.
func (n *Node) LookupFailure(ctx label.Path, ctxSet, descendants *label.Set, internal, external []filter.Gate) bool {
	for i, rec := range n.failedCases {
		if !rec.MightPass(ctx, ctxSet, descendants, internal, external) {
			n.promote(i)
			return true
		}
	}
	return false
}

func (n *Node) promote(i int) {
	if i == 0 {
		return
	}
	rec := n.failedCases[i]
	copy(n.failedCases[1:i+1], n.failedCases[:i])
	n.failedCases[0] = rec
}

// RecordFailure pushes a new failure fingerprint to the front of the
// deque, evicting the oldest entry once it exceeds its fixed capacity.
func (n *Node) RecordFailure(ctx label.Path, ctxSet *label.Set, internal, external []filter.Gate) {
	rec := filter.FailureRecord{
		Ctx:      append(label.Path(nil), ctx...),
		CtxSet:   ctxSet,
		Internal: append([]filter.Gate(nil), internal...),
		External: append([]filter.Gate(nil), external...),
	}
	n.failedCases = append([]filter.FailureRecord{rec}, n.failedCases...)
	if len(n.failedCases) > maxFailedCases {
		n.failedCases = n.failedCases[:maxFailedCases]
	}
}

// ClearFailures empties the memoisation cache; per the specification
// this must never change the emitted sequence, only redo work that the
// cache had been skipping.
func (n *Node) ClearFailures() {
	n.failedCases = nil
}
