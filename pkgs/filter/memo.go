package filter

import "github.com/pevogam/cartconf/pkgs/label"

// Gate pairs a Kind with the Filter it gates; it is the unit the
// enumerator deals with when walking a node's content (an Only/No/Join
// clause, or the guard of a Condition/NegativeCondition block).
type Gate struct {
	Kind   Kind
	Filter Filter
}

// FailureRecord is one entry of a node's bounded failed_cases deque: a
// fingerprint of a past visit that failed to produce any variant,
// together with enough of the filter state to tell whether a later
// visit could now succeed where this one didn't.
type FailureRecord struct {
	Ctx       label.Path
	CtxSet    *label.Set
	Internal  []Gate
	External  []Gate
}

// MightPass decides whether a new visit, described by (ctx, ctxSet,
// descendants), could possibly succeed where the recorded failure
// didn't. It is deliberately conservative: the record is only trusted
// to still apply when the new visit's gates are textually identical to
// the recorded ones, so a hit always means "definitely still fails"
// and a miss simply falls back to full re-evaluation. This keeps the
// cache a pure performance optimisation -- clearing it can never change
// which variants are emitted, only how much redundant work is redone to
// find that out.
func (r FailureRecord) MightPass(ctx label.Path, ctxSet, descendants *label.Set, internal, external []Gate) bool {
	if !gatesEqual(r.Internal, internal) || !gatesEqual(r.External, external) {
		return true
	}
	if len(r.Ctx) != len(ctx) {
		return true
	}
	for i := range ctx {
		if !r.Ctx[i].Equal(ctx[i]) {
			return true
		}
	}
	return false
}

func gatesEqual(a, b []Gate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Filter.String() != b[i].Filter.String() {
			return false
		}
	}
	return true
}
