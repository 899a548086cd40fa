package filter

import "github.com/pevogam/cartconf/pkgs/label"

// Match reports whether any disjunct of f has every one of its
// conjunct sequences matched adjacently in ctx.
func Match(f Filter, ctx label.Path, ctxSet *label.Set) bool {
	for _, conj := range f.Disjuncts {
		if conjunctMatches(conj, ctx, ctxSet) {
			return true
		}
	}
	return false
}

func conjunctMatches(conj Conjunct, ctx label.Path, ctxSet *label.Set) bool {
	for _, seq := range conj {
		if !sequenceMatches(seq, ctx, ctxSet) {
			return false
		}
	}
	return true
}

// sequenceMatches implements the adjacency rule: starting at the first
// occurrence of seq[0] in ctx, the remaining labels must occupy the
// immediately following positions -- unless none of them have been
// placed in ctx at all, in which case the boundary rule applies: the
// sequence only matches if seq[0] is the very last element of ctx (so
// there is nothing else it could have been "immediately followed" by).
// A one-label sequence matches wherever its label occurs in ctx.
func sequenceMatches(seq Sequence, ctx label.Path, ctxSet *label.Set) bool {
	if len(seq) == 0 {
		return true
	}
	idx := ctx.IndexOf(seq[0])
	if idx == -1 {
		return false
	}
	if len(seq) > 1 && onlyHeadPresent(seq, ctxSet) {
		return idx == len(ctx)-1
	}
	for i, l := range seq[1:] {
		pos := idx + 1 + i
		if pos >= len(ctx) || !ctx[pos].Equal(l) {
			return false
		}
	}
	return true
}

func onlyHeadPresent(seq Sequence, ctxSet *label.Set) bool {
	for _, l := range seq[1:] {
		if ctxSet.Contains(l) {
			return false
		}
	}
	return true
}

// MightMatch is the pruning-time relaxation of Match: labels not yet
// placed in ctx are still allowed to satisfy the sequence as long as
// they remain reachable somewhere in the node's subtree (descendants).
func MightMatch(f Filter, ctx label.Path, ctxSet, descendants *label.Set) bool {
	for _, conj := range f.Disjuncts {
		if conjunctMightMatch(conj, ctx, ctxSet, descendants) {
			return true
		}
	}
	return false
}

func conjunctMightMatch(conj Conjunct, ctx label.Path, ctxSet, descendants *label.Set) bool {
	for _, seq := range conj {
		if !sequenceMightMatch(seq, ctx, ctxSet, descendants) {
			return false
		}
	}
	return true
}

func sequenceMightMatch(seq Sequence, ctx label.Path, ctxSet, descendants *label.Set) bool {
	if len(seq) == 0 {
		return true
	}
	idx := ctx.IndexOf(seq[0])
	if idx == -1 {
		// Head not placed yet: the whole sequence can still happen
		// further down the tree as long as its head is still reachable.
		return descendants.Contains(seq[0])
	}
	if len(seq) > 1 && onlyHeadPresent(seq, ctxSet) {
		if idx != len(ctx)-1 {
			// Something else already sits right after the head: the
			// adjacency this sequence requires can never happen now.
			return false
		}
		for _, l := range seq[1:] {
			if !descendants.Contains(l) {
				return false
			}
		}
		return true
	}
	for i, l := range seq[1:] {
		pos := idx + 1 + i
		if pos >= len(ctx) {
			if !descendants.Contains(l) {
				return false
			}
			continue
		}
		if !ctx[pos].Equal(l) {
			return false
		}
	}
	return true
}

// RequiresAction and IsIrrelevant implement the branching used while
// processing a node's content (spec section 4.5 step 4). They share a
// single duality: No and Condition require action once the filter
// already matches (prune, or open the guard) and are irrelevant once it
// can no longer match in this subtree; Only and NegativeCondition are
// the mirror image, requiring action once the filter can no longer
// match and irrelevant once it already matches.
func RequiresAction(kind Kind, f Filter, ctx label.Path, ctxSet, descendants *label.Set) bool {
	switch kind {
	case KindOnly, KindNegativeCondition:
		return !MightMatch(f, ctx, ctxSet, descendants)
	case KindNo, KindCondition:
		return Match(f, ctx, ctxSet)
	default:
		return false
	}
}

func IsIrrelevant(kind Kind, f Filter, ctx label.Path, ctxSet, descendants *label.Set) bool {
	switch kind {
	case KindOnly, KindNegativeCondition:
		return Match(f, ctx, ctxSet)
	case KindNo, KindCondition:
		return !MightMatch(f, ctx, ctxSet, descendants)
	default:
		return false
	}
}
