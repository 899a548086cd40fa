// Package enumerator walks a variant tree (pkgs/ast) and lazily produces
// the ordered stream of flat dictionaries it denotes: one per leaf path
// that survives every Only/No/Condition/Join gate along the way, with
// joins cross-multiplied, names merged, suffixes applied and reconciled,
// substitutions resolved and size bounds enforced.
package enumerator

import (
	"iter"

	"github.com/pevogam/cartconf/pkgs/ast"
	"github.com/pevogam/cartconf/pkgs/filter"
	"github.com/pevogam/cartconf/pkgs/label"
)

// Options configures one enumeration pass.
type Options struct {
	// Defaults, when set, stops each axis after its first default child
	// that yields at least one dictionary, unless that axis is named in
	// ExpandDefaults.
	Defaults       bool
	ExpandDefaults map[string]bool
	// SkipDups controls suffix reconciliation: when true, a base key
	// whose every suffixed variant agrees on value collapses back to a
	// bare key (see finalize.go).
	SkipDups bool
}

// Enumerate returns the ordered sequence of dictionaries denoted by root.
// The sequence is restartable: calling Enumerate again replays the exact
// same sequence of dictionaries as long as root is not mutated between
// calls. The failure cache on each node persists across calls, so a
// replay may skip, via the cache, branches the first pass evaluated.
func Enumerate(root *ast.Node, opts Options) iter.Seq[ast.Dict] {
	return func(yield func(ast.Dict) bool) {
		stop := false
		inner := func(d ast.Dict) bool {
			if stop {
				return false
			}
			if !yield(finalize(d, opts.SkipDups)) {
				stop = true
				return false
			}
			return true
		}
		enumerateJoined(root, label.Path{}, nil, "", nil, opts, inner)
	}
}

// gatesOf extracts the Gate snapshot of a content list, in order, for use
// as a failure-cache fingerprint.
func gatesOf(content []ast.ContentEntry) []filter.Gate {
	var out []filter.Gate
	for _, c := range content {
		if c.IsGate() {
			out = append(out, *c.Gate)
		}
	}
	return out
}

// enumerateJoined splits node's own content into its join clauses (if
// any) and everything else, then either enumerates node directly or
// cross-multiplies across every join clause's matches.
func enumerateJoined(node *ast.Node, ctx label.Path, content []ast.ContentEntry, shortname string, dep []string, opts Options, yield func(ast.Dict) bool) bool {
	joinClauses, rest := splitJoinContent(node.Content)
	if len(joinClauses) == 0 {
		return enumeratePlain(node, ctx, content, shortname, dep, opts, yield)
	}

	savedContent := node.Content
	node.Content = rest
	defer func() { node.Content = savedContent }()

	var gates []filter.Gate
	for _, clause := range joinClauses {
		for _, conj := range clause.Filter.Disjuncts {
			gates = append(gates, filter.Gate{Kind: filter.KindOnly, Filter: filter.Filter{Disjuncts: []filter.Conjunct{conj}}})
		}
	}
	return joinCross(node, ctx, content, shortname, dep, gates, opts, yield)
}

// splitJoinContent separates a node's top-level KindJoin gates from
// everything else in its content list, preserving relative order within
// each group.
func splitJoinContent(content []ast.ContentEntry) (joins []filter.Gate, rest []ast.ContentEntry) {
	for _, c := range content {
		if c.IsGate() && c.Gate.Kind == filter.KindJoin {
			joins = append(joins, *c.Gate)
			continue
		}
		rest = append(rest, c)
	}
	return joins, rest
}

// joinCross cross-multiplies the dictionaries produced under each of
// gates, left to right, merging each pair via mergeJoined.
func joinCross(node *ast.Node, ctx label.Path, content []ast.ContentEntry, shortname string, dep []string, gates []filter.Gate, opts Options, yield func(ast.Dict) bool) bool {
	if len(gates) == 1 {
		joined := append(append([]ast.ContentEntry(nil), node.Content...), ast.ContentEntry{Gate: &gates[0]})
		savedContent := node.Content
		node.Content = joined
		defer func() { node.Content = savedContent }()
		return enumeratePlain(node, ctx, content, shortname, dep, opts, yield)
	}

	first, restGates := gates[0], gates[1:]
	savedContent := node.Content
	joined := append(append([]ast.ContentEntry(nil), savedContent...), ast.ContentEntry{Gate: &first})

	ok := true
	node.Content = joined
	enumeratePlain(node, ctx, content, shortname, dep, opts, func(d1 ast.Dict) bool {
		node.Content = savedContent
		cont := joinCross(node, ctx, content, shortname, dep, restGates, opts, func(d2 ast.Dict) bool {
			if !yield(mergeJoined(d1, d2)) {
				ok = false
				return false
			}
			return true
		})
		node.Content = joined
		return ok && cont
	})
	node.Content = savedContent
	return ok
}

// mergeJoined combines two dictionaries produced by independent join
// clauses rooted at the same node: d2's plain keys win ties, name and
// shortname are merged via combineNames, dep is concatenated, and the two
// reserved map keys are merged key by key with d2 winning ties.
func mergeJoined(d1, d2 ast.Dict) ast.Dict {
	out := d1.Clone()
	n1, _ := d1.GetString(ast.KeyName)
	n2, _ := d2.GetString(ast.KeyName)
	s1, _ := d1.GetString(ast.KeyShortname)
	s2, _ := d2.GetString(ast.KeyShortname)

	for k, v := range d2 {
		switch k.Base {
		case ast.KeyName, ast.KeyShortname, ast.KeyDep, ast.KeyNameMapFile, ast.KeyShortNameMapFile:
			continue
		default:
			out[k] = v
		}
	}

	out.Set(ast.KeyName, combineNames(n1, n2))
	out.Set(ast.KeyShortname, combineNames(s1, s2))

	dep1, _ := d1[ast.Key{Base: ast.KeyDep}].([]string)
	dep2, _ := d2[ast.Key{Base: ast.KeyDep}].([]string)
	merged := make([]string, 0, len(dep1)+len(dep2))
	merged = append(merged, dep1...)
	merged = append(merged, dep2...)
	out[ast.Key{Base: ast.KeyDep}] = merged

	out[ast.Key{Base: ast.KeyNameMapFile}] = mergeStringMaps(d1, d2, ast.KeyNameMapFile)
	out[ast.Key{Base: ast.KeyShortNameMapFile}] = mergeStringMaps(d1, d2, ast.KeyShortNameMapFile)
	return out
}

func mergeStringMaps(d1, d2 ast.Dict, base string) map[string]string {
	m1, _ := d1[ast.Key{Base: base}].(map[string]string)
	m2, _ := d2[ast.Key{Base: base}].(map[string]string)
	out := make(map[string]string, len(m1)+len(m2))
	for k, v := range m1 {
		out[k] = v
	}
	for k, v := range m2 {
		out[k] = v
	}
	return out
}

// enumeratePlain walks a single node, recording its dependency hints in
// dep, honoring its content's Only/No/Condition/NegativeCondition gates (both
// its own, "internal", and whatever was inherited from ancestors,
// "external"), the failure-memoisation cache, and recurses into children
// in document order.
func enumeratePlain(node *ast.Node, ctx label.Path, content []ast.ContentEntry, shortname string, dep []string, opts Options, yield func(ast.Dict) bool) bool {
	for _, f := range node.Dependencies {
		dotted := ctx.Extend(node.Name...).String()
		dep = append(append([]string(nil), dep...), dotted+"."+f.String())
	}

	newCtx := ctx.Extend(node.Name...)
	ctxSet := newCtx.Set()
	descendants := node.Labels

	internalGates := gatesOf(node.Content)
	externalGates := gatesOf(content)
	if node.LookupFailure(newCtx, ctxSet, descendants, internalGates, externalGates) {
		return true
	}

	internal, ok := processEntries(node.Content, newCtx, ctxSet, descendants)
	if !ok {
		node.RecordFailure(newCtx, ctxSet, internalGates, externalGates)
		return true
	}
	external, ok := processEntries(content, newCtx, ctxSet, descendants)
	if !ok {
		node.RecordFailure(newCtx, ctxSet, internalGates, externalGates)
		return true
	}

	newContent := append(append([]ast.ContentEntry(nil), internal...), external...)

	newShortname := shortname
	if node.AppendToShortname {
		for _, l := range node.Name {
			if newShortname == "" {
				newShortname = l.Value
			} else {
				newShortname = newShortname + "." + l.Value
			}
		}
	}

	if len(node.Children) == 0 {
		d := buildLeafDict(newCtx, newContent, newShortname, dep)
		return yield(d)
	}

	sawDefault := false
	for _, child := range node.Children {
		if opts.Defaults && sawDefault && !opts.ExpandDefaults[node.AxisName] {
			break
		}
		produced := false
		cont := enumerateJoined(child, newCtx, newContent, newShortname, dep, opts, func(d ast.Dict) bool {
			produced = true
			return yield(d)
		})
		if child.IsDefault && produced {
			sawDefault = true
		}
		if !cont {
			return false
		}
	}
	return true
}

// processEntries runs the spec's requires-action/is-irrelevant/defer
// state machine over one content list: Only/No gates with no inner
// content prune the whole visit on a hard mismatch; Condition and
// NegativeCondition gates splice their Inner content in (recursively
// processed the same way) once their guard is satisfied, and are simply
// dropped once the guard can never be satisfied. Plain operations pass
// through unchanged. ok is false when some gate demands the entire visit
// be abandoned.
func processEntries(content []ast.ContentEntry, ctx label.Path, ctxSet, descendants *label.Set) ([]ast.ContentEntry, bool) {
	var out []ast.ContentEntry
	for _, c := range content {
		if !c.IsGate() {
			out = append(out, c)
			continue
		}
		g := c.Gate
		switch g.Kind {
		case filter.KindOnly, filter.KindNo:
			if filter.IsIrrelevant(g.Kind, g.Filter, ctx, ctxSet, descendants) {
				continue
			}
			if filter.RequiresAction(g.Kind, g.Filter, ctx, ctxSet, descendants) {
				return nil, false
			}
			out = append(out, c)
		case filter.KindCondition, filter.KindNegativeCondition:
			if filter.IsIrrelevant(g.Kind, g.Filter, ctx, ctxSet, descendants) {
				continue
			}
			if filter.RequiresAction(g.Kind, g.Filter, ctx, ctxSet, descendants) {
				inner, ok := processEntries(c.Inner, ctx, ctxSet, descendants)
				if !ok {
					return nil, false
				}
				out = append(out, inner...)
				continue
			}
			out = append(out, c)
		case filter.KindJoin:
			out = append(out, c)
		}
	}
	return out, true
}

// buildLeafDict materialises a leaf visit's raw dictionary: the reserved
// keys set directly from the accumulated ctx/shortname/dep, then every
// operation in newContent applied in order (own-node operations first,
// inherited ones last -- see DESIGN.md for why that order reconstructs
// original source-text chronology).
func buildLeafDict(ctx label.Path, newContent []ast.ContentEntry, shortname string, dep []string) ast.Dict {
	d := ast.NewDict()
	d[ast.Key{Base: ast.KeyName}] = ctx.String()
	d[ast.Key{Base: ast.KeyShortname}] = shortname
	d[ast.Key{Base: ast.KeyDep}] = append([]string(nil), dep...)

	subst := func(raw string, cur ast.Dict) string {
		return substitute(raw, cur)
	}
	for _, c := range newContent {
		if c.IsGate() {
			continue
		}
		c.Op.Apply(d, subst)
	}
	applySuffixBounds(d)
	return d
}
