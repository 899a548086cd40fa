package parser

import (
	"iter"

	"github.com/pevogam/cartconf/pkgs/ast"
	"github.com/pevogam/cartconf/pkgs/enumerator"
)

// GetDicts streams every variant dictionary the parsed tree denotes, in
// document order. skipdups controls suffix reconciliation: when true, a
// base key whose every suffixed variant agrees on value collapses to a
// bare key instead of keeping its suffix. The returned sequence is
// restartable: it replays the same dictionaries on a second range as
// long as the tree is not mutated in between. The failure-memoisation
// cache persists across ranges, so a replay may prune through the cache
// branches that the first range evaluated.
func (p *Parser) GetDicts(skipdups bool) iter.Seq[ast.Dict] {
	return enumerator.Enumerate(p.Tree, enumerator.Options{
		Defaults:       p.Defaults,
		ExpandDefaults: p.ExpandDefaults,
		SkipDups:       skipdups,
	})
}
