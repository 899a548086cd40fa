package enumerator

import "github.com/pevogam/cartconf/pkgs/ast"

// finalize performs the one-shot suffix reconciliation pass applied to
// every dictionary just before it leaves the enumerator: each base key
// that still carries one or more suffix-tagged variants is collapsed
// either to a single bare key (when skipdups allows it) or renamed to a
// single flattened key encoding its whole suffix chain.
func finalize(d ast.Dict, skipdups bool) ast.Dict {
	out := ast.NewDict()
	for _, base := range d.BaseKeys() {
		if ast.IsReserved(base) {
			out[ast.Key{Base: base}] = d[ast.Key{Base: base}]
			continue
		}
		keys := d.KeysWithBase(base)
		if len(keys) == 1 && keys[0].Plain() {
			out[ast.Key{Base: base}] = d[keys[0]]
			continue
		}
		if len(keys) >= 2 && skipdups && allEqual(d, keys) {
			out[ast.Key{Base: base}] = d[keys[0]]
			continue
		}
		for _, k := range keys {
			newKey := ast.Key{Base: base, Suffixes: []string{suffixString(k.Suffixes)}}
			out[newKey] = d[k]
		}
	}
	return out
}

func allEqual(d ast.Dict, keys []ast.Key) bool {
	first, _ := d[keys[0]].(string)
	for _, k := range keys[1:] {
		v, _ := d[k].(string)
		if v != first {
			return false
		}
	}
	return true
}

// suffixString flattens a key's whole suffix chain into the single
// string appended after its base: the first suffix applied keeps its
// position, the remainder of the chain is reversed. With zero or one
// suffix this is indistinguishable from simple concatenation; the
// reversal only shows once a key has been suffix-tagged three or more
// times.
func suffixString(suffixes []string) string {
	if len(suffixes) == 0 {
		return ""
	}
	out := suffixes[0]
	for i := len(suffixes) - 1; i >= 1; i-- {
		out += suffixes[i]
	}
	return out
}
