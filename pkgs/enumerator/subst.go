package enumerator

import (
	"regexp"
	"strings"

	"github.com/pevogam/cartconf/pkgs/ast"
)

var substRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// substitute resolves every "${name}" reference in raw against d, in
// order. A reference that cannot be resolved (no key shares its base, or
// several do but disagree on value) is left untouched, along with every
// character after it: substitution aborts at the first miss rather than
// skipping over it, so a malformed or dangling reference is visible
// verbatim in the output instead of silently partially expanded.
func substitute(raw string, d ast.Dict) string {
	var b strings.Builder
	rest := raw
	for {
		loc := substRef.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:loc[0]])
		name := rest[loc[2]:loc[3]]
		if v, ok := d.FlattenLookup(name); ok {
			b.WriteString(v)
			rest = rest[loc[1]:]
			continue
		}
		b.WriteString(rest[loc[0]:])
		return b.String()
	}
}
