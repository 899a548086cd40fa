package enumerator

import (
	"strconv"
	"strings"

	"github.com/pevogam/cartconf/pkgs/ast"
)

var sizeUnits = map[byte]float64{
	'B': 1,
	'K': 1024,
	'M': 1024 * 1024,
	'G': 1024 * 1024 * 1024,
	'T': 1024 * 1024 * 1024 * 1024,
}

// parseSize parses a size literal ("512M", "2G", "100") into a byte
// count. A literal with no unit suffix, and a literal being compared
// against one that carries a unit, both default to "M" (section 9's size
// bound rule always resolves an ambiguous side to megabytes).
func parseSize(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	unit := byte('M')
	numPart := s
	last := s[len(s)-1]
	if mult, ok := sizeUnits[upper(last)]; ok {
		unit = upper(last)
		numPart = s[:len(s)-1]
		_ = mult
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(numPart), 64)
	if err != nil {
		return 0, err
	}
	return n * sizeUnits[unit], nil
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// applySuffixBounds applies every "_max"/"_min"/"_fixed" companion key
// present in d to its corresponding bare base key, clamping or
// overwriting the bare value in place. Companion values that fail to
// parse as sizes are ignored. "_max"/"_min" leave an absent or
// unparseable bare key alone; "_fixed" writes the bare key whether or
// not it was present.
func applySuffixBounds(d ast.Dict) {
	for _, base := range d.BaseKeys() {
		var kind string
		var stem string
		switch {
		case strings.HasSuffix(base, "_max"):
			kind, stem = "max", strings.TrimSuffix(base, "_max")
		case strings.HasSuffix(base, "_min"):
			kind, stem = "min", strings.TrimSuffix(base, "_min")
		case strings.HasSuffix(base, "_fixed"):
			kind, stem = "fixed", strings.TrimSuffix(base, "_fixed")
		default:
			continue
		}
		if stem == "" || ast.IsReserved(stem) {
			continue
		}
		boundRaw, ok := d.GetString(base)
		if !ok {
			continue
		}
		bound, err := parseSize(boundRaw)
		if err != nil {
			continue
		}

		if kind == "fixed" {
			d.Set(stem, boundRaw)
			continue
		}
		curRaw, ok := d.GetString(stem)
		if !ok {
			continue
		}
		cur, err := parseSize(curRaw)
		if err != nil {
			continue
		}
		switch kind {
		case "max":
			if cur > bound {
				d.Set(stem, boundRaw)
			}
		case "min":
			if cur < bound {
				d.Set(stem, boundRaw)
			}
		}
	}
}
