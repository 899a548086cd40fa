package enumerator

import (
	"testing"

	"github.com/pevogam/cartconf/pkgs/ast"
)

func TestApplySuffixBoundsMaxClamps(t *testing.T) {
	d := ast.NewDict()
	d.Set("mem", "2G")
	d.Set("mem_max", "1G")
	applySuffixBounds(d)
	v, _ := d.GetString("mem")
	if v != "1G" {
		t.Fatalf("mem = %q, want clamped to 1G", v)
	}
}

func TestApplySuffixBoundsMaxLeavesSmallerAlone(t *testing.T) {
	d := ast.NewDict()
	d.Set("mem", "512M")
	d.Set("mem_max", "1G")
	applySuffixBounds(d)
	v, _ := d.GetString("mem")
	if v != "512M" {
		t.Fatalf("mem = %q, want unchanged 512M", v)
	}
}

func TestApplySuffixBoundsMinClamps(t *testing.T) {
	d := ast.NewDict()
	d.Set("mem", "10M")
	d.Set("mem_min", "512M")
	applySuffixBounds(d)
	v, _ := d.GetString("mem")
	if v != "512M" {
		t.Fatalf("mem = %q, want clamped up to 512M", v)
	}
}

func TestApplySuffixBoundsFixedOverwritesUnconditionally(t *testing.T) {
	d := ast.NewDict()
	d.Set("mem", "2G")
	d.Set("mem_fixed", "1M")
	applySuffixBounds(d)
	v, _ := d.GetString("mem")
	if v != "1M" {
		t.Fatalf("mem = %q, want fixed to 1M", v)
	}
}

func TestApplySuffixBoundsAbsentBareKeyIsNoop(t *testing.T) {
	d := ast.NewDict()
	d.Set("mem_max", "1G")
	applySuffixBounds(d)
	if _, ok := d.GetString("mem"); ok {
		t.Fatal("a _max companion with no bare key present must not create one")
	}
}

func TestApplySuffixBoundsUnitlessValuesCompare(t *testing.T) {
	d := ast.NewDict()
	d.Set("mem", "2000")
	d.Set("mem_max", "1000")
	applySuffixBounds(d)
	v, _ := d.GetString("mem")
	if v != "1000" {
		t.Fatalf("mem = %q, want clamped to 1000 (both unitless, compared as MB)", v)
	}
}
