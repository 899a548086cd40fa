package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDictReservedKeysPopulated(t *testing.T) {
	d := NewDict()
	name, ok := d.GetString(KeyName)
	if !ok || name != "" {
		t.Fatalf("name = %q, ok=%v; want empty string present", name, ok)
	}
	dep, ok := d[Key{Base: KeyDep}].([]string)
	if !ok || len(dep) != 0 {
		t.Fatalf("dep = %v; want empty slice", dep)
	}
	nameMap, ok := d[Key{Base: KeyNameMapFile}].(map[string]string)
	if !ok || len(nameMap) != 0 {
		t.Fatalf("_name_map_file = %v; want empty map", nameMap)
	}
}

func TestIsReserved(t *testing.T) {
	for _, k := range []string{KeyName, KeyShortname, KeyDep, KeyNameMapFile, KeyShortNameMapFile} {
		if !IsReserved(k) {
			t.Errorf("IsReserved(%q) = false, want true", k)
		}
	}
	if IsReserved("foo") {
		t.Error("IsReserved(\"foo\") = true, want false")
	}
}

func TestKeyWithSuffixAppends(t *testing.T) {
	k := Key{Base: "foo"}
	k1 := k.WithSuffix("_x")
	k2 := k1.WithSuffix("_y")

	if diff := cmp.Diff([]string{"_x"}, k1.Suffixes); diff != "" {
		t.Errorf("k1 suffixes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"_x", "_y"}, k2.Suffixes); diff != "" {
		t.Errorf("k2 suffixes mismatch (-want +got):\n%s", diff)
	}
	if !k.Plain() || k1.Plain() {
		t.Error("Plain() should distinguish suffixed from unsuffixed keys")
	}
}

func TestDictSetAndGetString(t *testing.T) {
	d := NewDict()
	d.Set("foo", "bar")
	v, ok := d.GetString("foo")
	if !ok || v != "bar" {
		t.Fatalf("GetString(foo) = (%q, %v), want (bar, true)", v, ok)
	}
}

func TestBaseKeysDeterministicOrder(t *testing.T) {
	d := NewDict()
	d.Set("zeta", "1")
	d.Set("alpha", "2")
	got := d.BaseKeys()

	idxAlpha, idxZeta := -1, -1
	for i, b := range got {
		if b == "alpha" {
			idxAlpha = i
		}
		if b == "zeta" {
			idxZeta = i
		}
	}
	if idxAlpha == -1 || idxZeta == -1 || idxAlpha > idxZeta {
		t.Fatalf("expected alpha before zeta in sorted BaseKeys, got %v", got)
	}
}

func TestKeysWithBaseOrdersUnsuffixedFirst(t *testing.T) {
	d := NewDict()
	base := "foo"
	d[Key{Base: base, Suffixes: []string{"_b"}}] = "1"
	d[Key{Base: base}] = "2"
	d[Key{Base: base, Suffixes: []string{"_a"}}] = "3"

	keys := d.KeysWithBase(base)
	if !keys[0].Plain() {
		t.Fatalf("expected unsuffixed key first, got %+v", keys)
	}
	if keys[1].Suffixes[0] != "_a" || keys[2].Suffixes[0] != "_b" {
		t.Fatalf("expected suffixed keys lexicographically ordered, got %+v", keys)
	}
}

func TestFlattenLookupSingleSuffixedKey(t *testing.T) {
	d := NewDict()
	d[Key{Base: "k", Suffixes: []string{"_s"}}] = "bye"

	v, ok := d.FlattenLookup("k")
	if !ok || v != "bye" {
		t.Fatalf("FlattenLookup(k) = (%q, %v), want (bye, true)", v, ok)
	}
}

func TestFlattenLookupDisagreeingValuesMisses(t *testing.T) {
	d := NewDict()
	d[Key{Base: "k", Suffixes: []string{"_a"}}] = "one"
	d[Key{Base: "k", Suffixes: []string{"_b"}}] = "two"

	_, ok := d.FlattenLookup("k")
	if ok {
		t.Fatal("expected FlattenLookup to miss when suffixed variants disagree")
	}
}

func TestFlattenLookupAbsentKeyMisses(t *testing.T) {
	d := NewDict()
	if _, ok := d.FlattenLookup("nope"); ok {
		t.Fatal("expected FlattenLookup to miss an absent key")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	d := NewDict()
	d[Key{Base: KeyDep}] = []string{"a"}
	clone := d.Clone()
	dep := clone[Key{Base: KeyDep}].([]string)
	dep[0] = "mutated"

	orig := d[Key{Base: KeyDep}].([]string)
	if orig[0] != "a" {
		t.Fatal("mutating a clone's slice value must not affect the original")
	}
}
