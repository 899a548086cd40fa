package label

import "testing"

func TestLabelLongName(t *testing.T) {
	if got := New("rhel64").LongName(); got != "rhel64" {
		t.Fatalf("bare label LongName = %q, want %q", got, "rhel64")
	}
	if got := NewAxis("tests", "wait").LongName(); got != "(tests=wait)" {
		t.Fatalf("axis label LongName = %q, want %q", got, "(tests=wait)")
	}
}

func TestLabelEqualAxisAsymmetric(t *testing.T) {
	bare := New("wait")
	axised := NewAxis("tests", "wait")
	otherAxis := NewAxis("other", "wait")

	if !bare.Equal(axised) {
		t.Fatal("bare label should match an axis-qualified label sharing its value")
	}
	if axised.Equal(bare) {
		t.Fatal("an axis-qualified label must not match a bare label by value alone")
	}
	if axised.Equal(otherAxis) {
		t.Fatal("two differently-axised labels sharing a value must not be equal")
	}
	if !axised.Equal(NewAxis("tests", "wait")) {
		t.Fatal("identical axis-qualified labels must be equal")
	}
}

func TestLabelHashStableOnValue(t *testing.T) {
	a := New("wait")
	b := NewAxis("tests", "wait")
	if a.Hash() != b.Hash() {
		t.Fatal("labels sharing a value must hash equal regardless of axis")
	}
	if a.Hash() == New("other").Hash() {
		t.Fatal("labels with different values should (almost certainly) hash differently")
	}
}

func TestSetContainsHonorsAxisAsymmetry(t *testing.T) {
	s := NewSet()
	s.Add(NewAxis("tests", "wait"))

	if !s.Contains(New("wait")) {
		t.Fatal("set should find an axised member via a bare query")
	}
	if s.Contains(NewAxis("other", "wait")) {
		t.Fatal("set must not match a differently-axised query")
	}
	if !s.Contains(NewAxis("tests", "wait")) {
		t.Fatal("set should find an exact axised match")
	}
}

func TestSetCloneIsIndependent(t *testing.T) {
	s := NewSet()
	s.Add(New("a"))
	clone := s.Clone()
	clone.Add(New("b"))

	if s.Contains(New("b")) {
		t.Fatal("mutating a clone must not affect the original set")
	}
	if !clone.Contains(New("a")) {
		t.Fatal("clone should retain everything from the original")
	}
}

func TestPathIndexOfAndExtend(t *testing.T) {
	p := Path{New("a"), New("b")}
	if idx := p.IndexOf(New("b")); idx != 1 {
		t.Fatalf("IndexOf(b) = %d, want 1", idx)
	}
	if idx := p.IndexOf(New("z")); idx != -1 {
		t.Fatalf("IndexOf(z) = %d, want -1", idx)
	}

	extended := p.Extend(New("c"))
	if len(p) != 2 {
		t.Fatal("Extend must not mutate the receiver")
	}
	if diff := extended.String(); diff != "a.b.c" {
		t.Fatalf("extended path = %q, want %q", diff, "a.b.c")
	}
}

func TestPathStringRendersAxisedLabels(t *testing.T) {
	p := Path{New("j"), NewAxis("tests", "wait")}
	if got := p.String(); got != "j.(tests=wait)" {
		t.Fatalf("path String() = %q, want %q", got, "j.(tests=wait)")
	}
}
