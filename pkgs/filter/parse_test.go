package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pevogam/cartconf/pkgs/label"
	"github.com/pevogam/cartconf/pkgs/lexer"
)

func tokenize(t *testing.T, src string) []lexer.Token {
	t.Helper()
	toks, err := lexer.Tokenize(src, 1)
	if err != nil {
		t.Fatalf("tokenize(%q): %v", src, err)
	}
	return toks
}

func TestParseSingleLabel(t *testing.T) {
	f, err := Parse(tokenize(t, "rhel64"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Filter{Disjuncts: []Conjunct{{Sequence{label.New("rhel64")}}}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSequenceDotJoins(t *testing.T) {
	f, err := Parse(tokenize(t, "a.b.c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Filter{Disjuncts: []Conjunct{{Sequence{label.New("a"), label.New("b"), label.New("c")}}}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDoubleDotConjunct(t *testing.T) {
	f, err := Parse(tokenize(t, "a..b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Filter{Disjuncts: []Conjunct{{
		Sequence{label.New("a")},
		Sequence{label.New("b")},
	}}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCommaDisjunct(t *testing.T) {
	f, err := Parse(tokenize(t, "a,b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Filter{Disjuncts: []Conjunct{
		{Sequence{label.New("a")}},
		{Sequence{label.New("b")}},
	}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWhitespaceActsLikeComma(t *testing.T) {
	f, err := Parse(tokenize(t, "a b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Filter{Disjuncts: []Conjunct{
		{Sequence{label.New("a")}},
		{Sequence{label.New("b")}},
	}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAxisedAtom(t *testing.T) {
	f, err := Parse(tokenize(t, "(tests=wait)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Filter{Disjuncts: []Conjunct{{Sequence{label.NewAxis("tests", "wait")}}}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAnonymousParenAtom(t *testing.T) {
	f, err := Parse(tokenize(t, "(rhel64)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Filter{Disjuncts: []Conjunct{{Sequence{label.New("rhel64")}}}}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTooManyDotsIsError(t *testing.T) {
	_, err := Parse(tokenize(t, "a...b"))
	if err == nil {
		t.Fatal("expected a parse error for '...'")
	}
}

func TestParseAdjacentIdentifiersWithoutSeparatorIsError(t *testing.T) {
	toks := []lexer.Token{
		{Type: lexer.Identifier, Value: "a", Line: 1, Column: 1},
		{Type: lexer.Identifier, Value: "b", Line: 1, Column: 2},
		{Type: lexer.EndL, Line: 1, Column: 3},
	}
	_, err := Parse(toks)
	if err == nil {
		t.Fatal("expected a parse error for two identifiers with no connective")
	}
}

func TestFilterStringRoundTrips(t *testing.T) {
	f, err := Parse(tokenize(t, "a.b..c,(tests=wait)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "a.b..c,(tests=wait)"
	if got := f.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestEmptyFilter(t *testing.T) {
	if !(Filter{}).Empty() {
		t.Fatal("zero-value Filter should be Empty")
	}
}
