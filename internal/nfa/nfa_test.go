package nfa_test

import (
	"testing"

	"github.com/vibrex/vibrex/internal/ast"
	"github.com/vibrex/vibrex/internal/charclass"
	"github.com/vibrex/vibrex/internal/nfa"
	"github.com/vibrex/vibrex/internal/parser"
)

// buildProg is the test-only bridge from a raw pattern to a compiled
// Program, mirroring the pipeline the root package wires together.
func buildProg(t *testing.T, pat string) *nfa.Program {
	t.Helper()
	node, err := parser.Parse([]byte(pat), parser.Limits{MaxRecursionDepth: 1000, MaxAlternations: 1000})
	if err != nil {
		t.Fatalf("parse %q: %v", pat, err)
	}
	anchoredEnd := len(pat) > 0 && pat[len(pat)-1] == '$' && (len(pat) < 2 || pat[len(pat)-2] != '\\')
	prog, err := nfa.Build(node, 4096, anchoredEnd)
	if err != nil {
		t.Fatalf("build %q: %v", pat, err)
	}
	return prog
}

func TestSearchLiterals(t *testing.T) {
	cases := []struct {
		pat, text string
		want      bool
	}{
		{"abc", "xxabcxx", true},
		{"abc", "ab", false},
		{"a*", "", true},
		{"a*", "aaaa", true},
		{"a+", "", false},
		{"a+", "b", false},
		{"a?b", "b", true},
		{"a?b", "ab", true},
		{".", "", false},
		{".", "x", true},
		{"a|b", "c", false},
		{"a|b", "b", true},
		{"(ab)+", "ababab", true},
		{"(ab)+", "a", false},
	}
	sc := nfa.NewScratch()
	for _, c := range cases {
		prog := buildProg(t, c.pat)
		got := nfa.Search(prog, []byte(c.text), sc)
		if got != c.want {
			t.Errorf("Search(%q, %q) = %v, want %v", c.pat, c.text, got, c.want)
		}
	}
}

func TestSearchAnchors(t *testing.T) {
	cases := []struct {
		pat, text string
		want      bool
	}{
		{"^abc", "abc", true},
		{"^abc", "xabc", false},
		{"abc$", "xabc", true},
		{"abc$", "abcx", false},
		{"^abc$", "abc", true},
		{"^abc$", "abcd", false},
	}
	sc := nfa.NewScratch()
	for _, c := range cases {
		prog := buildProg(t, c.pat)
		got := nfa.Search(prog, []byte(c.text), sc)
		if got != c.want {
			t.Errorf("Search(%q, %q) = %v, want %v", c.pat, c.text, got, c.want)
		}
	}
}

func TestSearchClasses(t *testing.T) {
	cases := []struct {
		pat, text string
		want      bool
	}{
		{"[abc]+", "cab", true},
		{"[abc]+", "xyz", false},
		{"[^abc]+", "xyz", true},
		{"[^abc]+", "abc", false},
		{"[a-z]+", "hello", true},
		{"[a-z]+", "HELLO", false},
	}
	sc := nfa.NewScratch()
	for _, c := range cases {
		prog := buildProg(t, c.pat)
		got := nfa.Search(prog, []byte(c.text), sc)
		if got != c.want {
			t.Errorf("Search(%q, %q) = %v, want %v", c.pat, c.text, got, c.want)
		}
	}
}

func TestFirstByteSkip(t *testing.T) {
	prog := buildProg(t, "needle")
	if !prog.HasFirstByte || prog.FirstByte != 'n' {
		t.Fatalf("expected first-byte skip on 'n', got HasFirstByte=%v FirstByte=%q", prog.HasFirstByte, prog.FirstByte)
	}
	sc := nfa.NewScratch()
	if !nfa.Search(prog, []byte("haystack with a needle in it"), sc) {
		t.Fatal("expected match")
	}
	if nfa.Search(prog, []byte("haystack without"), sc) {
		t.Fatal("expected no match")
	}
}

func TestAnchoredStartDetection(t *testing.T) {
	prog := buildProg(t, "^abc")
	if !prog.AnchoredStart {
		t.Fatal("expected AnchoredStart for ^abc")
	}
	prog2 := buildProg(t, "(^a|b)")
	if prog2.AnchoredStart {
		t.Fatal("expected AnchoredStart false for (^a|b); entry is a Split, not a bare StartAnchor")
	}
}

func TestBuildStateLimitExceeded(t *testing.T) {
	node := ast.Literal('a')
	if _, err := nfa.Build(node, 0, false); err != nfa.ErrTooManyStates {
		t.Fatalf("got %v, want ErrTooManyStates", err)
	}
}

func TestClassBoundaryByte(t *testing.T) {
	set := charclass.New()
	set.SetRange('\xfe', '\xff')
	node := ast.Class(set)
	prog, err := nfa.Build(node, 4096, false)
	if err != nil {
		t.Fatal(err)
	}
	sc := nfa.NewScratch()
	if !nfa.Search(prog, []byte{0xff}, sc) {
		t.Fatal("expected 0xff to match [\\xfe-\\xff]")
	}
	if nfa.Search(prog, []byte{0x00}, sc) {
		t.Fatal("expected 0x00 not to match [\\xfe-\\xff]")
	}
}

// TestConcurrentScratchIsolation exercises one immutable Program from many
// goroutines, each with its own Scratch, per spec.md §5's sharing contract.
func TestConcurrentScratchIsolation(t *testing.T) {
	prog := buildProg(t, "(foo|bar|baz)+")
	type job struct {
		text []byte
		want bool
	}
	jobs := []job{
		{[]byte("foobarbaz"), true},
		{[]byte("barfoo"), true},
		{[]byte("nomatch"), false},
		{[]byte("zzz"), false},
	}
	results := make(chan bool, len(jobs)*4)
	for round := 0; round < 4; round++ {
		for _, j := range jobs {
			go func(j job) {
				sc := nfa.NewScratch()
				results <- nfa.Search(prog, j.text, sc) == j.want
			}(j)
		}
	}
	for i := 0; i < len(jobs)*4; i++ {
		if !<-results {
			t.Error("concurrent Search produced an unexpected result")
		}
	}
}
