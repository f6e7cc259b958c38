package optimize

import (
	"bytes"

	"github.com/coregx/ahocorasick"
)

// acAlternativeThreshold mirrors the teacher's UseAhoCorasick strategy
// selection (meta/strategy.go): beyond this many literal alternatives, an
// Aho-Corasick automaton outperforms scanning each literal individually.
const acAlternativeThreshold = 32

// LiteralAlt matches patterns that are pure alternations of literal strings
// - "cat|dog|bird", "(cat|dog)|(bird|fish)" and similar - with no other
// regex structure, per spec.md §4.3(3). A match is simply "does any
// alternative occur anywhere in text".
type LiteralAlt struct {
	literals [][]byte
	auto     *ahocorasick.Automaton
}

// DetectLiteralAlt implements vibrex.c's can_use_literal_alt_opt plus
// parse_literal_alternatives: the pattern must contain at least one '|',
// use only balanced grouping parens around alternatives, and otherwise
// consist solely of literal bytes (escaped or not) - no '.', '?', '*',
// '+', '[', ']', '^', or '$' anywhere.
func DetectLiteralAlt(pattern []byte) (*LiteralAlt, bool) {
	if !isPureLiteralAlternation(pattern) {
		return nil, false
	}
	lits := flattenAlternatives(pattern)
	if len(lits) < 2 {
		return nil, false
	}

	la := &LiteralAlt{literals: lits}
	if len(lits) > acAlternativeThreshold {
		b := ahocorasick.NewBuilder()
		for _, lit := range lits {
			b.AddPattern(lit)
		}
		auto, err := b.Build()
		if err == nil {
			la.auto = auto
		}
	}
	return la, true
}

// isPureLiteralAlternation reimplements can_use_literal_alt_opt's
// single-pass structural scan: balanced parens that each open at the start
// of an alternative and close at its end, at least one top-level or nested
// '|', and no byte outside the allowed literal/paren/pipe/escape alphabet.
func isPureLiteralAlternation(pattern []byte) bool {
	hasAlt := false
	depth := 0
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '(':
			if i > 0 && pattern[i-1] != '(' && pattern[i-1] != '|' {
				return false
			}
			depth++
		case c == ')':
			if i+1 < len(pattern) && pattern[i+1] != ')' && pattern[i+1] != '|' {
				return false
			}
			depth--
			if depth < 0 {
				return false
			}
		case c == '|':
			hasAlt = true
		case c == '\\' && i+1 < len(pattern):
			i++ // skip escaped byte, whatever it is
		case bytes.IndexByte([]byte(".?*+[]^$"), c) >= 0:
			return false
		}
	}
	return hasAlt && depth == 0
}

// flattenAlternatives recursively strips one fully-wrapping pair of
// parentheses and splits on top-level '|', collecting literal leaves. It
// generalizes parse_literal_alternatives's single-level grouping to
// arbitrarily nested groups like "(cat|dog)|(bird|fish)".
func flattenAlternatives(pattern []byte) [][]byte {
	pattern = unwrapFullGroup(pattern)

	parts := splitTopLevel(pattern, '|')
	if len(parts) == 1 {
		return [][]byte{unescapeLiteral(parts[0])}
	}

	var out [][]byte
	for _, part := range parts {
		out = append(out, flattenAlternatives(part)...)
	}
	return out
}

// unwrapFullGroup strips a single leading '(' and trailing ')' when they
// form one balanced group spanning the entire string.
func unwrapFullGroup(pattern []byte) []byte {
	if len(pattern) < 2 || pattern[0] != '(' || pattern[len(pattern)-1] != ')' {
		return pattern
	}
	depth := 0
	for i, c := range pattern {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				if i == len(pattern)-1 {
					return unwrapFullGroup(pattern[1 : len(pattern)-1])
				}
				return pattern
			}
		}
	}
	return pattern
}

// splitTopLevel splits pattern on occurrences of sep that are not inside
// parentheses.
func splitTopLevel(pattern []byte, sep byte) [][]byte {
	var parts [][]byte
	depth := 0
	start := 0
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '(':
			depth++
		case ')':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, pattern[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, pattern[start:])
	return parts
}

// unescapeLiteral strips backslashes, since the grammar this probe accepts
// only ever uses '\' to escape a literal byte (any metacharacter byte
// would already have rejected the pattern in isPureLiteralAlternation).
func unescapeLiteral(lit []byte) []byte {
	out := make([]byte, 0, len(lit))
	for i := 0; i < len(lit); i++ {
		if lit[i] == '\\' && i+1 < len(lit) {
			i++
		}
		out = append(out, lit[i])
	}
	return out
}

// Match reports whether any alternative literal occurs anywhere in text.
func (l *LiteralAlt) Match(text []byte) bool {
	if l.auto != nil {
		return l.auto.IsMatch(text)
	}
	for _, lit := range l.literals {
		if bytes.Contains(text, lit) {
			return true
		}
	}
	return false
}
