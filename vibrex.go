// Package vibrex implements a limited-feature, byte-oriented regular
// expression engine: a recursive-descent parser builds a Thompson-
// construction NFA, and a fixed-order optimizer substitutes one of five
// specialized matchers ahead of general NFA simulation whenever the raw
// pattern text has a recognizable shape.
//
// The engine supports literals, '.', character classes, the '^' and '$'
// anchors, the '*'/'+'/'?' quantifiers, non-capturing grouping, and
// alternation. It does not support captures, backreferences, lookaround,
// counted repetition ("{m,n}"), Unicode-aware matching, case-insensitive
// matching, or multiline anchors.
package vibrex

import (
	"sync"

	"github.com/vibrex/vibrex/internal/literal"
	"github.com/vibrex/vibrex/internal/nfa"
	"github.com/vibrex/vibrex/internal/optimize"
	"github.com/vibrex/vibrex/internal/parser"
)

// Pattern is a compiled regular expression. It is immutable once returned
// by Compile and safe to call Match on concurrently from many goroutines;
// each call obtains its own scratch state from an internal sync.Pool so no
// mutable state is ever shared between concurrent matches.
type Pattern struct {
	source string

	prog   *nfa.Program
	prefix literal.Prefix
	fast   optimize.Matcher // nil when no specialized probe applied

	scratchPool sync.Pool

	mu     sync.Mutex
	closed bool
}

// Compile parses pattern and builds a Pattern under the default resource
// limits. It is equivalent to CompileConfig(pattern, DefaultConfig()).
func Compile(pattern string) (*Pattern, error) {
	return CompileConfig(pattern, DefaultConfig())
}

// MustCompile is like Compile but panics if pattern fails to compile. It is
// intended for use with patterns known at program-initialization time.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// CompileConfig parses pattern and builds a Pattern under cfg's resource
// limits, validating cfg first.
func CompileConfig(pattern string, cfg Config) (*Pattern, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(pattern) == 0 {
		return nil, newError(ErrKindNullPattern, pattern, -1, "pattern is empty")
	}
	if len(pattern) > cfg.MaxPatternLength {
		return nil, newError(ErrKindPatternTooLong, pattern, -1, "pattern exceeds MaxPatternLength")
	}

	pat := []byte(pattern)

	root, err := parser.Parse(pat, parser.Limits{
		MaxRecursionDepth: cfg.MaxRecursionDepth,
		MaxAlternations:   cfg.MaxAlternations,
	})
	if err != nil {
		return nil, translateParseError(pattern, err)
	}

	anchoredStart := len(pat) > 0 && pat[0] == '^'
	anchoredEnd := len(pat) > 0 && pat[len(pat)-1] == '$' && (len(pat) < 2 || pat[len(pat)-2] != '\\')

	prog, err := nfa.Build(root, cfg.MaxNFAStates, anchoredEnd)
	if err != nil {
		return nil, newError(ErrKindResourceLimit, pattern, -1, err.Error())
	}

	p := &Pattern{
		source: pattern,
		prog:   prog,
	}
	p.scratchPool.New = func() any { return nfa.NewScratch() }

	if cfg.EnableOptimizer {
		if m, ok := optimize.Try(pat); ok {
			p.fast = m
		}
	}

	// A literal prefix extracted from a pattern with a top-level '|' only
	// bounds one branch of the alternation, not the whole pattern, so the
	// Boyer-Moore fast path would wrongly reject text matching a different
	// branch (vibrex.c's has_top_level_alt guard). Skip it unless a
	// specialized matcher already proved it handles the whole pattern - in
	// which case Match tries p.fast first anyway and never consults prefix.
	if p.fast != nil || !literal.HasTopLevelAlt(pat) {
		p.prefix = literal.Extract(pat, anchoredStart, anchoredEnd)
	}

	return p, nil
}

// translateParseError maps a *parser.Error onto the public ErrorKind
// taxonomy: a recursion/alternation overflow gets its own kind, everything
// else is a plain grammar violation.
func translateParseError(pattern string, err error) *Error {
	perr, ok := err.(*parser.Error)
	if !ok {
		return newError(ErrKindParse, pattern, -1, err.Error())
	}
	kind := ErrKindParse
	if perr.Kind == parser.ErrRecursionLimit || perr.Kind == parser.ErrTooManyAlternations {
		kind = ErrKindRecursionLimit
	}
	return newError(kind, pattern, perr.Pos, perr.Kind.String())
}

// String returns the source pattern text Compile was called with.
func (p *Pattern) String() string {
	return p.source
}

// Match reports whether text contains any substring matching the compiled
// pattern. A nil or closed Pattern returns false rather than panicking or
// returning a diagnostic, per spec.md §7.
func (p *Pattern) Match(text []byte) bool {
	if p == nil {
		return false
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return false
	}

	if p.fast != nil {
		return p.fast.Match(text)
	}

	if p.prefix.Bytes != nil {
		return p.matchWithLiteralPrefix(text)
	}

	sc := p.scratchPool.Get().(*nfa.Scratch)
	defer p.scratchPool.Put(sc)
	return nfa.Search(p.prog, text, sc)
}

// matchWithLiteralPrefix narrows candidate start offsets using the
// Boyer-Moore prefix scan before handing each candidate to the NFA, rather
// than asking the simulator to probe every offset itself.
func (p *Pattern) matchWithLiteralPrefix(text []byte) bool {
	sc := p.scratchPool.Get().(*nfa.Scratch)
	defer p.scratchPool.Put(sc)

	offset := 0
	for {
		idx := p.prefix.Search(text[offset:])
		if idx < 0 {
			return false
		}
		start := offset + idx
		if nfa.MatchAt(p.prog, text, start, sc) {
			return true
		}
		offset = start + 1
		if offset > len(text) {
			return false
		}
	}
}

// Free marks the pattern closed so that every subsequent Match returns
// false without running a search. It is safe to call multiple times. It is
// not safe to call concurrently with an in-flight Match on the same
// Pattern - same as closing any other shared resource, callers must ensure
// outstanding calls have returned first. Go's garbage collector reclaims
// Pattern's memory on its own; Free exists to give callers an explicit,
// idempotent lifecycle hook matching the three-operation external
// interface of spec.md §6.
func (p *Pattern) Free() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}
