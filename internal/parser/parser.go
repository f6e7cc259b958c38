// Package parser implements the recursive-descent parser described in
// spec.md §4.1: a grammar of alt / cat / piece / atom productions that
// builds an internal/ast.Node tree directly (no intermediate token stream).
//
// The grammar:
//
//	alt   := cat ('|' cat)*
//	cat   := piece*
//	piece := atom ('*' | '+' | '?')?
//	atom  := '.' | '^' | '$' | '(' alt ')' | '[' class ']' | '\' any | literal
//
// An empty cat is legal - it denotes the empty match, which is what makes
// "a|", "|a" and "()" valid patterns.
package parser

import (
	"github.com/vibrex/vibrex/internal/ast"
	"github.com/vibrex/vibrex/internal/charclass"
)

const metachars = ".^$|()[]\\*+?"

// Limits bounds recursion and alternation-operator counts during parsing.
// Pattern-length is checked by the caller before Parse is invoked (it is a
// property of the raw bytes, not of the grammar).
type Limits struct {
	MaxRecursionDepth int
	MaxAlternations   int
}

// Parser holds the mutable state of one parse.
type Parser struct {
	pat      []byte
	pos      int
	depth    int
	limits   Limits
	altCount int
}

// Parse parses pat under the given limits and returns the root AST node.
// On failure it returns a *Error describing the first problem encountered.
func Parse(pat []byte, limits Limits) (*ast.Node, error) {
	p := &Parser{pat: pat, limits: limits}
	node, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.pat) {
		return nil, &Error{Kind: ErrTrailingGarbage, Pos: p.pos}
	}
	return node, nil
}

func (p *Parser) eof() bool { return p.pos >= len(p.pat) }

func (p *Parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.pat[p.pos]
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.limits.MaxRecursionDepth {
		return &Error{Kind: ErrRecursionLimit, Pos: p.pos}
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// parseAlt implements: alt := cat ('|' cat)*
func (p *Parser) parseAlt() (*ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	first, err := p.parseCat()
	if err != nil {
		return nil, err
	}
	subs := []*ast.Node{first}
	for p.peek() == '|' {
		p.altCount++
		if p.altCount > p.limits.MaxAlternations {
			return nil, &Error{Kind: ErrTooManyAlternations, Pos: p.pos}
		}
		p.pos++ // consume '|'
		next, err := p.parseCat()
		if err != nil {
			return nil, err
		}
		subs = append(subs, next)
	}
	return ast.Alt(subs...), nil
}

// parseCat implements: cat := piece*
func (p *Parser) parseCat() (*ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	var subs []*ast.Node
	for {
		if p.eof() || p.peek() == '|' || p.peek() == ')' {
			break
		}
		piece, err := p.parsePiece()
		if err != nil {
			return nil, err
		}
		subs = append(subs, piece)
	}
	return ast.Concat(subs...), nil
}

// parsePiece implements: piece := atom ('*' | '+' | '?')?
func (p *Parser) parsePiece() (*ast.Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	switch p.peek() {
	case '*':
		p.pos++
		return ast.Star(atom), nil
	case '+':
		p.pos++
		return ast.Plus(atom), nil
	case '?':
		p.pos++
		return ast.Quest(atom), nil
	default:
		return atom, nil
	}
}

// parseAtom implements:
//
//	atom := '.' | '^' | '$' | '(' alt ')' | '[' class ']' | '\' any | literal
func (p *Parser) parseAtom() (*ast.Node, error) {
	if p.eof() {
		return nil, &Error{Kind: ErrDanglingQuantifier, Pos: p.pos}
	}

	c := p.peek()
	switch c {
	case '*', '+', '?':
		return nil, &Error{Kind: ErrDanglingQuantifier, Pos: p.pos}
	case '.':
		p.pos++
		return ast.Any(), nil
	case '^':
		p.pos++
		return ast.StartAnchor(), nil
	case '$':
		p.pos++
		return ast.EndAnchor(), nil
	case '(':
		p.pos++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, &Error{Kind: ErrUnmatchedParen, Pos: p.pos}
		}
		p.pos++
		return inner, nil
	case ')':
		return nil, &Error{Kind: ErrUnmatchedParen, Pos: p.pos}
	case '[':
		return p.parseClass()
	case '\\':
		p.pos++
		if p.eof() {
			return nil, &Error{Kind: ErrTrailingEscape, Pos: p.pos}
		}
		escaped := p.pat[p.pos]
		p.pos++
		return ast.Literal(escaped), nil
	default:
		p.pos++
		return ast.Literal(c), nil
	}
}

// parseClass implements the '[' class ']' atom: an optional leading '^'
// negates the class; '-' is a range operator except when it is the first or
// last character of the class, where it is literal.
func (p *Parser) parseClass() (*ast.Node, error) {
	start := p.pos
	p.pos++ // consume '['

	negate := false
	if p.peek() == '^' {
		negate = true
		p.pos++
	}

	set := charclass.New()
	members := 0

	for {
		if p.eof() {
			return nil, &Error{Kind: ErrUnmatchedBracket, Pos: start}
		}
		if p.peek() == ']' {
			break
		}

		lo, err := p.classByte()
		if err != nil {
			return nil, err
		}

		// '-' is literal at the first/last position of the class; it is
		// only a range operator when both a following byte and a
		// terminating ']' exist.
		if p.peek() == '-' && p.pos+1 < len(p.pat) && p.pat[p.pos+1] != ']' {
			p.pos++ // consume '-'
			hi, err := p.classByte()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, &Error{Kind: ErrInvertedRange, Pos: p.pos}
			}
			set.SetRange(lo, hi)
		} else {
			set.Set(lo)
		}
		members++
	}

	if members == 0 {
		return nil, &Error{Kind: ErrEmptyClass, Pos: start}
	}

	p.pos++ // consume ']'
	if negate {
		set.Negate()
	}
	return ast.Class(set), nil
}

// classByte reads one byte inside a character class, honoring '\' escapes.
func (p *Parser) classByte() (byte, error) {
	if p.eof() {
		return 0, &Error{Kind: ErrUnmatchedBracket, Pos: p.pos}
	}
	c := p.pat[p.pos]
	if c == '\\' {
		p.pos++
		if p.eof() {
			return 0, &Error{Kind: ErrTrailingEscape, Pos: p.pos}
		}
		c = p.pat[p.pos]
	}
	p.pos++
	return c, nil
}
