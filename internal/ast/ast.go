// Package ast defines the parse tree produced by internal/parser and
// consumed by internal/nfa's Thompson builder.
//
// Groups are non-capturing in this grammar, so "(...)" never shows up as its
// own node kind: the parser simply returns whatever sub-tree it parsed
// between the parens. This keeps the tree shape identical to what the
// builder needs to walk (spec.md's alt/cat/piece/atom grammar, §4.1).
package ast

import "github.com/vibrex/vibrex/internal/charclass"

// Kind identifies the shape of a Node.
type Kind int

const (
	// KindEmpty matches the empty string (an empty cat, e.g. one side of "a|").
	KindEmpty Kind = iota
	// KindLiteral matches exactly one byte.
	KindLiteral
	// KindAny matches any single byte ('.').
	KindAny
	// KindClass matches any byte in Class ('[...]' / '[^...]').
	KindClass
	// KindStartAnchor matches the empty string at input position 0 ('^').
	KindStartAnchor
	// KindEndAnchor matches the empty string at the end of input ('$').
	KindEndAnchor
	// KindConcat matches Sub[0] followed by Sub[1] followed by ...
	KindConcat
	// KindAlt matches any one of Sub[0], Sub[1], ...
	KindAlt
	// KindStar matches Sub[0] zero or more times (greedy).
	KindStar
	// KindPlus matches Sub[0] one or more times (greedy).
	KindPlus
	// KindQuest matches Sub[0] zero or one times (greedy).
	KindQuest
)

// Node is one node of the parsed regular expression.
type Node struct {
	Kind    Kind
	Literal byte           // valid when Kind == KindLiteral
	Class   *charclass.Set // valid when Kind == KindClass
	Sub     []*Node        // operands: len 0 for leaves, 1 for quantifiers, N for Concat/Alt
}

// Empty returns a node matching only the empty string.
func Empty() *Node { return &Node{Kind: KindEmpty} }

// Literal returns a node matching exactly the byte b.
func Literal(b byte) *Node { return &Node{Kind: KindLiteral, Literal: b} }

// Any returns a node matching any single byte.
func Any() *Node { return &Node{Kind: KindAny} }

// Class returns a node matching any byte in set.
func Class(set *charclass.Set) *Node { return &Node{Kind: KindClass, Class: set} }

// StartAnchor returns a node matching the empty string at position 0.
func StartAnchor() *Node { return &Node{Kind: KindStartAnchor} }

// EndAnchor returns a node matching the empty string at the end of input.
func EndAnchor() *Node { return &Node{Kind: KindEndAnchor} }

// Concat returns a node matching each of subs in sequence. A single element
// is returned unwrapped; an empty slice returns Empty().
func Concat(subs ...*Node) *Node {
	switch len(subs) {
	case 0:
		return Empty()
	case 1:
		return subs[0]
	default:
		return &Node{Kind: KindConcat, Sub: subs}
	}
}

// Alt returns a node matching any one of subs. A single element is returned
// unwrapped.
func Alt(subs ...*Node) *Node {
	if len(subs) == 1 {
		return subs[0]
	}
	return &Node{Kind: KindAlt, Sub: subs}
}

// Star returns a node matching sub zero or more times.
func Star(sub *Node) *Node { return &Node{Kind: KindStar, Sub: []*Node{sub}} }

// Plus returns a node matching sub one or more times.
func Plus(sub *Node) *Node { return &Node{Kind: KindPlus, Sub: []*Node{sub}} }

// Quest returns a node matching sub zero or one times.
func Quest(sub *Node) *Node { return &Node{Kind: KindQuest, Sub: []*Node{sub}} }
