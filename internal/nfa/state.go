// Package nfa implements Thompson construction over an internal/ast.Node
// tree (builder.go) and the two-set NFA simulator that walks the resulting
// program over input text (sim.go), per spec.md §3 and §4.2.
package nfa

import "github.com/vibrex/vibrex/internal/charclass"

// StateID indexes into a Program's state pool. InvalidState marks an
// absent transition (e.g. a Match state's Out, or a not-yet-patched slot).
type StateID int32

// InvalidState is never a valid index into Program.States.
const InvalidState StateID = -1

// Kind is the tagged-variant discriminator for a State, matching spec.md
// §3's "NFA state" data model exactly: Char, Any, Class, Split, Match,
// StartAnchor, EndAnchor.
type Kind uint8

const (
	KindChar Kind = iota
	KindAny
	KindClass
	KindSplit
	KindMatch
	KindStartAnchor
	KindEndAnchor
)

// State is one node of the compiled automaton. Only the fields relevant to
// Kind are meaningful; Char/Class consume a byte and carry one outgoing
// transition (Out), Split carries two epsilon transitions (Out, Out1),
// Match carries none, and StartAnchor/EndAnchor carry one epsilon
// transition taken conditionally on the current input position.
type State struct {
	Kind  Kind
	Char  byte
	Class *charclass.Set
	Out   StateID
	Out1  StateID
}
