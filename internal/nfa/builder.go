package nfa

import (
	"github.com/vibrex/vibrex/internal/ast"
	"github.com/vibrex/vibrex/internal/conv"
)

// Program is the immutable, compiled NFA: a bounded arena of States plus the
// entry point and the two anchoring flags the matcher needs. It corresponds
// to spec.md §3's "Compiled pattern" NFA half (the literal-prefix /
// specialization halves live one level up, in the root package).
type Program struct {
	States []State
	Start  StateID

	// AnchoredStart is true when the compiled start state is itself a
	// StartAnchor - i.e. the pattern can only ever match beginning at
	// input position 0, so the matcher can skip trying later offsets.
	// This is a structural property of the built graph, not a parse-time
	// flag: "(^a|b)" does not set it even though '^' appears in the
	// pattern, matching spec.md §4.2's detection rule verbatim.
	AnchoredStart bool

	// AnchoredEnd is true when the pattern's raw text ends in an
	// unescaped '$', per spec.md §4.1's "trailing $ ... sets the
	// compiled pattern's anchored_end flag".
	AnchoredEnd bool

	// HasFirstByte and FirstByte implement the simulator's first-byte
	// skip (spec.md §4.2): set only when the entry state is itself an
	// unambiguous single Char transition, so any match must begin on an
	// occurrence of FirstByte. Patterns starting with an alternation,
	// class, anchor, or an atom quantified with '*' or '?' leave this
	// unset ('+' keeps its atom as the entry state, so "a+b" sets it); the
	// simulator then falls back to trying every offset.
	HasFirstByte bool
	FirstByte    byte
}

// patchSlot is a dangling outgoing arrow: the Out (slot 0) or Out1 (slot 1)
// field of state States[ID] that still needs to be pointed somewhere.
type patchSlot struct {
	id   StateID
	slot uint8
}

// fragment is a partial NFA: one entry state plus a list of dangling exits
// still to be patched, exactly spec.md §3's "Fragment (build-time only)".
type fragment struct {
	start StateID
	outs  []patchSlot
}

// Builder performs Thompson construction over an ast.Node tree into a
// bounded arena of States, per spec.md §4.1's construction rules.
type Builder struct {
	states   []State
	maxState int
}

// NewBuilder returns a Builder whose state pool is capped at maxStates.
func NewBuilder(maxStates int) *Builder {
	return &Builder{maxState: maxStates}
}

func (b *Builder) newState(s State) (StateID, error) {
	if len(b.states) >= b.maxState {
		return InvalidState, ErrTooManyStates
	}
	b.states = append(b.states, s)
	return StateID(conv.IntToInt32(len(b.states) - 1)), nil
}

func (b *Builder) patch(outs []patchSlot, target StateID) {
	for _, p := range outs {
		if p.slot == 0 {
			b.states[p.id].Out = target
		} else {
			b.states[p.id].Out1 = target
		}
	}
}

// Build runs Thompson construction over root and returns a finished
// Program with a single Match state terminating every dangling exit.
// anchoredEnd is threaded through from the raw pattern text since it is a
// textual property (spec.md §4.1), not something the AST alone encodes.
func Build(root *ast.Node, maxStates int, anchoredEnd bool) (*Program, error) {
	b := NewBuilder(maxStates)

	frag, err := b.compile(root)
	if err != nil {
		return nil, err
	}

	matchID, err := b.newState(State{Kind: KindMatch, Out: InvalidState})
	if err != nil {
		return nil, err
	}
	b.patch(frag.outs, matchID)

	prog := &Program{
		States:      b.states,
		Start:       frag.start,
		AnchoredEnd: anchoredEnd,
	}
	prog.AnchoredStart = prog.States[prog.Start].Kind == KindStartAnchor
	if start := prog.States[prog.Start]; start.Kind == KindChar {
		prog.HasFirstByte = true
		prog.FirstByte = start.Char
	}
	return prog, nil
}

// compile implements the Thompson construction rules of spec.md §4.1,
// recursing over the ast.Node tree structure produced by internal/parser.
func (b *Builder) compile(n *ast.Node) (fragment, error) {
	switch n.Kind {
	case ast.KindEmpty:
		return b.compileEmpty()
	case ast.KindLiteral:
		return b.compileConsuming(State{Kind: KindChar, Char: n.Literal, Out: InvalidState})
	case ast.KindAny:
		return b.compileConsuming(State{Kind: KindAny, Out: InvalidState})
	case ast.KindClass:
		return b.compileConsuming(State{Kind: KindClass, Class: n.Class, Out: InvalidState})
	case ast.KindStartAnchor:
		return b.compileConsuming(State{Kind: KindStartAnchor, Out: InvalidState})
	case ast.KindEndAnchor:
		return b.compileConsuming(State{Kind: KindEndAnchor, Out: InvalidState})
	case ast.KindConcat:
		return b.compileConcat(n.Sub)
	case ast.KindAlt:
		return b.compileAlt(n.Sub)
	case ast.KindStar:
		return b.compileStar(n.Sub[0])
	case ast.KindPlus:
		return b.compilePlus(n.Sub[0])
	case ast.KindQuest:
		return b.compileQuest(n.Sub[0])
	default:
		panic("vibrex: unreachable ast.Kind in NFA builder")
	}
}

// compileEmpty builds a fragment matching only the empty string: a single
// epsilon Split whose both branches point to the same still-dangling exit,
// represented here with a zero-width state that consumes nothing. We reuse
// a Split with both arrows dangling rather than a bespoke epsilon state so
// the builder has one fewer state kind to special-case downstream.
func (b *Builder) compileEmpty() (fragment, error) {
	id, err := b.newState(State{Kind: KindSplit, Out: InvalidState, Out1: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	// Both slots are patched to the same target later; listing the slot
	// twice keeps a single patch call correct for either quantifier or
	// concatenation callers.
	return fragment{start: id, outs: []patchSlot{{id, 0}, {id, 1}}}, nil
}

func (b *Builder) compileConsuming(s State) (fragment, error) {
	id, err := b.newState(s)
	if err != nil {
		return fragment{}, err
	}
	return fragment{start: id, outs: []patchSlot{{id, 0}}}, nil
}

func (b *Builder) compileConcat(subs []*ast.Node) (fragment, error) {
	first, err := b.compile(subs[0])
	if err != nil {
		return fragment{}, err
	}
	acc := first
	for _, s := range subs[1:] {
		next, err := b.compile(s)
		if err != nil {
			return fragment{}, err
		}
		b.patch(acc.outs, next.start)
		acc = fragment{start: acc.start, outs: next.outs}
	}
	return acc, nil
}

func (b *Builder) compileAlt(subs []*ast.Node) (fragment, error) {
	first, err := b.compile(subs[0])
	if err != nil {
		return fragment{}, err
	}
	acc := first
	for _, s := range subs[1:] {
		next, err := b.compile(s)
		if err != nil {
			return fragment{}, err
		}
		splitID, err := b.newState(State{Kind: KindSplit, Out: acc.start, Out1: next.start})
		if err != nil {
			return fragment{}, err
		}
		acc = fragment{start: splitID, outs: append(acc.outs, next.outs...)}
	}
	return acc, nil
}

// compileStar implements A*: new Split(A.entry, dangling); A's outs feed
// back into the split (the loop), and the split's second slot is the
// fragment's only dangling exit. Greedy: the first slot (A's entry) is
// preferred by the simulator's closure order.
func (b *Builder) compileStar(sub *ast.Node) (fragment, error) {
	a, err := b.compile(sub)
	if err != nil {
		return fragment{}, err
	}
	splitID, err := b.newState(State{Kind: KindSplit, Out: a.start, Out1: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	b.patch(a.outs, splitID)
	return fragment{start: splitID, outs: []patchSlot{{splitID, 1}}}, nil
}

// compilePlus implements A+: identical wiring to Star except the fragment's
// entry is A's entry rather than the split, so at least one pass through A
// is mandatory.
func (b *Builder) compilePlus(sub *ast.Node) (fragment, error) {
	a, err := b.compile(sub)
	if err != nil {
		return fragment{}, err
	}
	splitID, err := b.newState(State{Kind: KindSplit, Out: a.start, Out1: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	b.patch(a.outs, splitID)
	return fragment{start: a.start, outs: []patchSlot{{splitID, 1}}}, nil
}

// compileQuest implements A?: new Split(A.entry, dangling); the fragment's
// exits are A's own outs plus the split's second slot, so input may bypass
// A entirely.
func (b *Builder) compileQuest(sub *ast.Node) (fragment, error) {
	a, err := b.compile(sub)
	if err != nil {
		return fragment{}, err
	}
	splitID, err := b.newState(State{Kind: KindSplit, Out: a.start, Out1: InvalidState})
	if err != nil {
		return fragment{}, err
	}
	outs := append(append([]patchSlot{}, a.outs...), patchSlot{splitID, 1})
	return fragment{start: splitID, outs: outs}, nil
}
