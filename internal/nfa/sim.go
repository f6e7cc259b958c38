package nfa

import (
	"bytes"

	"github.com/vibrex/vibrex/internal/conv"
	"github.com/vibrex/vibrex/internal/sparse"
)

// Scratch is the mutable working memory of one NFA search: the current and
// next frontier lists, plus a sparse set tracking which states the current
// closure step has already visited, per spec.md §3's "lastlist" dedup tag
// and §5's requirement that scratch never be shared across concurrent
// matches on the same compiled Program. Callers obtain a Scratch per call
// (or per matcher) from a sync.Pool - see the root package's Pattern.Match -
// rather than storing one on Program itself.
type Scratch struct {
	visited *sparse.SparseSet
	listA   []StateID
	listB   []StateID
}

// NewScratch returns an empty Scratch ready for use with any Program; its
// buffers grow lazily to the first Program's state count and are reused
// (never shrunk) on subsequent calls.
func NewScratch() *Scratch {
	return &Scratch{visited: sparse.NewSparseSet(0)}
}

// reset ensures the scratch's buffers can hold numStates entries.
func (s *Scratch) reset(numStates int) {
	s.visited.Resize(conv.IntToUint32(numStates))
	if cap(s.listA) < numStates {
		s.listA = make([]StateID, 0, numStates)
	}
	if cap(s.listB) < numStates {
		s.listB = make([]StateID, 0, numStates)
	}
}

// addState computes the epsilon-closure of id into list: Split fans out to
// both branches, StartAnchor/EndAnchor only propagate when the current
// position satisfies the anchor, and every other kind (Char, Any, Class,
// Match) is a closure leaf that gets appended. States the current step's
// sparse set already marks visited are skipped, matching spec.md §4.2's
// duplicate-suppression rule.
func (s *Scratch) addState(list []StateID, states []State, id StateID, text []byte, pos int) []StateID {
	if id == InvalidState {
		return list
	}
	if s.visited.Contains(uint32(id)) {
		return list
	}
	s.visited.Insert(uint32(id))

	st := &states[id]
	switch st.Kind {
	case KindSplit:
		list = s.addState(list, states, st.Out, text, pos)
		list = s.addState(list, states, st.Out1, text, pos)
		return list
	case KindStartAnchor:
		if pos == 0 {
			list = s.addState(list, states, st.Out, text, pos)
		}
		return list
	case KindEndAnchor:
		if pos == len(text) {
			list = s.addState(list, states, st.Out, text, pos)
		}
		return list
	default:
		return append(list, id)
	}
}

// MatchAt runs the two-set simulation anchored at exactly offset start: it
// reports whether some path through prog consumes a (possibly empty) run of
// bytes beginning at start and reaches a Match state. This is the core
// engine beneath both the anchored-start fast path and the general
// unanchored Search loop below.
//
// When prog.AnchoredEnd is set, a Match state reached before the text is
// exhausted does not count: the pattern's trailing '$' requires the whole
// remaining text be consumed along that path, so such an intermediate Match
// is ignored and the frontier keeps stepping rather than accepting early.
func MatchAt(prog *Program, text []byte, start int, sc *Scratch) bool {
	n := len(prog.States)
	sc.reset(n)

	sc.visited.Clear()
	cur := sc.addState(sc.listA[:0], prog.States, prog.Start, text, start)
	next := sc.listB[:0]

	for pos := start; ; pos++ {
		for _, id := range cur {
			if prog.States[id].Kind == KindMatch && (!prog.AnchoredEnd || pos == len(text)) {
				return true
			}
		}
		if pos >= len(text) || len(cur) == 0 {
			return false
		}

		c := text[pos]
		sc.visited.Clear()
		next = next[:0]
		for _, id := range cur {
			st := &prog.States[id]
			switch st.Kind {
			case KindChar:
				if st.Char == c {
					next = sc.addState(next, prog.States, st.Out, text, pos+1)
				}
			case KindAny:
				next = sc.addState(next, prog.States, st.Out, text, pos+1)
			case KindClass:
				if st.Class.Test(c) {
					next = sc.addState(next, prog.States, st.Out, text, pos+1)
				}
			}
		}

		cur, next = next, cur
	}
}

// Search runs the general unanchored NFA simulation: it tries successive
// start offsets until one reaches a Match state or the text is exhausted.
// A pattern whose compiled entry state is itself a StartAnchor only ever
// tries offset 0 (spec.md §4.2's anchored-start detection); a pattern whose
// entry state is an unambiguous literal byte uses that byte to skip
// candidate offsets via bytes.IndexByte instead of probing every position
// (spec.md §4.2's first-byte skip). Neither shortcut changes the result,
// only how many offsets MatchAt is asked to try.
func Search(prog *Program, text []byte, sc *Scratch) bool {
	if prog.AnchoredStart {
		return MatchAt(prog, text, 0, sc)
	}

	if prog.HasFirstByte {
		start := 0
		for start < len(text) {
			idx := bytes.IndexByte(text[start:], prog.FirstByte)
			if idx < 0 {
				return false
			}
			start += idx
			if MatchAt(prog, text, start, sc) {
				return true
			}
			start++
		}
		return false
	}

	for start := 0; start <= len(text); start++ {
		if MatchAt(prog, text, start, sc) {
			return true
		}
	}
	return false
}
