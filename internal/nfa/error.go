package nfa

import "errors"

// ErrTooManyStates is returned by Build when the pattern would require more
// than the builder's configured state-pool ceiling (spec.md §3/§5: 4,096
// NFA states per pattern).
var ErrTooManyStates = errors.New("vibrex: NFA state pool exhausted")
