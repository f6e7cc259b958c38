package optimize

// Try runs the five specialized-matcher probes against pattern in the
// fixed order spec.md §4.3 requires - both-anchors, URL-shape,
// literal-alternation, advanced-alternation, literal/alternation DFA -
// and returns the first Matcher that recognizes the pattern's shape.
// Callers fall back to general NFA simulation when ok is false.
func Try(pattern []byte) (Matcher, bool) {
	if m, ok := DetectBothAnchors(pattern); ok {
		return m, true
	}
	if m, ok := DetectURLShape(pattern); ok {
		return m, true
	}
	if m, ok := DetectLiteralAlt(pattern); ok {
		return m, true
	}
	if m, ok := DetectAdvancedAlt(pattern); ok {
		return m, true
	}
	if m, ok := DetectLiteralDFA(pattern); ok {
		return m, true
	}
	return nil, false
}
