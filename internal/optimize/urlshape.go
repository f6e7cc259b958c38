package optimize

import (
	"bytes"

	"github.com/vibrex/vibrex/internal/charclass"
)

// URLShape matches patterns of the exact shape `http://[class]+`,
// `https://[class]+` or `https?://[class]+`, spec.md §4.3(2): the scheme
// and separator are fixed literal text, and the remainder of the URL is a
// single non-empty run from a character class.
type URLShape struct {
	class *charclass.Set
	// s is set when the scheme is "https" or "https?"; optS is set for
	// "https?", where the 's' may be absent from the text.
	s, optS bool
}

// DetectURLShape implements vibrex.c's can_use_url_pattern_opt: the pattern
// must be exactly "http", optionally "s" or "s?", then "://", then one
// bracketed class, then '+', then end of pattern - no trailing content of
// any kind.
func DetectURLShape(pattern []byte) (*URLShape, bool) {
	if !bytes.HasPrefix(pattern, []byte("http")) {
		return nil, false
	}
	p := pattern[4:]

	u := &URLShape{}
	if len(p) > 0 && p[0] == 's' {
		p = p[1:]
		u.s = true
		if len(p) > 0 && p[0] == '?' {
			p = p[1:]
			u.optS = true
		}
	}
	if !bytes.HasPrefix(p, []byte("://")) {
		return nil, false
	}
	p = p[3:]

	if len(p) == 0 || p[0] != '[' {
		return nil, false
	}
	p = p[1:]

	end := bytes.IndexByte(p, ']')
	if end < 0 {
		return nil, false
	}
	classBody := p[:end]
	p = p[end+1:]

	if len(p) == 0 || p[0] != '+' {
		return nil, false
	}
	p = p[1:]

	if len(p) != 0 {
		return nil, false
	}

	set, ok := parseURLClass(classBody)
	if !ok {
		return nil, false
	}
	u.class = set
	return u, true
}

// parseURLClass parses the bracketed body (without '[' ']') as a sequence
// of single bytes and a-b ranges, exactly as compile_url_pattern_opt does -
// this is a narrower grammar than internal/parser's class syntax (no '^'
// negation, no backslash escapes), matching the original source.
func parseURLClass(body []byte) (*charclass.Set, bool) {
	set := charclass.New()
	i := 0
	for i < len(body) {
		lo := body[i]
		hi := lo
		i++
		if i+1 < len(body) && body[i] == '-' {
			i++
			hi = body[i]
			i++
			if hi < lo {
				return nil, false
			}
		}
		set.SetRange(lo, hi)
	}
	return set, true
}

// Match reimplements match_with_url_pattern_opt: scan for "http", verify
// the fixed scheme/separator text right after it, then require one-or-more
// class bytes to follow. Restarts one byte past a failed "http" occurrence
// rather than giving up, since "xhttp://..." still contains a valid URL
// starting at offset 1.
func (u *URLShape) Match(text []byte) bool {
	p := 0
	for {
		idx := bytes.Index(text[p:], []byte("http"))
		if idx < 0 {
			return false
		}
		start := p + idx
		q := start + 4

		if u.s && q < len(text) && text[q] == 's' {
			q++
		} else if u.s && !u.optS {
			p = start + 1
			continue
		}
		if q+3 > len(text) || string(text[q:q+3]) != "://" {
			p = start + 1
			continue
		}
		q += 3

		if q >= len(text) || !u.class.Test(text[q]) {
			p = start + 1
			continue
		}
		return true
	}
}
