// Package prefilter accelerates the VM's unanchored restart step
// (spec.md §4.4's match_from_index advance) by letting the search skip
// straight to the next byte offset where a match could possibly begin,
// instead of re-running the full backtracking program at every
// offset. A Prefilter never decides whether a match occurred — only
// the VM does that — so wiring one in can only change how fast the
// VM fails, never what it matches. This keeps the VM itself the sole
// authority and respects the "no DFA/NFA simulation" non-goal: a
// Prefilter is a restart accelerator, not an alternate match engine.
//
// The selection logic mirrors the teacher's meta.buildStrategyEngines
// (meta/compile.go): the literal prefix is consulted first, then the
// top-level literal alternation falls back to Aho-Corasick the way
// the teacher does for large literal sets (>32 patterns, per
// meta/compile.go), kept here without the patternCount threshold
// since bregex has exactly one non-DFA strategy to fall back to.
package prefilter

import (
	"bytes"

	"github.com/coregx/ahocorasick"

	"github.com/bregex/bregex/internal/simd"
)

// Prefilter reports the next candidate offset at or after from where
// a match could begin, or false if none remains in hay.
type Prefilter interface {
	NextCandidate(hay []byte, from int) (int, bool)
}

// bytePrefilter accelerates patterns whose required prefix is a
// single byte, via internal/simd's portable memchr.
type bytePrefilter struct {
	b byte
}

func (p bytePrefilter) NextCandidate(hay []byte, from int) (int, bool) {
	if from >= len(hay) {
		return 0, false
	}
	idx := simd.Memchr(hay[from:], p.b)
	if idx < 0 {
		return 0, false
	}
	return from + idx, true
}

// prefixPrefilter accelerates patterns with a required multi-byte
// literal prefix via stdlib substring search.
type prefixPrefilter struct {
	prefix []byte
}

func (p prefixPrefilter) NextCandidate(hay []byte, from int) (int, bool) {
	if from >= len(hay) {
		return 0, false
	}
	idx := bytes.Index(hay[from:], p.prefix)
	if idx < 0 {
		return 0, false
	}
	return from + idx, true
}

// alternationPrefilter accelerates a top-level alternation of plain
// literals (e.g. "cat|dog|bird") via an Aho-Corasick automaton built
// once at compile time, grounded on meta/compile.go's
// ahocorasick.NewBuilder()/.AddPattern()/.Build() usage.
type alternationPrefilter struct {
	auto *ahocorasick.Automaton
}

// NewAlternation builds an alternationPrefilter from a set of literal
// alternatives, or (nil, false) if the automaton could not be built
// (the same fallback-to-no-prefilter the teacher takes on a build
// error in meta/compile.go).
func NewAlternation(literals [][]byte) (Prefilter, bool) {
	if len(literals) < 2 {
		return nil, false
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, false
	}
	return alternationPrefilter{auto: auto}, true
}

func (p alternationPrefilter) NextCandidate(hay []byte, from int) (int, bool) {
	if from > len(hay) {
		return 0, false
	}
	match := p.auto.Find(hay, from)
	if match == nil {
		return 0, false
	}
	return match.Start, true
}

// NewPrefix builds the appropriate single-literal-run Prefilter for a
// required prefix: a byte-oriented one for a 1-byte prefix, a
// substring one otherwise. Returns (nil, false) for an empty prefix —
// there is nothing to accelerate on.
func NewPrefix(prefix []byte) (Prefilter, bool) {
	switch len(prefix) {
	case 0:
		return nil, false
	case 1:
		return bytePrefilter{b: prefix[0]}, true
	default:
		return prefixPrefilter{prefix: prefix}, true
	}
}
