// Package literal extracts a required literal byte prefix from a
// parsed pattern, for use as a restart accelerator in
// internal/prefilter. It is a small, directly-AST-shaped descendant of
// the teacher's literal-set algebra (literal/extractor.go,
// literal/seq.go): where the teacher builds a full prefix/suffix/
// cross-product literal set to drive strategy selection across
// NFA/DFA/prefilter engines, bregex's VM only ever needs the single
// longest required literal prefix of the top-level concatenation, so
// that is all this package computes.
package literal

import "github.com/bregex/bregex/internal/ast"

// ExtractPrefix walks the top-level node list and returns the longest
// run of literal bytes that every match must begin with, along with
// whether that run is the entire pattern (complete is true only when
// every top-level node was a plain literal byte, i.e. nothing after
// the prefix can still fail to consume it — callers use this to know
// whether the prefix alone determines containment).
func ExtractPrefix(arena *ast.Arena, list int) (prefix []byte, complete bool) {
	nodes := arena.Lists[list]
	for i, n := range nodes {
		if n.Kind != ast.KindLiteral {
			return prefix, false
		}
		prefix = append(prefix, n.Byte)
		if i == len(nodes)-1 {
			return prefix, true
		}
	}
	return prefix, true
}
