package literal

import "github.com/bregex/bregex/internal/ast"

// AlternationLiterals collects the literal text of every branch of a
// top-level alternation chain (e.g. "cat|dog|bird"), for use by
// internal/prefilter's Aho-Corasick restart accelerator. It returns
// ok=false unless the list consists of exactly one alternation node
// whose every branch, all the way down the right-leaning chain the
// parser builds (internal/ast's flat left-factoring), is itself a
// pure run of literal bytes — the same restriction ExtractPrefix
// applies to a single branch.
func AlternationLiterals(arena *ast.Arena, list int) ([][]byte, bool) {
	nodes := arena.Lists[list]
	if len(nodes) != 1 || nodes[0].Kind != ast.KindAlternation {
		return nil, false
	}

	var literals [][]byte
	node := nodes[0]
	for {
		left, complete := ExtractPrefix(arena, node.ListIndex)
		if !complete || len(left) == 0 {
			return nil, false
		}
		literals = append(literals, left)

		rightNodes := arena.Lists[node.AltRightIndex]
		if len(rightNodes) == 1 && rightNodes[0].Kind == ast.KindAlternation {
			node = rightNodes[0]
			continue
		}

		right, complete := ExtractPrefix(arena, node.AltRightIndex)
		if !complete || len(right) == 0 {
			return nil, false
		}
		literals = append(literals, right)
		return literals, true
	}
}
